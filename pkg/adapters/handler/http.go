package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/services"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	service  ports.ShareService
	frontend *url.URL
	logger   *zap.Logger
}

func NewHTTPHandler(service ports.ShareService, frontend *url.URL, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, frontend: frontend, logger: logger}
}

// CreateShareRequest payload
type CreateShareRequest struct {
	Title      string            `json:"title"`
	Entries    []domain.RawEntry `json:"entries"`
	CustomCode string            `json:"custom_code,omitempty"`
}

// UpdateShareRequest payload
type UpdateShareRequest struct {
	Title   string            `json:"title,omitempty"`
	Entries []domain.RawEntry `json:"entries,omitempty"`
}

// Create Share
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateShareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	share, err := h.service.Shorten(r.Context(), req.Title, req.Entries, req.CustomCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, share)
}

// Redirect to the comparison page with the stored entries in its query
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_code")
	if code == "" {
		http.Error(w, "Short code missing", http.StatusBadRequest)
		return
	}

	token, err := h.service.GetToken(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	// Async track visit (only if query param "no_stat" is not set)
	if r.URL.Query().Get("no_stat") == "" {
		referer := r.Header.Get("Referer")
		userAgent := r.UserAgent()
		ip := clientIP(r)
		go func() {
			// request context is cancelled once the redirect is written
			if err := h.service.RecordVisit(context.Background(), code, referer, userAgent, ip); err != nil {
				h.logger.Warn("record visit failed", zap.String("code", code), zap.Error(err))
			}
		}()
	}

	http.Redirect(w, r, linkcodec.SetToken(h.frontend, token).String(), http.StatusFound)
}

// Get Public Share (without redirect, for metadata resolution)
func (h *HTTPHandler) GetPublicByShortCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_code")
	if code == "" {
		http.Error(w, "Short code missing", http.StatusBadRequest)
		return
	}

	share, err := h.service.GetShareByShortCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// Get Stats for a Share
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetShareStats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Get Dashboard
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	shares, total, err := h.service.GetDashboard(r.Context(), limit, search)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"top_shares":          shares,
		"total_system_clicks": total,
	})
}

// List Shares
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	shares, count, err := h.service.ListShares(r.Context(), page, limit, search)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  shares,
		"total": count,
		"page":  page,
		"limit": limit,
	})
}

// Update Share
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateShareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	share, err := h.service.UpdateShare(r.Context(), id, req.Title, req.Entries)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// Delete Share
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteShare(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// clientIP prefers the first X-Forwarded-For hop set by the hosting proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service and domain errors to a status code.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrShareNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrShortCodeTaken), errors.Is(err, domain.ErrCollectionFull):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNoEntries), errors.Is(err, services.ErrTooManyEntries),
		errors.Is(err, services.ErrInvalidShortCode):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEntryIndex):
		status = http.StatusNotFound
	default:
		// Storage errors stay out of the response body.
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
