package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
)

// maxBodyBytes bounds request bodies; tokens and entries are meant to fit a URL.
const maxBodyBytes = 1 << 20

type ComparisonHandler struct {
	service  ports.ComparisonService
	frontend *url.URL
	metrics  *Metrics
}

func NewComparisonHandler(service ports.ComparisonService, frontend *url.URL, m *Metrics) *ComparisonHandler {
	if m == nil {
		m = NewMetrics()
	}
	return &ComparisonHandler{service: service, frontend: frontend, metrics: m}
}

type decodeRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type addEntryRequest struct {
	Data  string `json:"data"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type linkRequest struct {
	Entries []domain.RawEntry `json:"entries"`
}

type comparisonResponse struct {
	Token   string                `json:"token"`
	URL     string                `json:"url"`
	Entries []domain.DecodedEntry `json:"entries"`
}

func (h *ComparisonHandler) respond(w http.ResponseWriter, status int, c *domain.Comparison) {
	entries := c.Entries
	if entries == nil {
		entries = []domain.DecodedEntry{}
	}
	writeJSON(w, status, comparisonResponse{
		Token:   c.Token,
		URL:     linkcodec.SetToken(h.frontend, c.Token).String(),
		Entries: entries,
	})
}

// Decode a single entry. Decode failures are reported inside the entry.
func (h *ComparisonHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry := h.service.Decode(domain.RawEntry{Title: req.Title, Text: req.Text})
	h.metrics.Decoded(entry.Format, entry.OK())
	writeJSON(w, http.StatusOK, entry)
}

// Get the entries held by the data parameter. An invalid token yields an
// empty comparison.
func (h *ComparisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(linkcodec.QueryParam)
	entries := h.service.Load(token)
	if token != "" {
		h.metrics.LinkLoaded(len(entries) > 0)
	}
	raw := make([]domain.RawEntry, len(entries))
	for i, e := range entries {
		raw[i] = e.Raw()
	}
	h.respond(w, http.StatusOK, &domain.Comparison{Token: h.service.Encode(raw), Entries: entries})
}

// Add an entry to the comparison held by data
func (h *ComparisonHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.service.AddEntry(req.Data, domain.RawEntry{Title: req.Title, Text: req.Text})
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

// Remove the entry at index from the comparison held by data
func (h *ComparisonHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	c, err := h.service.RemoveEntry(r.URL.Query().Get(linkcodec.QueryParam), index)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

// Link encodes entries into a token and the shareable URL carrying it
func (h *ComparisonHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Entries) > h.service.MaxEntries() {
		http.Error(w, domain.ErrCollectionFull.Error(), http.StatusBadRequest)
		return
	}

	token := h.service.Encode(req.Entries)
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   linkcodec.SetToken(h.frontend, token).String(),
	})
}
