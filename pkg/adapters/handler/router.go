package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/config"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"go.uber.org/zap"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, shareService ports.ShareService, comparisonService ports.ComparisonService, logger *zap.Logger) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	frontend, err := url.Parse(cfg.FrontendURL)
	if err != nil {
		return nil, fmt.Errorf("parse FRONTEND_URL: %w", err)
	}

	// Initialize Handlers
	h := NewHTTPHandler(shareService, frontend, logger.Named("http"))
	m := NewMetrics()
	ch := NewComparisonHandler(comparisonService, frontend, m)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Initialize Auth Handler
	authHandler := NewAuthHandler(cfg, logger.Named("auth"))

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		writeJSON(w, http.StatusOK, &res)
	})
	mux.HandleFunc("GET /metrics", m.Handler)
	mux.HandleFunc("GET /s/{short_code}", h.Redirect)
	mux.HandleFunc("GET /s/{short_code}/info", h.GetPublicByShortCode)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Comparison Routes (stateless, public)
	mux.HandleFunc("POST /api/v1/decode", ch.Decode)
	mux.HandleFunc("GET /api/v1/compare", ch.Get)
	mux.HandleFunc("POST /api/v1/compare", ch.Add)
	mux.HandleFunc("DELETE /api/v1/compare/{index}", ch.Remove)
	mux.HandleFunc("POST /api/v1/link", ch.Link)

	// Protected Routes (API & Dashboard)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /api/v1/shares", h.Create)
	protectedMux.HandleFunc("GET /api/v1/shares", h.List)
	protectedMux.HandleFunc("GET /api/v1/shares/{id}/stats", h.Stats)
	protectedMux.HandleFunc("GET /api/v1/dashboard", h.Dashboard)
	protectedMux.HandleFunc("PUT /api/v1/shares/{id}", h.Update)
	protectedMux.HandleFunc("DELETE /api/v1/shares/{id}", h.Delete)

	// Apply Middleware to Protected Routes
	// The more specific comparison patterns above win over this prefix.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return m.Middleware(mux), nil
}
