package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/services"
)

func TestCreateShareBodyLimit(t *testing.T) {
	h := NewHTTPHandler(nil, nil, nil)
	body := `{"title":"` + strings.Repeat("x", maxBodyBytes+1) + `","entries":[{"text":"N;"}]}`

	for name, fn := range map[string]http.HandlerFunc{"create": h.Create, "update": h.Update} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shares/1", strings.NewReader(body))
		req.SetPathValue("id", "1")
		rec := httptest.NewRecorder()
		fn(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 for an oversized body, got %d", name, rec.Code)
		}
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{services.ErrShareNotFound, http.StatusNotFound, "share not found"},
		{services.ErrShortCodeTaken, http.StatusConflict, "custom code already exists"},
		{services.ErrInvalidShortCode, http.StatusBadRequest, "custom code may only contain"},
		{errors.New("constraint failed: UNIQUE constraint failed: shares.short_code"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, tt.err)
		if rec.Code != tt.status {
			t.Errorf("%v: status %d want %d", tt.err, rec.Code, tt.status)
		}
		if !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("%v: body %q", tt.err, rec.Body.String())
		}
		if tt.status == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "UNIQUE") {
			t.Errorf("storage error leaked: %q", rec.Body.String())
		}
	}
}
