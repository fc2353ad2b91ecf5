package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/", "/", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	m.Decoded("PHP (auto-detected)", true)
	m.Decoded("", false)
	m.LinkLoaded(false)

	rr := httptest.NewRecorder()
	m.Handler(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	for _, want := range []string{
		`http_requests_total{method="GET",code="2xx"} 2`,
		`http_requests_total{method="GET",code="4xx"} 1`,
		`decode_total{format="php_auto",result="ok"} 1`,
		`decode_total{format="none",result="error"} 1`,
		`link_loads_total{result="invalid"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsMiddlewareUnknownMethods(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))

	methods := []string{"X'|Y", "A.B~C", "M0", "M1", "M2"}
	for _, method := range methods {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Method = method
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	rr := httptest.NewRecorder()
	m.Handler(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	if !strings.Contains(body, `http_requests_total{method="other",code="4xx"} 5`) {
		t.Errorf("expected unknown methods folded into one series, got:\n%s", body)
	}
	for _, method := range methods {
		if strings.Contains(body, `method="`+method+`"`) {
			t.Errorf("series created for method %q", method)
		}
	}
	if n := strings.Count(body, "http_requests_total{"); n != 1 {
		t.Errorf("expected 1 request series, got %d", n)
	}
}
