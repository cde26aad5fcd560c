package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if len(seen) != 32 {
		t.Errorf("generated id %q, want 32 hex chars", seen)
	}
	if rr.Header().Get("X-Request-Id") != seen {
		t.Errorf("response header %q, want %q", rr.Header().Get("X-Request-Id"), seen)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Correlation-Id", "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "abc-123" {
		t.Errorf("propagated id %q, want abc-123", seen)
	}
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := middleware.RequestID()(middleware.RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/bills/generate", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusConflict) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["path"] != "/api/bills/generate" {
		t.Errorf("path field = %v", fields["path"])
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Error("request_id field missing")
	}
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(middleware.Metrics(m))
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/orders/123", nil))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body := rr.Body.String()
	want := `pos_http_requests_total{method="GET",route="/api/orders/{id}",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics output missing %s", want)
	}
}
