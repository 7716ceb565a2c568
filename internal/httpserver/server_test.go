package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHealthReflectsCallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	healthy := true
	s := New(DefaultConfig(), reg, func() bool { return healthy })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 while healthy, got %d", rec.Code)
	}

	healthy = false
	rec2 := httptest.NewRecorder()
	s.router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 once unhealthy, got %d", rec2.Code)
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New(DefaultConfig(), reg, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_counter 1") {
		t.Fatalf("expected test_counter in metrics output, got: %s", rec.Body.String())
	}
}
