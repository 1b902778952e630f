package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	var m dto.Metric
	metric, ok := c.(prometheus.Metric)
	if !ok {
		t.Fatalf("collector %T is not a single metric", c)
	}
	if err := metric.Write(&m); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}
	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	}
	return 0
}

func TestMetricsMiddlewareCountsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	before := counterValue(t, HTTPRequestTotals.WithLabelValues("POST", "/chat", "400"))

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := counterValue(t, HTTPRequestTotals.WithLabelValues("POST", "/chat", "400"))
	if after-before != 1 {
		t.Errorf("Expected counter to increase by 1, got %v", after-before)
	}

	before = counterValue(t, HTTPRequestTotals.WithLabelValues("GET", "/health", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	after = counterValue(t, HTTPRequestTotals.WithLabelValues("GET", "/health", "200"))
	if after-before != 1 {
		t.Errorf("Expected implicit 200 to be recorded, got delta %v", after-before)
	}

	if inFlight := counterValue(t, HTTPRequestInFlight); inFlight != 0 {
		t.Errorf("Expected no request in flight, got %v", inFlight)
	}
}

func TestMetricsMiddlewareWithoutRouter(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := counterValue(t, HTTPRequestTotals.WithLabelValues("GET", "/raw", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/raw", nil))
	after := counterValue(t, HTTPRequestTotals.WithLabelValues("GET", "/raw", "200"))

	if after-before != 1 {
		t.Errorf("Expected raw path to be used outside a chi router, got delta %v", after-before)
	}
}
