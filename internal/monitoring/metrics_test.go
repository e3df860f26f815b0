package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.ObserveReport("DUSKY18", OutcomeEnriched, 42.5)
	c.ObserveReport("DUSKY18", OutcomeEnriched, 12.0)
	c.ObserveReport("DUSKY99", OutcomeSkipped, 0)
	c.ObserveReport("", OutcomeNoSign, 0)

	if got := testutil.ToFloat64(c.ReportsTotal.WithLabelValues(OutcomeEnriched)); got != 2 {
		t.Errorf("enriched count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ReportsTotal.WithLabelValues(OutcomeSkipped)); got != 1 {
		t.Errorf("skipped count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.ReportsTotal.WithLabelValues(OutcomeNoSign)); got != 1 {
		t.Errorf("no_call_sign count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.LastDeviationFeet.WithLabelValues("DUSKY18")); got != 12.0 {
		t.Errorf("last deviation = %v, want 12", got)
	}
	// Skipped reports carry no deviation observation.
	if got := testutil.CollectAndCount(c.DeviationFeet); got != 1 {
		t.Errorf("deviation series = %d, want 1", got)
	}
}

func TestObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.ObserveHTTP(http.MethodPost, "/data", http.StatusOK)
	c.ObserveHTTP(http.MethodPost, "/data", http.StatusOK)
	c.ObserveHTTP(http.MethodGet, "/data", http.StatusNotFound)

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/data", "200")); got != 2 {
		t.Errorf("POST /data 200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/data", "404")); got != 1 {
		t.Errorf("GET /data 404 count = %v, want 1", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveReport("DUSKY18", OutcomeEnriched, 10)
	c.ObserveHTTP(http.MethodGet, "/data", http.StatusOK)
}

func TestDoubleRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector failed: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector failed: %v", err)
	}

	first.ObserveReport("DUSKY18", OutcomeEnriched, 10)
	second.ObserveReport("DUSKY18", OutcomeEnriched, 10)

	if got := testutil.ToFloat64(first.ReportsTotal.WithLabelValues(OutcomeEnriched)); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}
	c.ObserveReport("DUSKY18", OutcomeEnriched, 42.5)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "deviation_reports_total") {
		t.Error("exposition missing deviation_reports_total")
	}
	if !strings.Contains(w.Body.String(), "deviation_last_feet") {
		t.Error("exposition missing deviation_last_feet")
	}
}
