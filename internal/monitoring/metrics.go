package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles Prometheus metrics for the deviation service and
// provides a ready-to-mount /metrics handler.
type Collector struct {
	gatherer prometheus.Gatherer

	ReportsTotal      *prometheus.CounterVec
	DeviationFeet     *prometheus.HistogramVec
	LastDeviationFeet *prometheus.GaugeVec
	HTTPRequests      *prometheus.CounterVec
}

// Intake outcome labels for ReportsTotal.
const (
	OutcomeEnriched = "enriched"
	OutcomeSkipped  = "skipped"
	OutcomeNoSign   = "no_call_sign"
)

// NewCollector registers the service metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	reports, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deviation_reports_total",
		Help: "Total ingested position reports, labeled by intake outcome.",
	}, []string{"outcome"}), "deviation_reports_total")
	if err != nil {
		return nil, err
	}

	deviations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deviation_feet",
		Help:    "Computed lateral deviation from the reference path, in feet.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"call_sign"}), "deviation_feet")
	if err != nil {
		return nil, err
	}

	lastDeviation, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deviation_last_feet",
		Help: "Most recently computed deviation per call sign, in feet.",
	}, []string{"call_sign"}), "deviation_last_feet")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total handled HTTP requests, labeled by method, path, and status code.",
	}, []string{"method", "path", "code"}), "http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		ReportsTotal:      reports,
		DeviationFeet:     deviations,
		LastDeviationFeet: lastDeviation,
		HTTPRequests:      requests,
	}, nil
}

// ObserveReport records an intake outcome and, when a deviation was
// computed, its magnitude.
func (c *Collector) ObserveReport(callSign, outcome string, deviationFeet float64) {
	if c == nil {
		return
	}
	c.ReportsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeEnriched {
		c.DeviationFeet.WithLabelValues(callSign).Observe(deviationFeet)
		c.LastDeviationFeet.WithLabelValues(callSign).Set(deviationFeet)
	}
}

// ObserveHTTP records one handled HTTP request.
func (c *Collector) ObserveHTTP(method, path string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, path, fmt.Sprintf("%d", code)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
