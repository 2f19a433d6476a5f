package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	consolidations   *prometheus.CounterVec
	inferenceLatency *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ocr_http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"method", "path", "status"}),
		consolidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ocr_consolidations_total",
			Help: "Total consolidation calls to the inference server",
		}, []string{"model", "status"}),
		inferenceLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ocr_inference_latency_seconds",
			Help:    "Inference server chat latency",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"model"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.consolidations,
		m.inferenceLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest counts a served HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.With(prometheus.Labels{
		"method": method, "path": path, "status": strconv.Itoa(status),
	}).Inc()
}

// ObserveInference records one chat call and its outcome.
func (m *Metrics) ObserveInference(model string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.inferenceLatency.With(prometheus.Labels{"model": model}).Observe(elapsed.Seconds())
	m.consolidations.With(prometheus.Labels{"model": model, "status": status}).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
