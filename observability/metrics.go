package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the process-wide Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// LenderCoercions counts data-quality coercions applied by the record
	// normalizer, labeled by category and field.
	LenderCoercions *prometheus.CounterVec
	// LenderMutations counts mutation outcomes, labeled by operation and
	// result (ok, validation_error, not_found, persistence_error).
	LenderMutations *prometheus.CounterVec
	// HTTPRequests counts handled HTTP requests by route and status class.
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LenderCoercions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hugecapital_lender_coercions_total",
			Help: "Data-quality coercions applied while normalizing lender rows.",
		}, []string{"category", "field"}),
		LenderMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hugecapital_lender_mutations_total",
			Help: "Lender mutation operations by outcome.",
		}, []string{"op", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hugecapital_http_requests_total",
			Help: "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(m.LenderCoercions, m.LenderMutations, m.HTTPRequests)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
