// Package metrics holds the Prometheus collectors of the server.
//
// A nil *Metrics is valid and records nothing, so services and tests can run without a registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/and161185/repairflow/internal/model"
)

const namespace = "repairflow"

// Metrics groups the collectors registered by New.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	orders      *prometheus.CounterVec
	exports     prometheus.Counter
	gatherer    prometheus.Gatherer
}

// New registers the collectors in a fresh registry together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors in reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Handled gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC handler latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_transitions_total",
			Help:      "Equipment records moved into a workflow state.",
		}, []string{"state"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_order_assignments_total",
			Help:      "Purchase order assignments by outcome (created or merged).",
		}, []string{"outcome"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_exports_total",
			Help:      "Rendered purchase order exports.",
		}),
		gatherer: g,
	}
	reg.MustRegister(m.requests, m.latency, m.transitions, m.orders, m.exports)
	return m
}

// ObserveRequest records one handled gRPC call.
func (m *Metrics) ObserveRequest(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(d.Seconds())
}

// Transition records n records moved into state.
func (m *Metrics) Transition(state model.State, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.transitions.WithLabelValues(string(state)).Add(float64(n))
}

// OrderAssigned records a ledger write.
func (m *Metrics) OrderAssigned(created bool) {
	if m == nil {
		return
	}
	outcome := "merged"
	if created {
		outcome = "created"
	}
	m.orders.WithLabelValues(outcome).Inc()
}

// Exported records a rendered export.
func (m *Metrics) Exported() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
