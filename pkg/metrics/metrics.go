// Package metrics exposes dashboard counters for Prometheus. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labdash"

type Metrics struct {
	registry *prometheus.Registry

	fetches        *prometheus.CounterVec
	searches       *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	superseded     prometheus.Counter
	reminders      *prometheus.GaugeVec
	mutations      *prometheus.CounterVec
}

// New registers the dashboard collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Record list fetches by entity kind and result.",
		}, []string{"kind", "result"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Cross-entity searches by result.",
		}, []string{"result"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_source_failures_total",
			Help:      "Search sub-queries that failed, by entity kind.",
		}, []string{"kind"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_superseded_total",
			Help:      "Debounced searches discarded because a newer query arrived.",
		}),
		reminders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders",
			Help:      "Reminders by status at the last refresh.",
		}, []string{"status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Record mutations by entity kind and operation.",
		}, []string{"kind", "op"}),
	}
	m.registry.MustRegister(m.fetches, m.searches, m.sourceFailures, m.superseded, m.reminders, m.mutations)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Fetch counts one list fetch.
func (m *Metrics) Fetch(kind string, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(kind, result(err)).Inc()
}

// Search counts one aggregated search.
func (m *Metrics) Search(err error) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) SourceFailure(kind string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Superseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

// Reminders sets the per-status reminder gauge.
func (m *Metrics) Reminders(status string, n int) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(status).Set(float64(n))
}

func (m *Metrics) Mutation(kind, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind, op).Inc()
}

// Registry returns the underlying registry, or nil.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
