package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts store hydration outcomes and swallowed storage failures.
// A nil *Metrics records nothing.
type Metrics struct {
	loads    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registers the store collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elcausa",
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Store hydrations by resulting load state.",
		}, []string{"store", "state"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elcausa",
			Subsystem: "store",
			Name:      "storage_failures_total",
			Help:      "Storage reads, decodes and writes that failed and were swallowed.",
		}, []string{"store", "operation"}),
	}
}

func (m *Metrics) observeLoad(store, state string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(store, state).Inc()
}

func (m *Metrics) observeFailure(store, operation string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(store, operation).Inc()
}
