package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts checkout outcomes. A nil *Metrics records nothing.
type Metrics struct {
	checkouts   *prometheus.CounterVec
	orderTotals prometheus.Histogram
}

// NewMetrics registers the checkout collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elcausa",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout submissions by payment method and outcome.",
		}, []string{"payment_method", "outcome"}),
		orderTotals: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "elcausa",
			Subsystem: "checkout",
			Name:      "order_total_pesos",
			Help:      "Final total of dispatched orders in pesos.",
			Buckets:   []float64{2000, 5000, 8000, 10000, 15000, 25000, 50000},
		}),
	}
}

func (m *Metrics) observeCheckout(method, outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) observeOrderTotal(total int64) {
	if m == nil {
		return
	}
	m.orderTotals.Observe(float64(total))
}
