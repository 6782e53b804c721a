package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics.
type Metrics struct {
	ShopsRegistered prometheus.Counter
	ShopsFinalized  *prometheus.CounterVec
}

// New creates and registers all platform metrics.
func New() *Metrics {
	return &Metrics{
		ShopsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopdir_shops_registered_total",
			Help: "Total number of shops registered in the directory",
		}),
		ShopsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopdir_shops_finalized_total",
			Help: "Total number of shops finalized by an admin, by outcome",
		}, []string{"outcome"}), // outcome: "approved", "rejected"
	}
}

// IncrementShopsRegistered increments the registration counter by 1.
func (m *Metrics) IncrementShopsRegistered() {
	if m != nil {
		m.ShopsRegistered.Inc()
	}
}

// IncrementShopsFinalized records an admin approve/reject outcome.
func (m *Metrics) IncrementShopsFinalized(outcome string) {
	if m != nil {
		m.ShopsFinalized.WithLabelValues(outcome).Inc()
	}
}
