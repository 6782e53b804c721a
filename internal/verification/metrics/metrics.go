package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Per-step latency including provider calls
	StepDuration *prometheus.HistogramVec

	// Step outcomes by step and whether the mismatch flag was raised
	StepOutcome *prometheus.CounterVec

	// Degraded provider calls by provider
	ProviderFailures *prometheus.CounterVec
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		StepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopdir_verification_step_duration_seconds",
			Help:    "Duration of verification steps including provider calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"step"}), // step: "location", "license", "photo", "refresh"

		StepOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopdir_verification_step_outcomes_total",
			Help: "Verification step outcomes by step and flag result",
		}, []string{"step", "flagged"}),

		ProviderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopdir_verification_provider_failures_total",
			Help: "Provider calls degraded to a conservative signal, by provider",
		}, []string{"provider"}), // provider: "reverse_geocode", "forward_geocode", "ocr", "exif", "media"
	}
}

// ObserveStep records the duration of one verification step.
func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m != nil {
		m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
	}
}

// IncrementOutcome records a step outcome.
func (m *Metrics) IncrementOutcome(step string, flagged bool) {
	if m != nil {
		label := "false"
		if flagged {
			label = "true"
		}
		m.StepOutcome.WithLabelValues(step, label).Inc()
	}
}

// IncrementProviderFailure records a degraded provider call.
func (m *Metrics) IncrementProviderFailure(provider string) {
	if m != nil {
		m.ProviderFailures.WithLabelValues(provider).Inc()
	}
}
