package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records ledger recomputation and billing batch outcomes.
type EngineMetrics struct {
	recomputeDuration *prometheus.HistogramVec
	billingSuccess    *prometheus.CounterVec
	billingFailure    *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_recompute_duration_seconds",
		Help:    "Duration of holding-status recomputations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_success",
		Help: "Successful per-customer bill computations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_failure",
		Help: "Failed per-customer bill computations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &EngineMetrics{
		recomputeDuration: duration,
		billingSuccess:    success,
		billingFailure:    failure,
	}
}

// ObserveRecompute records the duration for the named operation.
func (m *EngineMetrics) ObserveRecompute(operation string, duration time.Duration) {
	if m == nil || m.recomputeDuration == nil {
		return
	}
	m.recomputeDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncBillingSuccess increments the success counter for the named operation.
func (m *EngineMetrics) IncBillingSuccess(operation string) {
	if m == nil || m.billingSuccess == nil {
		return
	}
	m.billingSuccess.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncBillingFailure increments the failure counter for the named operation.
func (m *EngineMetrics) IncBillingFailure(operation string) {
	if m == nil || m.billingFailure == nil {
		return
	}
	m.billingFailure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
