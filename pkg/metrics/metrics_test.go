package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	var families []*dto.MetricFamily
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		return total
	}
	return 0
}

func TestEngineMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.IncBillingSuccess("compute_month")
	m.IncBillingSuccess("compute_month")
	m.IncBillingFailure("compute_month")
	m.ObserveRecompute("upsert", 25*time.Millisecond)

	if got := counterValue(t, reg, "billing_success"); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := counterValue(t, reg, "billing_failure"); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	var m *EngineMetrics
	m.IncBillingSuccess("compute_month")
	m.ObserveRecompute("upsert", time.Millisecond)

	empty := NewEngineMetrics(nil)
	empty.IncBillingFailure("compute_month")
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/customers", 200, 10*time.Millisecond)
	m.Observe("POST", "/api/v1/daily-updates", 422, 5*time.Millisecond)

	if got := counterValue(t, reg, "http_requests_total"); got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}
