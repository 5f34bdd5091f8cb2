package carveauth

import (
	"sync"
	"testing"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics()
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricValidateRejected)

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("login success = %d, want 2", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricValidateRejected] != 1 {
		t.Fatalf("validate rejected = %d, want 1", snap.Counters[MetricValidateRejected])
	}
	if snap.Counters[MetricTokenIssued] != 0 {
		t.Fatalf("token issued = %d, want 0", snap.Counters[MetricTokenIssued])
	}
}

func TestMetricsUnknownIDIgnored(t *testing.T) {
	m := NewMetrics()
	m.Inc(MetricID(9999))
	if got := m.Value(MetricID(9999)); got != 0 {
		t.Fatalf("unknown id value = %d", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLoginSuccess)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("nil metrics must read zero")
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatal("nil metrics snapshot must be empty")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricValidateSuccess)
			}
		}()
	}
	wg.Wait()
	if got := m.Value(MetricValidateSuccess); got != 8000 {
		t.Fatalf("concurrent count = %d, want 8000", got)
	}
}
