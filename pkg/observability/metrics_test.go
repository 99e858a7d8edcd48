package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetricsRegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	// A second Metrics against a distinct registry must not panic or
	// collide with the first's collector names.
	reg2 := prometheus.NewRegistry()
	if got := NewMetrics(reg2); got == nil {
		t.Fatal("second NewMetrics returned nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	seen := map[string]bool{}
	for _, f := range families {
		if seen[f.GetName()] {
			t.Errorf("collector %s registered more than once", f.GetName())
		}
		seen[f.GetName()] = true
	}
}

func TestRecordInsertUpdatesCounterAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordInsert("flat", 5, 5)
	m.RecordInsert("flat", 3, 8)

	if got := counterValue(t, m.VectorsInserted); got != 8 {
		t.Errorf("VectorsInserted = %v, want 8", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() != "vecdb_index_size" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "index" && l.GetValue() == "flat" {
					found = true
					if metric.GetGauge().GetValue() != 8 {
						t.Errorf("index size = %v, want 8", metric.GetGauge().GetValue())
					}
				}
			}
		}
	}
	if !found {
		t.Error("expected a vecdb_index_size sample labeled index=flat")
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return m.GetCounter().GetValue()
}
