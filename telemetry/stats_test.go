package telemetry

import (
	"math"
	"testing"
)

func TestComputeTraitStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeTraitStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("empty sample produced nonzero stats: %v %v %v %v %v", mean, std, p10, p50, p90)
	}
}

func TestComputeTraitStatsSingle(t *testing.T) {
	mean, std, _, p50, _ := ComputeTraitStats([]float64{0.4})
	if mean != 0.4 {
		t.Errorf("mean = %v, want 0.4", mean)
	}
	if std != 0 {
		t.Errorf("std of single sample = %v, want 0", std)
	}
	if p50 != 0.4 {
		t.Errorf("p50 = %v, want 0.4", p50)
	}
}

func TestComputeTraitStatsUniform(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i) / 99
	}
	mean, std, p10, p50, p90 := ComputeTraitStats(values)

	if math.Abs(mean-0.5) > 1e-9 {
		t.Errorf("mean = %v, want 0.5", mean)
	}
	if std <= 0 {
		t.Errorf("std = %v, want > 0", std)
	}
	if p10 >= p50 || p50 >= p90 {
		t.Errorf("percentiles not ordered: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
	if math.Abs(p50-0.5) > 0.02 {
		t.Errorf("p50 = %v, want near 0.5", p50)
	}
}
