package metrics

import (
	"math"
	"testing"

	"github.com/hepv-lab/hepvsim/internal/sim"
)

func TestMeanEfficiencySkipsBraking(t *testing.T) {
	m := NewMeanEfficiency()

	m.Observe(sim.StepResult{Demand: 5000, Efficiency: 0.90})
	m.Observe(sim.StepResult{Demand: 5000, Efficiency: 0.80})
	m.Observe(sim.StepResult{Demand: -3000, Efficiency: 0.75})

	if math.Abs(m.Value()-0.85) > 1e-9 {
		t.Errorf("expected mean 0.85, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestRegenEnergyAccumulates(t *testing.T) {
	r := NewRegenEnergy()

	// 6 kW into the battery at 75% for one second.
	for i := 0; i < 10; i++ {
		r.Observe(sim.StepResult{Electric: -6000, Efficiency: 0.75, Dt: 0.1})
	}
	// Traction steps must not count.
	r.Observe(sim.StepResult{Electric: 6000, Efficiency: 0.90, Dt: 0.1})

	expected := 6000.0 * 0.75 * 1.0 / 3.6e6
	if math.Abs(r.Value()-expected) > 1e-12 {
		t.Errorf("expected %g kWh, got %g", expected, r.Value())
	}
}

func TestPneumaticShare(t *testing.T) {
	p := NewPneumaticShare()

	p.Observe(sim.StepResult{Demand: 10_000, Pneumatic: 3500, UsedPneumatic: true, Dt: 0.1})
	p.Observe(sim.StepResult{Demand: 10_000, Dt: 0.1})

	if math.Abs(p.Value()-0.175) > 1e-9 {
		t.Errorf("expected share 0.175, got %f", p.Value())
	}
}

func TestMetricsEmptyValue(t *testing.T) {
	for _, m := range []sim.Metric{NewMeanEfficiency(), NewRegenEnergy(), NewPneumaticShare()} {
		if m.Value() != 0 {
			t.Errorf("%s: expected zero value before any observation", m.Name())
		}
	}
}
