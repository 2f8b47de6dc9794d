package metrics

import "github.com/hepv-lab/hepvsim/internal/sim"

type RegenEnergy struct {
	name   string
	joules float64
}

// NewRegenEnergy accumulates the braking energy actually returned to the
// battery, in kWh. Electric power is negative during regen and the step's
// efficiency is the regen efficiency, so the recovered energy per step is
// -Electric * Efficiency * Dt.
func NewRegenEnergy() *RegenEnergy {
	return &RegenEnergy{
		name: "regen_energy_kwh",
	}
}

func (r *RegenEnergy) Name() string { return r.name }

func (r *RegenEnergy) Observe(step sim.StepResult) {
	if step.Electric >= 0 {
		return
	}
	r.joules += -step.Electric * step.Efficiency * step.Dt
}

func (r *RegenEnergy) Value() float64 {
	return r.joules / 3.6e6
}

func (r *RegenEnergy) Reset() {
	r.joules = 0
}
