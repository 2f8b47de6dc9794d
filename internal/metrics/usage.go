package metrics

import "github.com/hepv-lab/hepvsim/internal/sim"

type PneumaticShare struct {
	name      string
	pneumatic float64
	total     float64
}

// NewPneumaticShare reports the fraction of traction energy the air motor
// delivered at the wheels.
func NewPneumaticShare() *PneumaticShare {
	return &PneumaticShare{
		name: "pneumatic_share",
	}
}

func (p *PneumaticShare) Name() string { return p.name }

func (p *PneumaticShare) Observe(step sim.StepResult) {
	if step.Demand <= 0 {
		return
	}
	p.total += step.Demand * step.Dt
	if step.UsedPneumatic {
		p.pneumatic += step.Pneumatic * step.Dt
	}
}

func (p *PneumaticShare) Value() float64 {
	if p.total == 0 {
		return 0
	}
	return p.pneumatic / p.total
}

func (p *PneumaticShare) Reset() {
	p.pneumatic = 0
	p.total = 0
}
