package metrics

import "github.com/hepv-lab/hepvsim/internal/sim"

type MeanEfficiency struct {
	name    string
	sum     float64
	samples int
}

// NewMeanEfficiency averages the applied drivetrain efficiency over traction
// steps. Braking and standstill steps are skipped so regen does not inflate
// the figure.
func NewMeanEfficiency() *MeanEfficiency {
	return &MeanEfficiency{
		name: "mean_efficiency",
	}
}

func (m *MeanEfficiency) Name() string { return m.name }

func (m *MeanEfficiency) Observe(step sim.StepResult) {
	if step.Demand <= 0 {
		return
	}
	m.sum += step.Efficiency
	m.samples++
}

func (m *MeanEfficiency) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEfficiency) Reset() {
	m.sum = 0
	m.samples = 0
}
