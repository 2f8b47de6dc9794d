package sim

import "github.com/hepv-lab/hepvsim/internal/tank"

// Battery is the electric storage state. Energy is clamped to
// [0, Capacity*ChargeLimit-ish] by the Draw/Charge operations; SoC is always
// derived, never stored.
type Battery struct {
	Energy   float64 // J
	Capacity float64 // J
}

// SoC returns the state of charge clamped to [0, 1].
func (b Battery) SoC() float64 {
	soc := b.Energy / b.Capacity
	if soc < 0 {
		return 0
	}
	if soc > 1 {
		return 1
	}
	return soc
}

// Draw removes energy (J), flooring at empty.
func (b *Battery) Draw(joules float64) {
	b.Energy -= joules
	if b.Energy < 0 {
		b.Energy = 0
	}
}

// Headroom returns the energy (J) the battery can still accept below the
// given SoC ceiling.
func (b Battery) Headroom(chargeLimit float64) float64 {
	h := b.Capacity*chargeLimit - b.Energy
	if h < 0 {
		return 0
	}
	return h
}

// Charge adds energy (J), capped at the SoC ceiling.
func (b *Battery) Charge(joules, chargeLimit float64) {
	if h := b.Headroom(chargeLimit); joules > h {
		joules = h
	}
	b.Energy += joules
}

// StepResult is the committed outcome of one time step, handed to metric
// observers. Power values are signed: positive is consumption, negative is
// recharge.
type StepResult struct {
	Index         int
	Time          float64
	Dt            float64
	SpeedKmh      float64
	Demand        float64 // mechanical power at the wheels (W)
	Electric      float64 // power on the electric path (W)
	Pneumatic     float64 // power on the pneumatic path (W)
	Efficiency    float64 // efficiency applied on the dominant path
	SoC           float64
	Tank          tank.State
	UsedPneumatic bool
}

// Result is the terminal, immutable output of one run: parallel per-step
// series plus the scalar decision metrics. Tank series are populated by the
// dual-source integrator only.
type Result struct {
	Times     []float64
	SpeedsKmh []float64

	Demand     []float64
	Electric   []float64
	Pneumatic  []float64
	Efficiency []float64
	SoC        []float64

	TankPressureBar []float64
	TankTempC       []float64
	TankMassKg      []float64

	// TotalEnergyKWh is (initial - final) battery energy in kWh: the single
	// scalar the feasibility comparison hinges on.
	TotalEnergyKWh float64
	// PneumaticUse counts steps where the pneumatic path actively drove the
	// wheels.
	PneumaticUse int

	Metrics map[string]float64
}

// Steps returns the number of samples in the run.
func (r *Result) Steps() int { return len(r.Times) }

// Metric observes each committed step and reduces it to one named scalar,
// reported alongside the run result.
type Metric interface {
	Name() string
	Observe(step StepResult)
	Value() float64
	Reset()
}
