// Package sim integrates the vehicle over a drive cycle, once for the
// battery-only baseline and once for the dual-source configuration, and
// reduces each trajectory to the scalars the feasibility comparison needs.
package sim

import (
	"context"
	"fmt"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/motor"
	"github.com/hepv-lab/hepvsim/internal/vehicle"
)

// validateSeries checks the shared preconditions of both integrators and
// returns the uniform step size.
func validateSeries(times, speeds []float64) (float64, error) {
	if len(times) != len(speeds) {
		return 0, fmt.Errorf("sim: series length mismatch: %d times vs %d speeds", len(times), len(speeds))
	}
	if len(times) < 2 {
		return 0, fmt.Errorf("sim: need at least 2 samples, got %d", len(times))
	}
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, fmt.Errorf("sim: time step must be positive, got %f", dt)
	}
	return dt, nil
}

// clipPower bounds mechanical demand to what the driveline can deliver or
// absorb.
func clipPower(pm, brakeMax, motorMax float64) float64 {
	if pm < -brakeMax {
		return -brakeMax
	}
	if pm > motorMax {
		return motorMax
	}
	return pm
}

// SingleSource is the battery-only integrator: every Watt of traction comes
// from the battery and every recovered Watt goes back to it.
type SingleSource struct {
	params  config.Params
	dyn     *vehicle.Dynamics
	em      *motor.Electric
	metrics []Metric
}

func NewSingleSource(params config.Params) *SingleSource {
	return &SingleSource{
		params: params,
		dyn:    vehicle.New(params),
		em:     motor.NewElectric(params),
	}
}

// AddMetric registers an observer that sees every committed step.
func (s *SingleSource) AddMetric(m Metric) {
	s.metrics = append(s.metrics, m)
}

// Run integrates the drive cycle and returns the full trajectory. The context
// is checked every step so long runs can be cancelled cleanly.
func (s *SingleSource) Run(ctx context.Context, times, speeds []float64) (*Result, error) {
	dt, err := validateSeries(times, speeds)
	if err != nil {
		return nil, err
	}
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	n := len(times)
	p := s.params
	mass := p.BaseMass
	batt := Battery{Energy: p.BatteryCapacity(), Capacity: p.BatteryCapacity()}

	res := newResult(n, false)
	res.SoC[0] = batt.SoC()
	res.Efficiency[0] = p.MotorEtaPeak
	copy(res.Times, times)
	for i, v := range speeds {
		res.SpeedsKmh[i] = v * 3.6
	}

	for k := 1; k < n; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v := speeds[k]
		a := (v - speeds[k-1]) / dt
		pm := clipPower(s.dyn.PowerRequired(v, a, mass), p.BrakePowerMax, p.MotorPowerMax)

		var eta float64
		if pm >= 0 {
			eta = s.em.Efficiency(v*3.6, pm/p.MotorPowerMax)
			batt.Draw(pm / eta * dt)
		} else {
			eta = p.RegenEta
			batt.Charge(-pm*eta*dt, p.ChargeLimit)
		}

		res.Demand[k] = pm
		res.Electric[k] = pm
		res.Efficiency[k] = eta
		res.SoC[k] = batt.SoC()

		step := StepResult{
			Index:      k,
			Time:       times[k],
			Dt:         dt,
			SpeedKmh:   v * 3.6,
			Demand:     pm,
			Electric:   pm,
			Efficiency: eta,
			SoC:        batt.SoC(),
		}
		for _, m := range s.metrics {
			m.Observe(step)
		}
	}

	res.TotalEnergyKWh = (p.BatteryCapacity() - batt.Energy) / 3.6e6
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

// newResult allocates all series for n samples. Tank series are allocated
// only for the dual-source integrator.
func newResult(n int, withTank bool) *Result {
	res := &Result{
		Times:      make([]float64, n),
		SpeedsKmh:  make([]float64, n),
		Demand:     make([]float64, n),
		Electric:   make([]float64, n),
		Pneumatic:  make([]float64, n),
		Efficiency: make([]float64, n),
		SoC:        make([]float64, n),
		Metrics:    make(map[string]float64),
	}
	if withTank {
		res.TankPressureBar = make([]float64, n)
		res.TankTempC = make([]float64, n)
		res.TankMassKg = make([]float64, n)
	}
	return res
}
