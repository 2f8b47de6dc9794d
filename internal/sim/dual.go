package sim

import (
	"context"
	"fmt"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/dispatch"
	"github.com/hepv-lab/hepvsim/internal/motor"
	"github.com/hepv-lab/hepvsim/internal/tank"
	"github.com/hepv-lab/hepvsim/internal/vehicle"
)

// DualSource is the hybrid integrator: the dispatcher splits each step's
// power between the battery and the air tank, and the tank state advances
// through exactly one thermodynamic transition per step.
type DualSource struct {
	params  config.Params
	dyn     *vehicle.Dynamics
	em      *motor.Electric
	pm      *motor.Pneumatic
	tank    *tank.Engine
	disp    *dispatch.Dispatcher
	metrics []Metric
}

func NewDualSource(params config.Params) *DualSource {
	return &DualSource{
		params: params,
		dyn:    vehicle.New(params),
		em:     motor.NewElectric(params),
		pm:     motor.NewPneumatic(params),
		tank:   tank.New(params),
		disp:   dispatch.New(params),
	}
}

// AddMetric registers an observer that sees every committed step.
func (d *DualSource) AddMetric(m Metric) {
	d.metrics = append(d.metrics, m)
}

// Run integrates the drive cycle with both sources active. Each source's
// efficiency is applied exactly once, on its own share, at its own boundary.
func (d *DualSource) Run(ctx context.Context, times, speeds []float64) (*Result, error) {
	dt, err := validateSeries(times, speeds)
	if err != nil {
		return nil, err
	}
	if err := d.params.Validate(); err != nil {
		return nil, err
	}
	for _, m := range d.metrics {
		m.Reset()
	}

	n := len(times)
	p := d.params
	mass := p.TotalMass()
	batt := Battery{Energy: p.BatteryCapacity(), Capacity: p.BatteryCapacity()}
	ts := d.tank.InitialState()

	res := newResult(n, true)
	res.SoC[0] = batt.SoC()
	res.Efficiency[0] = p.MotorEtaPeak
	copy(res.Times, times)
	for i, v := range speeds {
		res.SpeedsKmh[i] = v * 3.6
	}
	recordTank(res, 0, ts)

	for k := 1; k < n; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v := speeds[k]
		kmh := v * 3.6
		a := (v - speeds[k-1]) / dt
		pm := clipPower(d.dyn.PowerRequired(v, a, mass), p.BrakePowerMax, p.MotorPowerMax)

		var split dispatch.Split
		var eta float64
		flow := tank.Idle
		tankPower := 0.0

		if pm >= 0 {
			split = d.disp.Traction(pm, kmh, ts, batt.SoC())
			eta = d.em.Efficiency(kmh, split.Electric/p.MotorPowerMax)
			batt.Draw(split.Electric / eta * dt)
			if split.UsedPneumatic {
				etaPneu := d.pm.Efficiency(kmh, ts.Pressure/1e5)
				flow = tank.Discharge
				tankPower = split.Pneumatic / etaPneu
				res.PneumaticUse++
			}
		} else {
			split = d.disp.Braking(-pm, ts, batt.SoC())
			eta = p.RegenEta
			batt.Charge(-split.Electric*eta*dt, p.ChargeLimit)
			if split.Pneumatic < 0 {
				flow = tank.Charge
				tankPower = -split.Pneumatic * p.CompEta
			}
		}

		// The tank advances every step: an idle transition still applies
		// leakage and ambient heat exchange.
		ts, err = d.tank.Step(ts, tankPower, dt, flow)
		if err != nil {
			return nil, fmt.Errorf("sim: step %d: %w", k, err)
		}

		res.Demand[k] = pm
		res.Electric[k] = split.Electric
		res.Pneumatic[k] = split.Pneumatic
		res.Efficiency[k] = eta
		res.SoC[k] = batt.SoC()
		recordTank(res, k, ts)

		step := StepResult{
			Index:         k,
			Time:          times[k],
			Dt:            dt,
			SpeedKmh:      kmh,
			Demand:        pm,
			Electric:      split.Electric,
			Pneumatic:     split.Pneumatic,
			Efficiency:    eta,
			SoC:           batt.SoC(),
			Tank:          ts,
			UsedPneumatic: split.UsedPneumatic,
		}
		for _, m := range d.metrics {
			m.Observe(step)
		}
	}

	res.TotalEnergyKWh = (p.BatteryCapacity() - batt.Energy) / 3.6e6
	for _, m := range d.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

func recordTank(res *Result, k int, ts tank.State) {
	res.TankPressureBar[k] = ts.Pressure / 1e5
	res.TankTempC[k] = ts.Temperature - 273.15
	res.TankMassKg[k] = ts.Mass
}
