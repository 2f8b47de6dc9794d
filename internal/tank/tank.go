// Package tank models the compressed-air reservoir. Air mass is the primary
// state: temperature follows the polytropic relation and pressure is always
// recomputed from the ideal-gas law, so the three scalars can never drift
// apart the way a pressure-first formulation lets them.
package tank

import (
	"fmt"
	"math"

	"github.com/hepv-lab/hepvsim/internal/config"
)

// Temperature clamp band (K). Integration error outside this band is
// truncated every step, not just at the end of a run.
const (
	TempMin = 250.0
	TempMax = 400.0
)

// massFloor keeps the tank from being drained to exactly zero, which would
// break the ideal-gas inversion.
const massFloor = 1e-6

// State is one consistent snapshot of the reservoir. Pressure satisfies
// P = m*R*T/V at every observation point; State values are replaced
// atomically per step, never mutated field by field.
type State struct {
	Mass        float64 // kg
	Temperature float64 // K
	Pressure    float64 // Pa
}

// Flow selects the transition applied by Step.
type Flow int

const (
	// Idle applies only leakage and ambient heat exchange.
	Idle Flow = iota
	// Charge adds mass by compression (regenerated energy in).
	Charge
	// Discharge removes mass by expansion (traction energy out).
	Discharge
)

// Engine advances tank state. It holds only immutable parameters; the caller
// owns the State and threads it through Step.
type Engine struct {
	params config.Params
}

func New(params config.Params) *Engine {
	return &Engine{params: params}
}

// InitialState returns the tank preloaded to the configured pressure at
// ambient temperature, with mass derived from the ideal-gas law.
func (e *Engine) InitialState() State {
	p := e.params
	return State{
		Mass:        p.InitPressure * p.TankVolume / (p.GasConstant * p.AmbientTemp),
		Temperature: p.AmbientTemp,
		Pressure:    p.InitPressure,
	}
}

// PressureFromMass inverts the ideal-gas law at the given temperature.
func (e *Engine) PressureFromMass(mass, temp float64) float64 {
	return mass * e.params.GasConstant * temp / e.params.TankVolume
}

// MassFromPressure is the forward ideal-gas relation at the given temperature.
func (e *Engine) MassFromPressure(pressure, temp float64) float64 {
	return pressure * e.params.TankVolume / (e.params.GasConstant * temp)
}

// Step advances the tank by dt seconds. power is the energy-flow rate in
// Watts at the tank boundary, already net of whatever motor or compressor
// efficiency the caller applied; it must be non-negative, with direction
// carried by flow. Returns the next consistent State.
func (e *Engine) Step(s State, power, dt float64, flow Flow) (State, error) {
	if dt <= 0 {
		return s, fmt.Errorf("tank: dt must be positive, got %f", dt)
	}
	if power < 0 {
		return s, fmt.Errorf("tank: power must be non-negative, got %f", power)
	}

	p := e.params
	mass := s.Mass
	temp := s.Temperature

	// Energy to mass via specific enthalpy: incoming air carries ambient
	// enthalpy, outgoing air leaves at the current tank temperature.
	switch flow {
	case Charge:
		mass += power * dt / (p.Cp() * p.AmbientTemp)
	case Discharge:
		mass -= power * dt / (p.Cp() * temp)
		if mass < massFloor {
			mass = massFloor
		}
	}

	// Polytropic temperature change from the pressure the new mass implies
	// at the old temperature.
	if flow != Idle && s.Pressure > 0 {
		n := p.PolyCompIndex
		if flow == Discharge {
			n = p.PolyExpIndex
		}
		intermediate := e.PressureFromMass(mass, temp)
		temp *= math.Pow(intermediate/s.Pressure, (n-1)/n)
	}

	// Newtonian cooling toward ambient, then leakage.
	temp += (p.AmbientTemp - temp) * p.HeatCoef * dt
	mass *= 1 - (p.LeakPerMin/60)*dt

	temp = clamp(temp, TempMin, TempMax)

	pressure := e.PressureFromMass(mass, temp)
	if clamped := clamp(pressure, p.AmbientPres, p.PressureMax); clamped != pressure {
		// Keep the ideal-gas invariant: a clamped pressure implies the
		// corresponding mass.
		pressure = clamped
		mass = e.MassFromPressure(pressure, temp)
	}

	return State{Mass: mass, Temperature: temp, Pressure: pressure}, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
