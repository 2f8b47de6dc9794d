// Package dispatch decides, once per step, how demanded or regenerated power
// splits between the electric and pneumatic paths. Every branch is total:
// the battery is the one path that is always available.
package dispatch

import (
	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/tank"
)

// minUsableMass is the tank mass below which the air motor has nothing left
// to expand.
const minUsableMass = 1e-3

// Split is the signed power assigned to each source for one step: positive
// is consumption, negative is recharge.
type Split struct {
	Electric  float64
	Pneumatic float64
	// UsedPneumatic reports whether the pneumatic path actively drove the
	// wheels this step (traction only; regen into the tank does not count).
	UsedPneumatic bool
}

// Dispatcher applies the fixed threshold heuristics from the configuration.
type Dispatcher struct {
	params config.Params
}

func New(params config.Params) *Dispatcher {
	return &Dispatcher{params: params}
}

// Traction splits a non-negative power demand. The pneumatic path engages
// only when all five gates hold: low speed, pressurized tank, high demand,
// usable air mass, and battery above its safety floor.
func (d *Dispatcher) Traction(demand, kmh float64, ts tank.State, soc float64) Split {
	p := d.params
	usePneu := kmh < p.PneuSpeedMaxKmh &&
		ts.Pressure/1e5 > p.PneuPressureMinBar &&
		demand > p.PneuPowerMin &&
		ts.Mass > minUsableMass &&
		soc > p.PneuSocFloor

	if !usePneu {
		return Split{Electric: demand}
	}
	pneu := p.PneuShare * demand
	return Split{
		Electric:      demand - pneu,
		Pneumatic:     pneu,
		UsedPneumatic: true,
	}
}

// Braking splits a non-negative regenerated power. The tank takes its share
// only when the battery is healthy and the tank has headroom; otherwise all
// recovered energy routes to the battery.
func (d *Dispatcher) Braking(regen float64, ts tank.State, soc float64) Split {
	p := d.params
	if soc < p.RegenSocFloor || ts.Pressure/1e5 > p.RegenPressureCeilBar {
		return Split{Electric: -regen}
	}
	return Split{
		Electric:  -p.RegenBattShare * regen,
		Pneumatic: -p.RegenTankShare * regen,
	}
}
