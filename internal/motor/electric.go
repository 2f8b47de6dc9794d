// Package motor holds the two calibrated efficiency maps: a traction-motor
// map referenced against the MotorXP Model 3 teardown (92.12% at 4275 RPM,
// 91% load) and a pneumatic-motor map referenced against industrial air-motor
// datasheets (Atlas Copco LZB, Parker Hannifin; 25-45% typical). The segment
// breakpoints are the physical model; they are not to be smoothed or
// simplified.
package motor

import (
	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/vehicle"
)

// electricFloor is the lower clip on overall electric efficiency.
const electricFloor = 0.70

// electricSpeedCurve maps the normalized RPM ratio x = RPM/RPM_base to a
// speed factor: poor at crawl, rising through partial speed, a slight taper
// around the reference point, and a falloff past 1.5x.
var electricSpeedCurve = Curve{
	{From: 0.0, To: 0.2, Base: 0.75, Slope: 0},
	{From: 0.2, To: 0.5, Base: 0.75, Slope: 0.5},
	{From: 0.5, To: 1.0, Base: 0.91, Slope: 0.02},
	{From: 1.0, To: 1.5, Base: 0.92, Slope: -0.02},
	{From: 1.5, To: 1e9, Base: 0.90, Slope: -0.10},
}

// electricLoadCurve maps load fraction to a load factor: steep penalty below
// 10% load, flat through the mid range, mild derating above 80%.
var electricLoadCurve = Curve{
	{From: 0.0, To: 0.1, Base: 0.60, Slope: 4.0},
	{From: 0.1, To: 0.8, Base: 1.0, Slope: 0},
	{From: 0.8, To: 1e9, Base: 1.0, Slope: -0.25},
}

// Electric is the traction-motor efficiency map.
type Electric struct {
	params   config.Params
	dynamics *vehicle.Dynamics
}

func NewElectric(params config.Params) *Electric {
	return &Electric{params: params, dynamics: vehicle.New(params)}
}

// Efficiency returns the motor efficiency fraction at road speed (km/h) and
// load fraction, clipped to [0.70, peak].
func (e *Electric) Efficiency(kmh, load float64) float64 {
	x := e.dynamics.SpeedToRPM(kmh) / e.params.MotorRPMBase
	s := electricSpeedCurve.Eval(x)
	l := electricLoadCurve.Eval(load)
	return clip(s*l, electricFloor, e.params.MotorEtaPeak)
}
