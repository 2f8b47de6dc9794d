// Package vehicle converts speed and acceleration into mechanical power
// demand at the wheels, and maps road speed to motor shaft RPM.
package vehicle

import (
	"math"

	"github.com/hepv-lab/hepvsim/internal/config"
)

// speedFloor prevents a zero-times-zero singularity at standstill with
// nonzero force (m/s).
const speedFloor = 1e-2

// Dynamics is the longitudinal vehicle model. All methods are pure functions
// of the inputs and the immutable parameter set.
type Dynamics struct {
	params config.Params
}

func New(params config.Params) *Dynamics {
	return &Dynamics{params: params}
}

// AeroDrag returns the aerodynamic drag force (N) at speed v (m/s).
func (d *Dynamics) AeroDrag(v float64) float64 {
	return 0.5 * d.params.AirDensity * d.params.DragCoef * d.params.FrontalArea * v * v
}

// RollingResistance returns the rolling resistance force (N) for mass m (kg).
func (d *Dynamics) RollingResistance(m float64) float64 {
	return d.params.RollingCoef * m * d.params.Gravity
}

// PowerRequired returns the mechanical power demand at the wheels (W).
// Positive means traction demand, negative means braking energy available
// for recovery.
func (d *Dynamics) PowerRequired(v, a, m float64) float64 {
	f := m*a + d.AeroDrag(v) + d.RollingResistance(m)
	return f * math.Max(v, speedFloor)
}

// SpeedToRPM converts road speed (km/h) to motor shaft RPM through the wheel
// radius and fixed gear reduction.
func (d *Dynamics) SpeedToRPM(kmh float64) float64 {
	vms := kmh / 3.6
	wheelRadPerSec := vms / (d.params.WheelDiameter / 2)
	wheelRPM := wheelRadPerSec * 60 / (2 * math.Pi)
	return wheelRPM * d.params.GearRatio
}
