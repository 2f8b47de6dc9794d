package motor

import (
	"math"

	"github.com/hepv-lab/hepvsim/internal/config"
)

// Overall clip band for pneumatic efficiency, matching the industrial
// datasheet range.
const (
	PneumaticFloor   = 0.15
	PneumaticCeiling = 0.45
)

// pneumaticSpeedFloor bounds the speed derating at very high road speed.
const pneumaticSpeedFloor = 0.4

// pneumaticPressureCurve maps tank pressure (bar) to a pressure factor: a low
// floor below the working band, a rise to the 100-200 bar plateau, and a
// derating above 200 bar where throttling losses grow.
var pneumaticPressureCurve = Curve{
	{From: 0, To: 50, Base: 0.3, Slope: 0},
	{From: 50, To: 100, Base: 0.5, Slope: 0.006},
	{From: 100, To: 200, Base: 0.8, Slope: 0},
	{From: 200, To: 1e9, Base: 0.8, Slope: -0.002},
}

// pneumaticSpeedCurve favors low road speed and decays past 40 km/h.
var pneumaticSpeedCurve = Curve{
	{From: 0, To: 20, Base: 1.0, Slope: 0},
	{From: 20, To: 40, Base: 1.0, Slope: -0.0075},
	{From: 40, To: 60, Base: 0.85, Slope: -0.0125},
	{From: 60, To: 1e9, Base: 0.60, Slope: -0.01},
}

// Pneumatic is the air-motor efficiency map.
type Pneumatic struct {
	params config.Params
}

func NewPneumatic(params config.Params) *Pneumatic {
	return &Pneumatic{params: params}
}

// Efficiency returns the air-motor efficiency fraction at road speed (km/h)
// and tank pressure (bar), clipped to [0.15, 0.45].
func (p *Pneumatic) Efficiency(kmh, bar float64) float64 {
	pf := pneumaticPressureCurve.Eval(bar)
	sf := math.Max(pneumaticSpeedCurve.Eval(kmh), pneumaticSpeedFloor)
	return clip(p.params.PneuEtaPeak*pf*sf, PneumaticFloor, PneumaticCeiling)
}
