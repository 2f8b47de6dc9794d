// Package cycle generates the urban driving cycle used to compare vehicle
// configurations: a fixed 80 second template of linear speed segments, tiled
// end-to-end to cover any requested duration.
package cycle

import "fmt"

// segment is one linear speed ramp inside the template, in template-local
// seconds and m/s.
type segment struct {
	start, end   float64
	vStart, vEnd float64
}

// Period is the template length in seconds.
const Period = 80.0

// urbanTemplate: accelerate to 30 km/h, cruise, brake to stop, idle, then the
// same pattern up to 50 km/h. Speeds in m/s.
var urbanTemplate = []segment{
	{0, 8, 0, 30.0 / 3.6},
	{8, 18, 30.0 / 3.6, 30.0 / 3.6},
	{18, 23, 30.0 / 3.6, 0},
	{23, 33, 0, 0},
	{33, 43, 0, 50.0 / 3.6},
	{43, 63, 50.0 / 3.6, 50.0 / 3.6},
	{63, 70, 50.0 / 3.6, 0},
	{70, 80, 0, 0},
}

// SpeedAt returns the template speed (m/s) at absolute time t. It is a pure
// function: the template tiles indefinitely and carries no state.
func SpeedAt(t float64) float64 {
	if t < 0 {
		return 0
	}
	tau := t - float64(int(t/Period))*Period
	for _, seg := range urbanTemplate {
		if tau < seg.end {
			frac := (tau - seg.start) / (seg.end - seg.start)
			return seg.vStart + (seg.vEnd-seg.vStart)*frac
		}
	}
	return 0
}

// Generate samples the tiled template over [0, duration) at spacing dt and
// returns parallel time and speed slices of length floor(duration/dt).
// Regenerating the same (duration, dt) yields bit-identical series.
func Generate(duration, dt float64) ([]float64, []float64, error) {
	if dt <= 0 {
		return nil, nil, fmt.Errorf("cycle: dt must be positive, got %f", dt)
	}
	if duration <= 0 {
		return nil, nil, fmt.Errorf("cycle: duration must be positive, got %f", duration)
	}

	n := int(duration / dt)
	times := make([]float64, n)
	speeds := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		times[i] = t
		speeds[i] = SpeedAt(t)
	}
	return times, speeds, nil
}
