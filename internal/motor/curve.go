package motor

// Segment is one linear piece of an efficiency factor curve: for inputs in
// [From, To) the factor is Base + Slope*(x-From). Segments are ordered by
// From and contiguous; the first and last segment extend to the domain edges.
type Segment struct {
	From  float64
	To    float64
	Base  float64
	Slope float64
}

// Curve is an ordered breakpoint table. Keeping the calibrated factors as
// data rather than cascading conditionals lets each segment be checked
// against its published reference point in isolation.
type Curve []Segment

// Eval returns the factor at x. Inputs below the first breakpoint take the
// first segment, inputs beyond the last take the last.
func (c Curve) Eval(x float64) float64 {
	if len(c) == 0 {
		return 0
	}
	for _, seg := range c {
		if x < seg.To {
			return seg.Base + seg.Slope*(x-seg.From)
		}
	}
	last := c[len(c)-1]
	return last.Base + last.Slope*(x-last.From)
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
