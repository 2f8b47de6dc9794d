package motor

import (
	"math"
	"testing"

	"github.com/hepv-lab/hepvsim/internal/config"
)

func TestCurveEval(t *testing.T) {
	c := Curve{
		{From: 0, To: 1, Base: 0.5, Slope: 0},
		{From: 1, To: 2, Base: 0.5, Slope: 0.5},
		{From: 2, To: 1e9, Base: 1.0, Slope: -1.0},
	}

	tests := []struct {
		x, expected float64
	}{
		{-1, 0.5}, // below first breakpoint: first segment
		{0, 0.5},
		{0.9, 0.5},
		{1.5, 0.75},
		{2.0, 1.0},
		{3.0, 0.0},
	}

	for _, tt := range tests {
		if got := c.Eval(tt.x); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Eval(%f): expected %f, got %f", tt.x, tt.expected, got)
		}
	}
}

func TestElectricEfficiencyBounds(t *testing.T) {
	e := NewElectric(config.DefaultParams())
	peak := config.DefaultParams().MotorEtaPeak

	for kmh := 0.0; kmh <= 120; kmh += 1.5 {
		for load := 0.0; load <= 1.2; load += 0.05 {
			eta := e.Efficiency(kmh, load)
			if eta < 0.70 || eta > peak {
				t.Fatalf("efficiency %f outside [0.70, %f] at kmh=%f load=%f",
					eta, peak, kmh, load)
			}
		}
	}
}

func TestElectricEfficiencyReferencePoints(t *testing.T) {
	p := config.DefaultParams()
	e := NewElectric(p)

	// Near the teardown reference point (4275 RPM is ~53.7 km/h with the
	// default driveline) at mid load the map saturates at peak efficiency.
	if got := e.Efficiency(53.7, 0.5); math.Abs(got-p.MotorEtaPeak) > 1e-3 {
		t.Errorf("expected peak %f near reference point, got %f", p.MotorEtaPeak, got)
	}

	// Crawl speed at mid load: speed factor 0.75 alone.
	if got := e.Efficiency(5, 0.5); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected 0.75 at crawl, got %f", got)
	}

	// Near-zero load hits the floor clip.
	if got := e.Efficiency(53.7, 0.01); math.Abs(got-0.70) > 1e-9 {
		t.Errorf("expected floor 0.70 at near-zero load, got %f", got)
	}
}

func TestPneumaticEfficiencyBounds(t *testing.T) {
	p := NewPneumatic(config.DefaultParams())

	for kmh := 0.0; kmh <= 120; kmh += 1.5 {
		for bar := 1.0; bar <= 320; bar += 3.5 {
			eta := p.Efficiency(kmh, bar)
			if eta < PneumaticFloor || eta > PneumaticCeiling {
				t.Fatalf("efficiency %f outside [%f, %f] at kmh=%f bar=%f",
					eta, PneumaticFloor, PneumaticCeiling, kmh, bar)
			}
		}
	}
}

func TestPneumaticEfficiencyReferencePoints(t *testing.T) {
	p := NewPneumatic(config.DefaultParams())

	// Optimal plateau: low speed, 150 bar -> 0.40 * 0.8 * 1.0.
	if got := p.Efficiency(10, 150); math.Abs(got-0.32) > 1e-9 {
		t.Errorf("expected 0.32 on plateau, got %f", got)
	}

	// Very low pressure clips to the floor: 0.40 * 0.3 = 0.12 -> 0.15.
	if got := p.Efficiency(10, 30); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("expected floor 0.15 at low pressure, got %f", got)
	}

	// High pressure derating: 300 bar -> pressure factor 0.6.
	if got := p.Efficiency(10, 300); math.Abs(got-0.40*0.6) > 1e-9 {
		t.Errorf("expected 0.24 at 300 bar, got %f", got)
	}

	// Speed derating between 20 and 40 km/h.
	if got := p.Efficiency(30, 150); math.Abs(got-0.40*0.8*0.925) > 1e-9 {
		t.Errorf("expected 0.296 at 30 km/h, got %f", got)
	}
}
