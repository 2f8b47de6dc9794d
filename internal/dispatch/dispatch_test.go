package dispatch

import (
	"math"
	"testing"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/tank"
)

func readyTank() tank.State {
	// 200 bar, warm, plenty of mass.
	return tank.State{Mass: 11.9, Temperature: 293, Pressure: 200e5}
}

func TestTractionEngagesPneumatic(t *testing.T) {
	p := config.DefaultParams()
	d := New(p)

	split := d.Traction(10_000, 25, readyTank(), 0.9)
	if !split.UsedPneumatic {
		t.Fatal("expected pneumatic path to engage")
	}
	if math.Abs(split.Pneumatic-0.35*10_000) > 1e-9 {
		t.Errorf("expected pneumatic share 3500, got %f", split.Pneumatic)
	}
	if math.Abs(split.Electric+split.Pneumatic-10_000) > 1e-9 {
		t.Errorf("split must conserve demand: %f + %f", split.Electric, split.Pneumatic)
	}
}

func TestTractionGates(t *testing.T) {
	p := config.DefaultParams()
	d := New(p)

	lowPressure := readyTank()
	lowPressure.Pressure = 50e5

	emptyTank := readyTank()
	emptyTank.Mass = 1e-6

	tests := []struct {
		name   string
		demand float64
		kmh    float64
		ts     tank.State
		soc    float64
	}{
		{"speed too high", 10_000, 60, readyTank(), 0.9},
		{"pressure too low", 10_000, 25, lowPressure, 0.9},
		{"demand too low", 5_000, 25, readyTank(), 0.9},
		{"tank empty", 10_000, 25, emptyTank, 0.9},
		{"battery too low", 10_000, 25, readyTank(), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := d.Traction(tt.demand, tt.kmh, tt.ts, tt.soc)
			if split.UsedPneumatic {
				t.Error("pneumatic path should not engage")
			}
			if split.Electric != tt.demand {
				t.Errorf("electric path must carry full demand, got %f", split.Electric)
			}
			if split.Pneumatic != 0 {
				t.Errorf("expected zero pneumatic power, got %f", split.Pneumatic)
			}
		})
	}
}

func TestBrakingSplitsToBoth(t *testing.T) {
	d := New(config.DefaultParams())

	split := d.Braking(8_000, readyTank(), 0.9)
	if math.Abs(split.Electric+0.75*8_000) > 1e-9 {
		t.Errorf("expected -6000 to battery, got %f", split.Electric)
	}
	if math.Abs(split.Pneumatic+0.25*8_000) > 1e-9 {
		t.Errorf("expected -2000 to tank, got %f", split.Pneumatic)
	}
	if split.UsedPneumatic {
		t.Error("regen into tank must not count as pneumatic drive usage")
	}
}

func TestBrakingFallsBackToBattery(t *testing.T) {
	d := New(config.DefaultParams())

	// Battery below its floor: everything to the battery to protect range.
	split := d.Braking(8_000, readyTank(), 0.2)
	if split.Electric != -8_000 || split.Pneumatic != 0 {
		t.Errorf("expected all regen to battery, got %f/%f", split.Electric, split.Pneumatic)
	}

	// Tank near ceiling: same fallback.
	full := readyTank()
	full.Pressure = 290e5
	split = d.Braking(8_000, full, 0.9)
	if split.Electric != -8_000 || split.Pneumatic != 0 {
		t.Errorf("expected all regen to battery, got %f/%f", split.Electric, split.Pneumatic)
	}
}
