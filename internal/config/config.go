package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 400.0
)

// Params holds every physical and control constant for one simulation run.
// A value is read once at construction and never mutated afterwards, so the
// same Params may back concurrent runs.
type Params struct {
	// Mass
	BaseMass      float64 `yaml:"base_mass"`      // BEV baseline mass (kg)
	PneumaticMass float64 `yaml:"pneumatic_mass"` // added pneumatic system mass (kg)

	// Aerodynamics & rolling
	DragCoef    float64 `yaml:"drag_coef"`
	FrontalArea float64 `yaml:"frontal_area"` // m^2
	RollingCoef float64 `yaml:"rolling_coef"`

	// Battery & electric motor
	BatteryKWh    float64 `yaml:"battery_kwh"`
	MotorPowerMax float64 `yaml:"motor_power_max"` // W
	MotorEtaPeak  float64 `yaml:"motor_eta_peak"`
	MotorRPMBase  float64 `yaml:"motor_rpm_base"` // RPM at peak efficiency
	RegenEta      float64 `yaml:"regen_eta"`
	ChargeLimit   float64 `yaml:"charge_limit"`    // max SoC accepted during regen
	BrakePowerMax float64 `yaml:"brake_power_max"` // W, recoverable braking cap

	// Pneumatic system
	TankVolume   float64 `yaml:"tank_volume"`   // m^3
	PressureMax  float64 `yaml:"pressure_max"`  // Pa
	PressureMin  float64 `yaml:"pressure_min"`  // Pa, minimum working pressure
	InitPressure float64 `yaml:"init_pressure"` // Pa, tank preload at t=0
	CompEta      float64 `yaml:"comp_eta"`      // compressor efficiency
	PneuEtaPeak  float64 `yaml:"pneu_eta_peak"`
	LeakPerMin   float64 `yaml:"leak_per_min"` // fractional mass loss per minute

	// Physical constants
	AirDensity  float64 `yaml:"air_density"`  // kg/m^3
	Gravity     float64 `yaml:"gravity"`      // m/s^2
	GasConstant float64 `yaml:"gas_constant"` // J/(kg K), specific, dry air
	Cv          float64 `yaml:"cv"`           // J/(kg K), constant volume
	AmbientTemp float64 `yaml:"ambient_temp"` // K
	AmbientPres float64 `yaml:"ambient_pres"` // Pa

	// Thermodynamics
	PolyCompIndex float64 `yaml:"poly_comp_index"` // polytropic index, compression
	PolyExpIndex  float64 `yaml:"poly_exp_index"`  // polytropic index, expansion
	HeatCoef      float64 `yaml:"heat_coef"`       // Newtonian cooling coefficient

	// Driveline geometry
	WheelDiameter float64 `yaml:"wheel_diameter"` // m
	GearRatio     float64 `yaml:"gear_ratio"`

	// Control thresholds: traction split
	PneuSpeedMaxKmh    float64 `yaml:"pneu_speed_max_kmh"`
	PneuPressureMinBar float64 `yaml:"pneu_pressure_min_bar"`
	PneuPowerMin       float64 `yaml:"pneu_power_min"` // W
	PneuSocFloor       float64 `yaml:"pneu_soc_floor"`
	PneuShare          float64 `yaml:"pneu_share"` // fraction of demand on pneumatic path

	// Control thresholds: regen split
	RegenBattShare       float64 `yaml:"regen_batt_share"`
	RegenTankShare       float64 `yaml:"regen_tank_share"`
	RegenSocFloor        float64 `yaml:"regen_soc_floor"`
	RegenPressureCeilBar float64 `yaml:"regen_pressure_ceil_bar"`
}

// Config is one full run description: cycle length, step size, and parameters.
type Config struct {
	Duration float64 `yaml:"duration"`
	Dt       float64 `yaml:"dt"`
	Params   Params  `yaml:"params"`
}

// DefaultParams returns the reference parameter set: a light urban BEV with
// a 50 L / 300 bar pneumatic assist circuit.
func DefaultParams() Params {
	return Params{
		BaseMass:      450.0,
		PneumaticMass: 50.0,

		DragCoef:    0.28,
		FrontalArea: 1.2,
		RollingCoef: 0.012,

		BatteryKWh:    5.0,
		MotorPowerMax: 15_000,
		MotorEtaPeak:  0.92,
		MotorRPMBase:  4275,
		RegenEta:      0.75,
		ChargeLimit:   0.98,
		BrakePowerMax: 12_000,

		TankVolume:   0.050,
		PressureMax:  300e5,
		PressureMin:  100e5,
		InitPressure: 200e5,
		CompEta:      0.60,
		PneuEtaPeak:  0.40,
		LeakPerMin:   0.02,

		AirDensity:  1.225,
		Gravity:     9.81,
		GasConstant: 287.0,
		Cv:          717.0,
		AmbientTemp: 293.0,
		AmbientPres: 101_325.0,

		PolyCompIndex: 1.30,
		PolyExpIndex:  1.25,
		HeatCoef:      0.10,

		WheelDiameter: 0.60,
		GearRatio:     9.0,

		PneuSpeedMaxKmh:    35.0,
		PneuPressureMinBar: 100.0,
		PneuPowerMin:       8_000,
		PneuSocFloor:       0.2,
		PneuShare:          0.35,

		RegenBattShare:       0.75,
		RegenTankShare:       0.25,
		RegenSocFloor:        0.3,
		RegenPressureCeilBar: 280.0,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Duration: DefaultDuration,
		Dt:       DefaultDt,
		Params:   DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Cp returns the specific heat at constant pressure, used as the enthalpy
// coefficient when converting tank energy flow into a mass delta.
func (p Params) Cp() float64 {
	return p.Cv + p.GasConstant
}

// TotalMass is the dual-source curb mass including the pneumatic circuit.
func (p Params) TotalMass() float64 {
	return p.BaseMass + p.PneumaticMass
}

// BatteryCapacity is the battery capacity in Joules.
func (p Params) BatteryCapacity() float64 {
	return p.BatteryKWh * 3.6e6
}

// Validate fails fast on parameter sets that would produce NaN or garbage
// instead of a physical trajectory.
func (p Params) Validate() error {
	checks := []struct {
		ok   bool
		desc string
	}{
		{p.BaseMass > 0, "base_mass must be positive"},
		{p.PneumaticMass >= 0, "pneumatic_mass must be non-negative"},
		{p.BatteryKWh > 0, "battery_kwh must be positive"},
		{p.MotorPowerMax > 0, "motor_power_max must be positive"},
		{p.MotorEtaPeak > 0 && p.MotorEtaPeak <= 1, "motor_eta_peak must be in (0,1]"},
		{p.MotorRPMBase > 0, "motor_rpm_base must be positive"},
		{p.RegenEta > 0 && p.RegenEta <= 1, "regen_eta must be in (0,1]"},
		{p.ChargeLimit > 0 && p.ChargeLimit < 1, "charge_limit must be in (0,1)"},
		{p.TankVolume > 0, "tank_volume must be positive"},
		{p.PressureMax > p.PressureMin, "pressure_max must exceed pressure_min"},
		{p.PressureMin > p.AmbientPres, "pressure_min must exceed ambient pressure"},
		{p.InitPressure >= p.AmbientPres && p.InitPressure <= p.PressureMax, "init_pressure must lie in [ambient_pres, pressure_max]"},
		{p.CompEta > 0 && p.CompEta <= 1, "comp_eta must be in (0,1]"},
		{p.PneuEtaPeak > 0 && p.PneuEtaPeak <= 1, "pneu_eta_peak must be in (0,1]"},
		{p.LeakPerMin >= 0, "leak_per_min must be non-negative"},
		{p.GasConstant > 0, "gas_constant must be positive"},
		{p.Cv > 0, "cv must be positive"},
		{p.AmbientTemp > 0, "ambient_temp must be positive"},
		{p.AmbientPres > 0, "ambient_pres must be positive"},
		{p.PolyCompIndex >= 1, "poly_comp_index must be >= 1"},
		{p.PolyExpIndex >= 1, "poly_exp_index must be >= 1"},
		{p.HeatCoef >= 0, "heat_coef must be non-negative"},
		{p.WheelDiameter > 0, "wheel_diameter must be positive"},
		{p.GearRatio > 0, "gear_ratio must be positive"},
		{p.PneuShare > 0 && p.PneuShare < 1, "pneu_share must be in (0,1)"},
		{p.RegenBattShare >= 0 && p.RegenTankShare >= 0, "regen shares must be non-negative"},
		{p.RegenBattShare+p.RegenTankShare <= 1, "regen shares must not exceed 1"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("config: %s", c.desc)
		}
	}
	return nil
}

// Validate checks the run description as a whole.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	return c.Params.Validate()
}
