package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/hepv-lab/hepvsim/internal/sim"
)

type ExportData struct {
	Mode            string             `json:"mode"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Steps           int                `json:"steps"`
	EnergyKWh       float64            `json:"energy_kwh"`
	PneumaticUse    int                `json:"pneumatic_use"`
	Times           []float64          `json:"times"`
	SpeedsKmh       []float64          `json:"speeds_kmh"`
	Demand          []float64          `json:"demand_w"`
	Electric        []float64          `json:"electric_w"`
	Pneumatic       []float64          `json:"pneumatic_w"`
	SoC             []float64          `json:"soc"`
	TankPressureBar []float64          `json:"tank_pressure_bar,omitempty"`
	TankTempC       []float64          `json:"tank_temp_c,omitempty"`
	TankMassKg      []float64          `json:"tank_mass_kg,omitempty"`
	Metrics         map[string]float64 `json:"metrics"`
}

func newExportData(mode string, dt, duration float64, result *sim.Result) ExportData {
	return ExportData{
		Mode:            mode,
		Dt:              dt,
		Duration:        duration,
		Steps:           result.Steps(),
		EnergyKWh:       result.TotalEnergyKWh,
		PneumaticUse:    result.PneumaticUse,
		Times:           result.Times,
		SpeedsKmh:       result.SpeedsKmh,
		Demand:          result.Demand,
		Electric:        result.Electric,
		Pneumatic:       result.Pneumatic,
		SoC:             result.SoC,
		TankPressureBar: result.TankPressureBar,
		TankTempC:       result.TankTempC,
		TankMassKg:      result.TankMassKg,
		Metrics:         result.Metrics,
	}
}

func exportJSON(w io.Writer, mode string, dt, duration float64, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(mode, dt, duration, result))
}

func ExportJSON(path, mode string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, mode, dt, duration, result)
}

func ExportJSONStdout(mode string, dt, duration float64, result *sim.Result) error {
	return exportJSON(os.Stdout, mode, dt, duration, result)
}
