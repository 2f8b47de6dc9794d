// Package store persists finished runs as one directory per run: a
// metadata.json with the headline scalars and a series.csv with the full
// trajectory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hepv-lab/hepvsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Mode         string             `json:"mode"` // "bev" or "hepv"
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	EnergyKWh    float64            `json:"energy_kwh"`
	PneumaticUse int                `json:"pneumatic_use"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes one run to <baseDir>/<mode>_<unix>/ and returns the run ID.
// Tank columns appear only when the result carries a tank trajectory.
func (s *Store) Save(mode string, dt, duration float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Mode:         mode,
		Timestamp:    time.Now(),
		Dt:           dt,
		Duration:     duration,
		EnergyKWh:    result.TotalEnergyKWh,
		PneumaticUse: result.PneumaticUse,
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := WriteCSV(filepath.Join(runDir, "series.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes the trajectory with named columns, one row per step.
func WriteCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	withTank := len(result.TankPressureBar) > 0
	header := []string{"time_s", "speed_kmh", "demand_w", "electric_w", "pneumatic_w", "efficiency", "soc"}
	if withTank {
		header = append(header, "tank_pressure_bar", "tank_temp_c", "tank_mass_kg")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for i := range result.Times {
		row := []string{
			f(result.Times[i]),
			f(result.SpeedsKmh[i]),
			f(result.Demand[i]),
			f(result.Electric[i]),
			f(result.Pneumatic[i]),
			f(result.Efficiency[i]),
			f(result.SoC[i]),
		}
		if withTank {
			row = append(row, f(result.TankPressureBar[i]), f(result.TankTempC[i]), f(result.TankMassKg[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads the trajectory back as the header row plus one float row
// per step. Rows that fail to parse are skipped rather than failing the load.
func (s *Store) LoadSeries(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		row := make([]float64, len(record))
		ok := true
		for j, field := range record {
			row[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return header, rows, nil
}
