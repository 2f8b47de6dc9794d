// Package viz renders trajectories in the terminal: static asciigraph charts
// for finished runs and a bubbletea playback view.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/motor"
	"github.com/hepv-lab/hepvsim/internal/sim"
)

const (
	plotWidth  = 90
	plotHeight = 12
)

// downsample reduces a series to at most n points by striding, keeping the
// first and last samples.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n || n < 2 {
		return data
	}
	out := make([]float64, 0, n)
	stride := float64(len(data)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, data[int(float64(i)*stride)])
	}
	return out
}

// SpeedProfile charts the drive cycle in km/h.
func SpeedProfile(res *sim.Result) string {
	return asciigraph.Plot(downsample(res.SpeedsKmh, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("speed (km/h)"))
}

// SoCComparison overlays the battery trajectories of both configurations.
func SoCComparison(cmp *sim.Comparison) string {
	series := [][]float64{
		scale(downsample(cmp.Single.SoC, plotWidth), 100),
		scale(downsample(cmp.Dual.SoC, plotWidth), 100),
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("SoC % (blue: BEV, red: HEPV)"))
}

// TankPressure charts the reservoir pressure of a dual-source run in bar.
func TankPressure(res *sim.Result) string {
	if len(res.TankPressureBar) == 0 {
		return "no tank trajectory in this run"
	}
	return asciigraph.Plot(downsample(res.TankPressureBar, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("tank pressure (bar)"))
}

// EfficiencyMap charts both motor maps over road speed: the electric motor at
// three load points and the air motor at three tank pressures.
func EfficiencyMap(params config.Params) string {
	em := motor.NewElectric(params)
	pm := motor.NewPneumatic(params)

	const samples = plotWidth
	speeds := make([]float64, samples)
	for i := range speeds {
		speeds[i] = 10 + 70*float64(i)/float64(samples-1)
	}

	electric := func(load float64) []float64 {
		out := make([]float64, samples)
		for i, s := range speeds {
			out[i] = em.Efficiency(s, load) * 100
		}
		return out
	}
	pneumatic := func(bar float64) []float64 {
		out := make([]float64, samples)
		for i, s := range speeds {
			out[i] = pm.Efficiency(s, bar) * 100
		}
		return out
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(
		[][]float64{electric(0.9), electric(0.7), electric(0.3)},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Cyan, asciigraph.Gray),
		asciigraph.Caption("electric efficiency % at 90/70/30% load, 10-80 km/h")))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.PlotMany(
		[][]float64{pneumatic(300), pneumatic(200), pneumatic(150)},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Gray),
		asciigraph.Caption("pneumatic efficiency % at 300/200/150 bar, 10-80 km/h")))
	return b.String()
}

// Verdict is the one-line comparison summary shown under the charts.
func Verdict(cmp *sim.Comparison) string {
	diff := (cmp.Dual.TotalEnergyKWh/cmp.Single.TotalEnergyKWh - 1) * 100
	if diff > 0 {
		return fmt.Sprintf("HEPV penalty: %+.2f%% (%.6f vs %.6f kWh)", diff,
			cmp.Dual.TotalEnergyKWh, cmp.Single.TotalEnergyKWh)
	}
	return fmt.Sprintf("HEPV improvement: %.2f%% (%.6f vs %.6f kWh)", -diff,
		cmp.Dual.TotalEnergyKWh, cmp.Single.TotalEnergyKWh)
}

func scale(data []float64, factor float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * factor
	}
	return out
}
