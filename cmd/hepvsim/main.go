package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/cycle"
	"github.com/hepv-lab/hepvsim/internal/metrics"
	"github.com/hepv-lab/hepvsim/internal/report"
	"github.com/hepv-lab/hepvsim/internal/sim"
	"github.com/hepv-lab/hepvsim/internal/store"
	"github.com/hepv-lab/hepvsim/internal/viz"
)

var (
	dataDir      string
	dt           float64
	duration     float64
	configFile   string
	preset       string
	outPath      string
	noValidation bool
	initPressure float64
	pneuShare    float64
	// Sweep range over the pneumatic traction share
	sweepMin   float64
	sweepMax   float64
	sweepCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hepvsim",
		Short: "hybrid electric-pneumatic vehicle feasibility lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hepvsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [bev|hepv]",
		Short: "run one configuration over the urban cycle",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run both configurations and chart the verdict",
		RunE:  compareConfigs,
	}
	addRunFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the pneumatic traction share",
		RunE:  sweepShare,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.10, "lowest share")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.60, "highest share")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 6, "number of points")

	cycleCmd := &cobra.Command{
		Use:   "cycle",
		Short: "chart the urban drive cycle",
		RunE:  showCycle,
	}
	addRunFlags(cycleCmd)

	effmapCmd := &cobra.Command{
		Use:   "effmap",
		Short: "chart both motor efficiency maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Println(viz.EfficiencyMap(cfg.Params))
			return nil
		},
	}
	addRunFlags(effmapCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play back a hybrid run in the terminal",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print stored run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [bev|hepv]",
		Short: "run fresh and write the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	addRunFlags(exportCSVCmd)
	exportCSVCmd.Flags().StringVar(&outPath, "out", "", "output path (default <mode>_data.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [bev|hepv]",
		Short: "run fresh and write the trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}
	addRunFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "run both configurations and write the summary report",
		RunE:  writeReport,
	}
	addRunFlags(reportCmd)
	reportCmd.Flags().StringVar(&outPath, "out", "simulation_summary.txt", "summary path")
	reportCmd.Flags().BoolVar(&noValidation, "no-validation", false, "skip the validation references")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, compareCmd, sweepCmd, cycleCmd, effmapCmd, liveCmd,
		listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, reportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&initPressure, "init-pressure", 0, "tank preload (Pa, overrides config)")
	cmd.Flags().Float64Var(&pneuShare, "pneu-share", 0, "pneumatic traction share (overrides config)")
}

// resolveConfig layers preset, config file, and flags: a preset seeds the
// config, a file overrides the preset, and explicitly changed flags win.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("init-pressure") {
		cfg.Params.InitPressure = initPressure
	}
	if cmd.Flags().Changed("pneu-share") {
		cfg.Params.PneuShare = pneuShare
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewMeanEfficiency(),
		metrics.NewRegenEnergy(),
		metrics.NewPneumaticShare(),
	}
}

func runOne(ctx context.Context, mode string, cfg *config.Config) (*sim.Result, error) {
	times, speeds, err := cycle.Generate(cfg.Duration, cfg.Dt)
	if err != nil {
		return nil, err
	}

	switch mode {
	case "bev":
		s := sim.NewSingleSource(cfg.Params)
		for _, m := range defaultMetrics() {
			s.AddMetric(m)
		}
		return s.Run(ctx, times, speeds)
	case "hepv":
		d := sim.NewDualSource(cfg.Params)
		for _, m := range defaultMetrics() {
			d.AddMetric(m)
		}
		return d.Run(ctx, times, speeds)
	default:
		return nil, fmt.Errorf("unknown mode: %s (want bev or hepv)", mode)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	mode := args[0]

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s over %.0fs urban cycle...\n", mode, cfg.Duration)
	start := time.Now()

	result, err := runOne(cmd.Context(), mode, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(mode, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps())
	fmt.Printf("energy: %.6f kWh\n", result.TotalEnergyKWh)
	if mode == "hepv" {
		fmt.Printf("pneumatic usage: %d steps\n", result.PneumaticUse)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func compareConfigs(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	times, speeds, err := cycle.Generate(cfg.Duration, cfg.Dt)
	if err != nil {
		return err
	}

	cmp, err := sim.Compare(cmd.Context(), times, speeds, cfg.Params)
	if err != nil {
		return err
	}

	fmt.Println(viz.SoCComparison(cmp))
	fmt.Println()
	fmt.Println(viz.TankPressure(cmp.Dual))
	fmt.Println()
	fmt.Printf("BEV:  %.6f kWh\n", cmp.Single.TotalEnergyKWh)
	fmt.Printf("HEPV: %.6f kWh (pneumatic used %d steps)\n", cmp.Dual.TotalEnergyKWh, cmp.Dual.PneumaticUse)
	fmt.Println(viz.Verdict(cmp))
	return nil
}

func sweepShare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepCount < 2 {
		return fmt.Errorf("count must be at least 2, got %d", sweepCount)
	}
	if sweepMin <= 0 || sweepMax >= 1 || sweepMin >= sweepMax {
		return fmt.Errorf("share range must satisfy 0 < min < max < 1")
	}

	times, speeds, err := cycle.Generate(cfg.Duration, cfg.Dt)
	if err != nil {
		return err
	}

	sets := make([]config.Params, sweepCount)
	shares := make([]float64, sweepCount)
	for i := range sets {
		share := sweepMin + (sweepMax-sweepMin)*float64(i)/float64(sweepCount-1)
		p := cfg.Params
		p.PneuShare = share
		sets[i] = p
		shares[i] = share
	}

	results, err := sim.Sweep(cmd.Context(), times, speeds, sets)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHARE\tENERGY_KWH\tPNEU_STEPS\tFINAL_SOC")
	for i, res := range results {
		fmt.Fprintf(w, "%.2f\t%.6f\t%d\t%.4f\n",
			shares[i], res.TotalEnergyKWh, res.PneumaticUse, res.SoC[res.Steps()-1])
	}
	return w.Flush()
}

func showCycle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	_, speeds, err := cycle.Generate(cfg.Duration, cfg.Dt)
	if err != nil {
		return err
	}

	kmh := make([]float64, len(speeds))
	maxKmh := 0.0
	for i, v := range speeds {
		kmh[i] = v * 3.6
		if kmh[i] > maxKmh {
			maxKmh = kmh[i]
		}
	}

	fmt.Printf("%d points, max speed %.1f km/h\n\n", len(kmh), maxKmh)
	fmt.Println(asciigraph.Plot(kmh,
		asciigraph.Height(12),
		asciigraph.Width(90),
		asciigraph.Caption("urban cycle speed (km/h)")))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	result, err := runOne(cmd.Context(), "hepv", cfg)
	if err != nil {
		return err
	}

	model := viz.NewModel(result, "hepv urban cycle")
	_, err = tea.NewProgram(model).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tDURATION\tDT\tENERGY_KWH\tPNEU_STEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.3fs\t%.6f\t%d\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.EnergyKWh,
			run.PneumaticUse,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	header, rows, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(rows))

	// Column 0 is time; chart everything else against it.
	for col := 1; col < len(header); col++ {
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][col]
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(header[col])))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	mode := args[0]

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	result, err := runOne(cmd.Context(), mode, cfg)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = mode + "_data.csv"
	}
	if err := store.WriteCSV(path, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	mode := args[0]

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	result, err := runOne(cmd.Context(), mode, cfg)
	if err != nil {
		return err
	}

	if outPath == "" {
		return store.ExportJSONStdout(mode, cfg.Dt, cfg.Duration, result)
	}
	if err := store.ExportJSON(outPath, mode, cfg.Dt, cfg.Duration, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func writeReport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if !noValidation {
		report.WriteValidation(os.Stdout)
	}

	times, speeds, err := cycle.Generate(cfg.Duration, cfg.Dt)
	if err != nil {
		return err
	}

	cmp, err := sim.Compare(cmd.Context(), times, speeds, cfg.Params)
	if err != nil {
		return err
	}

	summary := report.Summary(cfg.Dt, cfg.Duration, cmp.Single, cmp.Dual)
	fmt.Println(summary)

	if err := report.SaveSummary(outPath, cfg.Dt, cfg.Duration, cmp.Single, cmp.Dual); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
