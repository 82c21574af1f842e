package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/synapse/internal/analysis"
	"github.com/san-kum/synapse/internal/automation"
	"github.com/san-kum/synapse/internal/config"
	"github.com/san-kum/synapse/internal/experiment"
	"github.com/san-kum/synapse/internal/export"
	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/gui"
	"github.com/san-kum/synapse/internal/metrics"
	"github.com/san-kum/synapse/internal/render"
	"github.com/san-kum/synapse/internal/storage"
	"github.com/san-kum/synapse/internal/tui"
	"github.com/san-kum/synapse/internal/viz"
	"github.com/san-kum/synapse/internal/window"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	// Network parameters
	preset     string
	configFile string
	particles  int
	radius     float64
	seed       int64
	disable    bool
	theme      string
	// Headless runs
	frames  int
	width   int
	height  int
	braille bool
	// Plotting
	series string
	// Sweeps
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Cascade detection
	cascadeGap int
)

// main registers the synapse commands and runs the terminal view when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "synapse",
		Short: "animated particle network",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".synapse", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	networkFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the network in the terminal",
		RunE:  runLive,
	}
	networkFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the network in a raylib window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gui.Run(cfg.RenderOptions(), cfg.Preset, logger())
			return nil
		},
	}
	networkFlags(guiCmd)

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the network in an ebiten window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return window.Run(cfg.RenderOptions(), cfg.Preset, logger())
		},
	}
	networkFlags(windowCmd)

	exportCmd := &cobra.Command{
		Use:   "export [out.svg]",
		Short: "render one frame to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportFrame,
	}
	networkFlags(exportCmd)
	headlessFlags(exportCmd, 120)
	exportCmd.Flags().BoolVar(&braille, "braille", false, "export the terminal braille rendering")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run headless and save frame statistics",
		RunE:  recordRun,
	}
	networkFlags(recordCmd)
	headlessFlags(recordCmd, 600)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "mean_activity,edges,mean_degree",
		"comma separated series ("+strings.Join(metrics.SeriesNames(), ", ")+")")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frames per second by particle count",
		RunE:  bench,
	}
	networkFlags(benchCmd)
	headlessFlags(benchCmd, 300)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "activity rhythm and cascade analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&cascadeGap, "gap", 6, "quiet frames allowed inside a cascade")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of presets",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one network parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "preset configuration")
	sweepCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "radius", "parameter ("+strings.Join(automation.SweepParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 40, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 200, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	headlessFlags(sweepCmd, 300)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-12s %d particles, radius %.0f\n", name, cfg.ParticleCount, cfg.ConnectionRadius)
			}
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, windowCmd, exportCmd, recordCmd, listCmd, plotCmd, showCmd, benchCmd, analyzeCmd, scenarioCmd, sweepCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func networkFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&particles, "particles", 0, "particle count (overrides config)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "connection radius (overrides config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the animation")
	cmd.Flags().StringVar(&theme, "theme", "", "terminal theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
}

func headlessFlags(cmd *cobra.Command, defaultFrames int) {
	cmd.Flags().IntVar(&frames, "frames", defaultFrames, "frames to simulate")
	cmd.Flags().IntVar(&width, "width", 1200, "surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 800, "surface height in pixels")
}

func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the preset, lays the config file over it and then
// applies any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if cfg, err = config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.ParticleCount = particles
	}
	if flags.Changed("radius") {
		cfg.ConnectionRadius = radius
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("disable") {
		cfg.Disabled = disable
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	cfg.Normalize()
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(tui.New(cfg.RenderOptions(), cfg.Preset, cfg.Theme, logger()))
}

// simulate runs the network headless on surface for n frames.
func simulate(ctx context.Context, cfg *config.Config, surface render.Surface, n int) (*experiment.Result, error) {
	return experiment.New(experiment.Config{
		Network: cfg,
		Frames:  n,
		Width:   width,
		Height:  height,
		Surface: surface,
	}, logger()).Run(ctx)
}

func exportFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := "synapse.svg"
	if len(args) > 0 {
		out = args[0]
	}

	if braille {
		canvas := viz.NewCanvas(width/2, height/4)
		if _, err := simulate(cmd.Context(), cfg, canvas, frames); err != nil {
			return err
		}
		fill := string(viz.GetTheme(cfg.Theme).Particle)
		if err := os.WriteFile(out, []byte(export.CanvasToSVG(canvas, 4, fill)), 0644); err != nil {
			return err
		}
	} else {
		svg := export.NewSVG(width, height)
		if _, err := simulate(cmd.Context(), cfg, svg, frames); err != nil {
			return err
		}
		if err := svg.WriteSVG(out); err != nil {
			return err
		}
	}

	fmt.Printf("exported frame %d to %s\n", frames, out)
	return nil
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	res, err := simulate(cmd.Context(), cfg, nil, frames)
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Preset:    cfg.Preset,
		Seed:      cfg.Seed,
		Width:     res.Width,
		Height:    res.Height,
		Particles: cfg.ParticleCount,
		Radius:    cfg.ConnectionRadius,
		Summary:   res.Summary,
	}, res.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d (%v)\n", len(res.Frames), res.Elapsed)
	fmt.Printf("mean activity: %.4f  mean edges: %.1f  triggers: %.0f\n",
		res.Summary["mean_activity"], res.Summary["mean_edges"], res.Summary["triggers"])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tPARTICLES\tRADIUS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Radius,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(samples))

	for _, name := range strings.Split(series, ",") {
		name = strings.TrimSpace(name)
		data := metrics.Series(samples, name)
		if data == nil {
			return fmt.Errorf("unknown series: %s (available: %v)", name, metrics.SeriesNames())
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	counts := []int{30, 80, 200, 500, 1000}
	if cmd.Flags().Changed("particles") {
		counts = []int{cfg.ParticleCount}
	}

	fmt.Printf("benchmarking %s, %d frames on %dx%d\n\n", cfg.Preset, frames, width, height)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tEDGES\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		run := *cfg
		run.ParticleCount = n
		if run.Seed == 0 {
			run.Seed = 42
		}

		res, err := simulate(cmd.Context(), &run, nil, frames)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, res.Edges, res.Elapsed, res.FramesPerSecond())
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("activity analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	ps := analysis.PowerSpectrum(metrics.Series(samples, "mean_activity"))
	plotData := ps[1:max(2, len(ps)/4)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean activity)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if r, ok := analysis.DominantRhythm(metrics.Series(samples, "mean_activity"), field.FrameInterval); ok {
		fmt.Printf("dominant period: %v\n", r.Period.Round(time.Millisecond))
	}
	if f, ok := analysis.PeakFrequency(analysis.WelchSpectrum(metrics.Series(samples, "mean_activity"), field.FrameInterval)); ok {
		fmt.Printf("welch peak: %.2f Hz\n", f)
	}

	cascades := analysis.Cascades(samples, cascadeGap)
	fmt.Printf("cascades: %d\n", len(cascades))
	if c, ok := analysis.LargestCascade(cascades); ok {
		fmt.Printf("largest: %d triggers over %d frames from frame %d\n", c.Size, c.Frames, c.Start)
	}

	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, st, logger())
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n\n", sc.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tFRAMES\tEDGES\tACTIVITY\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.4f\t%s\n",
			i+1, r.Step.Preset, len(r.Result.Frames), r.Result.Summary["mean_edges"], r.Result.Summary["mean_activity"], r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Preset:   preset,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   frames,
		Width:    width,
		Height:   height,
		Seed:     seed,
	}, logger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tEDGES\tDEGREE\tACTIVITY\tTRIGGERS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.1f\t%.2f\t%.4f\t%.0f\n", r.ParamValue, r.MeanEdges, r.MeanDegree, r.MeanActivity, r.Triggers)
	}
	return w.Flush()
}
