package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/bridgeviz/internal/config"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
	"github.com/san-kum/bridgeviz/internal/source"
)

var (
	configFile string
	preset     string
	logLevel   string
	dataDir    string
	sourceDir  string
	format     string
	variable   string
	rangeMode  string
	step       int
	// view options
	width   int
	height  int
	labels  bool
	wire    bool
	paused  bool
	noColor bool
	// plot sizes
	plotWidth     int
	plotHeight    int
	historyWidth  int
	historyHeight int
	// output options
	asJSON   bool
	pickFile string
	frames   bool
	spectrum bool
	duration time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd registers the bridgeviz commands. The root runs the terminal
// viewer when no subcommand is given.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bridgeviz",
		Short:         "bridge structural health monitoring viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "directory for stored runs")
	pf.StringVar(&sourceDir, "dir", "", "directory the input files are relative to")
	pf.StringVar(&format, "format", "", "input format (excel, csv, demo)")
	pf.StringVar(&variable, "variable", "", "variable shown first")
	pf.StringVar(&rangeMode, "range", "", "color range mode (step, global)")
	pf.IntVar(&step, "step", 0, "time step to render")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "animate the bridge in the terminal",
		RunE:  runView,
	}
	for _, c := range []*cobra.Command{rootCmd, viewCmd} {
		c.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width in cells")
		c.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height in cells")
		c.Flags().BoolVar(&labels, "labels", false, "label sensors")
		c.Flags().BoolVar(&paused, "paused", false, "start paused")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&wire, "wire", false, "draw quads as wireframe")
	guiCmd.Flags().BoolVar(&paused, "paused", false, "start paused")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "print one rendered frame",
		RunE:  showFrame,
	}
	frameCmd.Flags().BoolVar(&asJSON, "json", false, "write the frame as JSON")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "render one frame as text, .png or .svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width in cells (text only)")
	snapshotCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height in cells (text only)")
	snapshotCmd.Flags().BoolVar(&labels, "labels", false, "label sensors")
	snapshotCmd.Flags().BoolVar(&wire, "wire", false, "draw quads as wireframe")
	snapshotCmd.Flags().BoolVar(&noColor, "no-color", false, "plain text output")
	snapshotCmd.Flags().StringVar(&pickFile, "pick", "", "also write a node pick buffer png")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "export the current frame to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportFrame,
	}

	saveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "store every variable and step as a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  saveRun,
	}
	saveCmd.Flags().BoolVar(&frames, "frames", false, "also write a png per step of the active variable")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "print frames as they animate, without input handling",
		RunE:  play,
	}
	playCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width in cells")
	playCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height in cells")
	playCmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	sensorsCmd := &cobra.Command{
		Use:   "sensors",
		Short: "list sensor locations",
		RunE:  listSensors,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [series]",
		Short: "plot a sensor time series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotSeries,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "also plot the amplitude spectrum")

	historyCmd := &cobra.Command{
		Use:   "history [node]",
		Short: "plot every variable of a node across time steps",
		Args:  cobra.ExactArgs(1),
		RunE:  nodeHistory,
	}
	historyCmd.Flags().IntVar(&historyWidth, "width", 60, "plot width")
	historyCmd.Flags().IntVar(&historyHeight, "height", 10, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(viewCmd, guiCmd, frameCmd, snapshotCmd, exportCmd, saveCmd, listCmd, showCmd,
		playCmd, sensorsCmd, plotCmd, historyCmd, presetsCmd, initCmd)
	return rootCmd
}

// setup resolves the configuration: defaults, then preset, then config file,
// then flags that were set explicitly.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("format") {
		cfg.Source.Format = format
	}
	if flags.Changed("variable") {
		cfg.Render.Variable = variable
	}
	if flags.Changed("range") {
		cfg.Render.RangeMode = rangeMode
	}
	if flags.Changed("width") && canvasFlags(cmd) {
		cfg.View.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") && canvasFlags(cmd) {
		cfg.View.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("labels") {
		cfg.View.Labels, _ = flags.GetBool("labels")
	}
	if sourceDir != "" {
		cfg.Source = cfg.Source.WithBase(sourceDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Log.NewLogger(os.Stderr), nil
}

// canvasFlags reports whether --width and --height size the viewer canvas
// rather than a plot.
func canvasFlags(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "plot", "history":
		return false
	}
	return true
}

// open reads the dataset and loads it into a renderer positioned at --step.
func open(cmd *cobra.Command) (*config.Config, *render.Renderer, *source.Dataset, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	ds, err := source.Open(cfg.Source, log)
	if err != nil {
		return nil, nil, nil, err
	}

	mode, err := render.ParseRangeMode(cfg.Render.RangeMode)
	if err != nil {
		return nil, nil, nil, err
	}
	r := render.New(
		render.WithLogger(log),
		render.WithMargin(cfg.Render.Margin),
		render.WithRangeMode(mode),
		render.WithVariable(cfg.Render.Variable),
	)
	rep, err := ds.Load(r)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Debug("dataset loaded", rep.Attrs()...)

	if step != 0 {
		if err := r.SetTimeStep(step); err != nil {
			return nil, nil, nil, err
		}
	}
	return cfg, r, ds, nil
}

func tick(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Render.Tick * float64(time.Second))
}

func sensorsFor(cfg *config.Config, ds *source.Dataset) []sensor.Sensor {
	if !cfg.View.Sensors {
		return nil
	}
	return ds.Sensors
}
