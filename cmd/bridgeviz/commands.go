package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bridgeviz/internal/config"
	"github.com/san-kum/bridgeviz/internal/export"
	"github.com/san-kum/bridgeviz/internal/gui"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
	"github.com/san-kum/bridgeviz/internal/source"
	"github.com/san-kum/bridgeviz/internal/storage"
	"github.com/san-kum/bridgeviz/internal/viz"
)

func runView(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	return viz.Run(r, viz.Options{
		Interval: tick(cfg),
		Theme:    cfg.View.Theme,
		Width:    cfg.View.Width,
		Height:   cfg.View.Height,
		Yaw:      cfg.View.Yaw,
		Pitch:    cfg.View.Pitch,
		Zoom:     cfg.View.Zoom,
		Sensors:  sensorsFor(cfg, ds),
		Labels:   cfg.View.Labels,
		Paused:   paused,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	return gui.Run(r, gui.Options{
		Interval: tick(cfg),
		Sensors:  sensorsFor(cfg, ds),
		Wire:     wire,
		Paused:   paused,
		Log:      cfg.Log.NewLogger(os.Stderr),
	})
}

func camera(cfg *config.Config, r *render.Renderer) *viz.Camera {
	cam := viz.NewCamera()
	if g := r.Geometry(); g != nil {
		cam.Fit(g.Bounds())
	}
	cam.Yaw, cam.Pitch, cam.Zoom = cfg.View.Yaw, cfg.View.Pitch, cfg.View.Zoom
	return cam
}

func showFrame(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	f := r.Frame()
	if asJSON {
		return export.WriteJSON(os.Stdout, f, sensorsFor(cfg, ds))
	}

	fmt.Printf("variable: %s (%s)\n", f.Variable, strings.Join(r.Variables(), ", "))
	fmt.Printf("step:     %d of %d\n", f.Step, f.Steps)
	fmt.Printf("range:    [%.6g, %.6g] (%s)\n", f.Range.Min, f.Range.Max, cfg.Render.RangeMode)
	fmt.Printf("nodes: %d  edges: %d  quads: %d\n\n", len(f.Points), len(f.Segments), len(f.Quads))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tVALUE\tCOLOR")
	for _, p := range f.Points {
		fmt.Fprintf(w, "node\t%d\t%.6g\t%s\n", p.Node, p.Value, p.Color.Hex())
	}
	for _, s := range f.Segments {
		fmt.Fprintf(w, "edge\t%d\t%.6g\t%s\n", s.Element, s.Value, s.Color.Hex())
	}
	for _, q := range f.Quads {
		fmt.Fprintf(w, "quad\t%d\t%.6g\t%s\n", q.Element, q.Value, q.Color.Hex())
	}
	return w.Flush()
}

func imageOptions(cfg *config.Config, r *render.Renderer, sensors []sensor.Sensor) export.Options {
	f := r.Frame()
	return export.Options{
		Width:   int(float64(export.DefaultWidth) * cfg.View.PNGScale),
		Height:  int(float64(export.DefaultHeight) * cfg.View.PNGScale),
		Sensors: sensors,
		Legend:  true,
		Title:   fmt.Sprintf("%s  step %d/%d", f.Variable, f.Step+1, f.Steps),
	}
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	f := r.Frame()
	cam := camera(cfg, r)
	sensors := sensorsFor(cfg, ds)

	if pickFile != "" {
		o := imageOptions(cfg, r, nil)
		buf, err := export.PickBuffer(f, cam, o.Width, o.Height)
		if err != nil {
			return err
		}
		file, err := os.Create(pickFile)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := png.Encode(file, buf); err != nil {
			return err
		}
	}

	if len(args) == 0 {
		sc := viz.Scene{Sensors: sensors, Labels: cfg.View.Labels, Wire: wire}
		fmt.Println(viz.Snapshot(f, cam, sc, cfg.View.Width, cfg.View.Height, !noColor))
		return nil
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = export.WritePNG(path, f, cam, imageOptions(cfg, r, sensors))
	case ".svg":
		err = os.WriteFile(path, []byte(export.FrameToSVG(f, cam, imageOptions(cfg, r, sensors))), 0644)
	case ".txt":
		sc := viz.Scene{Sensors: sensors, Labels: cfg.View.Labels, Wire: wire}
		err = os.WriteFile(path, []byte(viz.Snapshot(f, cam, sc, cfg.View.Width, cfg.View.Height, false)), 0644)
	default:
		return fmt.Errorf("unsupported snapshot format: %s (use .png, .svg or .txt)", path)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportFrame(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	if err := export.ExportJSON(args[0], r.Frame(), sensorsFor(cfg, ds)); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}

func saveRun(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	name := cfg.Source.Format
	if name == "" {
		name = source.FormatExcel
	}
	if len(args) > 0 {
		name = args[0]
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg.Source.Format, r)
	if err != nil {
		return err
	}

	if frames {
		cam := camera(cfg, r)
		for t := range r.Steps() {
			if err := r.SetTimeStep(t); err != nil {
				return err
			}
			path := filepath.Join(st.Dir(runID), fmt.Sprintf("%s_%03d.png", r.Variable(), t))
			if err := export.WritePNG(path, r.Frame(), cam, imageOptions(cfg, r, sensorsFor(cfg, ds))); err != nil {
				return err
			}
		}
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("variables: %s\n", strings.Join(r.Variables(), ", "))
	fmt.Printf("steps: %d\n", r.Steps())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tTIME\tVARIABLES\tSTEPS\tNODES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Variables),
			run.Steps,
			run.Nodes,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	values, err := st.LoadValues(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("nodes: %d  edges: %d  quads: %d  values: %d\n\n", meta.Nodes, meta.Edges, meta.Quads, len(values))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIABLE\tSTEP\tMIN\tMAX")
	for _, v := range meta.Variables {
		for t, rg := range meta.Ranges[v] {
			fmt.Fprintf(w, "%s\t%d\t%.6g\t%.6g\n", v, t, rg.Min, rg.Max)
		}
	}
	return w.Flush()
}

func play(cmd *cobra.Command, args []string) error {
	cfg, r, ds, err := open(cmd)
	if err != nil {
		return err
	}
	cam := camera(cfg, r)
	sc := viz.Scene{Sensors: sensorsFor(cfg, ds), Labels: cfg.View.Labels}

	r.Observe(render.ObserverFunc(func(f *render.Frame) {
		fmt.Print("\x1b[H\x1b[2J")
		fmt.Println(viz.Snapshot(f, cam, sc, cfg.View.Width, cfg.View.Height, true))
		fmt.Printf("%s  step %d/%d  [%.4g, %.4g]\n", f.Variable, f.Step+1, f.Steps, f.Range.Min, f.Range.Max)
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	err = render.NewAnimator(r).Run(ctx, tick(cfg))
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func listSensors(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	ds, err := source.Open(cfg.Source, cfg.Log.NewLogger(os.Stderr))
	if err != nil {
		return err
	}
	if len(ds.Sensors) == 0 {
		fmt.Println("no sensors found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tLOCATION\tX\tY\tZ")
	for _, s := range ds.Sensors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\t%.3f\n", s.Name, s.Kind, s.Location, s.Pos.X, s.Pos.Y, s.Pos.Z)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	groups := sensor.Group(ds.Sensors)
	kinds := make([]sensor.Kind, 0, len(groups))
	for k := range groups {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	fmt.Println()
	for _, k := range kinds {
		fmt.Printf("  %s: %d\n", k, len(groups[k]))
	}
	return nil
}

func plotSeries(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	ds, err := source.Open(cfg.Source, cfg.Log.NewLogger(os.Stderr))
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(ds.Series) == 0 {
			fmt.Println("no sensor series found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERIES\tSAMPLES\tMIN\tMAX\tMEAN\tRMS")
		for _, s := range ds.Series {
			st := s.Stats()
			fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\n", s.Name, s.Len(), st.Min, st.Max, st.Mean, st.RMS)
		}
		return w.Flush()
	}

	s, ok := sensor.Find(ds.Series, args[0])
	if !ok {
		return fmt.Errorf("unknown series: %s", args[0])
	}
	fmt.Println(sensor.Plot(s, plotWidth, plotHeight))
	if !spectrum {
		return nil
	}

	sp, err := s.Spectrum()
	if err != nil {
		return err
	}
	freq, amp := sp.Dominant()
	fmt.Println()
	fmt.Println(sensor.PlotMany(fmt.Sprintf("%s amplitude spectrum, %.4g samples/s", s.Name, sp.Rate), plotWidth, plotHeight, sp.Amplitude))
	fmt.Printf("dominant frequency: %.4g (amplitude %.4g)\n", freq, amp)
	return nil
}

func nodeHistory(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid node id %q: %w", args[0], err)
	}
	_, r, _, err := open(cmd)
	if err != nil {
		return err
	}
	hist, err := r.History(id)
	if err != nil {
		return err
	}

	for _, s := range hist {
		fmt.Println(sensor.PlotMany(fmt.Sprintf("node %d %s", id, s.Variable), historyWidth, historyHeight, s.Values))
		fmt.Println()
	}
	return nil
}
