// Package gui is the raylib window for the bridge model: the colored mesh in
// an orbiting 3D camera with a heads-up panel.
package gui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// Theme colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	pickRadius    = 12
)

// DefaultFont is tried before falling back to raylib's built-in font.
const DefaultFont = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

type Options struct {
	Width, Height int
	Interval      time.Duration
	Sensors       []sensor.Sensor
	Wire          bool
	Paused        bool
	FontPath      string
	Log           *slog.Logger
}

type App struct {
	r    *render.Renderer
	anim *render.Animator
	log  *slog.Logger

	Camera   rl.Camera3D
	Font     rl.Font
	Width    int32
	Height   int32
	Interval time.Duration
	Sensors  []sensor.Sensor
	Wire     bool
	Orbit    bool
	Help     bool

	// view maps world positions into raylib's y-up space.
	view     transform
	floor    float32
	elapsed  time.Duration
	selected int
	history  []render.Series
}

func initWindow(w, h int32) {
	rl.InitWindow(w, h, "bridgeviz")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont(path string) rl.Font {
	if path == "" {
		path = DefaultFont
	}
	if _, err := os.Stat(path); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(path, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp prepares an app for a loaded renderer. The window must already be
// open.
func NewApp(r *render.Renderer, opts Options) *App {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Interval <= 0 {
		opts.Interval = render.DefaultInterval
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	a := &App{
		r:        r,
		anim:     render.NewAnimator(r),
		log:      opts.Log,
		Width:    int32(opts.Width),
		Height:   int32(opts.Height),
		Interval: opts.Interval,
		Sensors:  opts.Sensors,
		Wire:     opts.Wire,
		Font:     loadFont(opts.FontPath),
		selected: -1,
	}
	if opts.Paused {
		a.anim.Pause()
	}

	var b mesh.Bounds
	if g := r.Geometry(); g != nil {
		b = g.Bounds()
	}
	a.view = fit(b)
	a.floor = a.view.apply(b.Min).Y
	a.Camera = rl.NewCamera3D(
		rl.NewVector3(6, 4, 8),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	return a
}

// Run opens the window and blocks until it is closed.
func Run(r *render.Renderer, opts Options) error {
	if !r.Loaded() {
		return render.ErrNotLoaded
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	initWindow(int32(w), int32(h))
	defer rl.CloseWindow()

	app := NewApp(r, opts)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the animation. It returns false when the
// user asks to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	a.elapsed += time.Duration(rl.GetFrameTime() * float32(time.Second))
	if a.elapsed >= a.Interval {
		a.elapsed = 0
		a.report(a.anim.Tick())
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.anim.Toggle()
	case rl.IsKeyPressed(rl.KeyRight), rl.IsKeyPressed(rl.KeyN):
		a.report(a.anim.Step(1))
	case rl.IsKeyPressed(rl.KeyLeft), rl.IsKeyPressed(rl.KeyP):
		a.report(a.anim.Step(-1))
	case rl.IsKeyPressed(rl.KeyV):
		a.report(a.r.NextVariable())
		a.refreshHistory()
	case rl.IsKeyPressed(rl.KeyW):
		a.Wire = !a.Wire
	case rl.IsKeyPressed(rl.KeyO):
		a.Orbit = !a.Orbit
	case rl.IsKeyPressed(rl.KeySlash):
		a.Help = !a.Help
	case rl.IsKeyPressed(rl.KeyEscape):
		a.selected = -1
		a.history = nil
	}

	if a.Orbit {
		rl.UpdateCamera(&a.Camera, rl.CameraOrbital)
	} else if rl.IsMouseButtonDown(rl.MouseRightButton) {
		rl.UpdateCamera(&a.Camera, rl.CameraThirdPerson)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		diff := rl.Vector3Subtract(a.Camera.Target, a.Camera.Position)
		if rl.Vector3Length(diff) > 1 || wheel < 0 {
			dir := rl.Vector3Normalize(diff)
			a.Camera.Position = rl.Vector3Add(a.Camera.Position, rl.Vector3Scale(dir, wheel*0.5))
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		if p, ok := render.PickNearest(a.r.Frame(), a.projector(), float64(m.X), float64(m.Y), pickRadius); ok {
			a.selected = p.Node
			a.refreshHistory()
			a.log.Debug("node picked", slog.Int("node", p.Node), slog.Float64("value", p.Value))
		}
	}
	return true
}

func (a *App) report(err error) {
	if err != nil {
		a.log.Error("step failed", slog.Any("error", err))
	}
}

func (a *App) refreshHistory() {
	if a.selected < 0 {
		return
	}
	h, err := a.r.History(a.selected)
	if err != nil {
		a.log.Warn("history unavailable", slog.Int("node", a.selected), slog.Any("error", err))
		a.history = nil
		return
	}
	a.history = h
}

// projector maps world positions to window pixels through the current camera.
func (a *App) projector() render.Projector {
	return func(p mesh.Vec3) (float64, float64, bool) {
		s := rl.GetWorldToScreen(a.view.apply(p), a.Camera)
		if s.X < 0 || s.Y < 0 || s.X >= float32(a.Width) || s.Y >= float32(a.Height) {
			return 0, 0, false
		}
		return float64(s.X), float64(s.Y), true
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	f := a.r.Frame()
	if f != nil {
		rl.BeginMode3D(a.Camera)
		a.drawGrid(20, 0.5)
		a.drawFrame(f)
		a.drawSensors()
		a.drawSelection(f)
		rl.EndMode3D()
		a.DrawHUD(f)
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD(f *render.Frame) {
	a.drawText("bridgeviz", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s  step %d/%d", f.Variable, f.Step+1, f.Steps), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if a.anim.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, int(a.Width)-130, 30, 16, col)

	a.drawLegend(f.Range, 30, 70)
	if a.selected >= 0 {
		if p, ok := f.Point(a.selected); ok {
			a.drawText(fmt.Sprintf("node %d  %s = %.4g", p.Node, f.Variable, p.Value), 30, int(a.Height)-150, 16, ColAccent)
		}
		a.DrawHistory(30, int(a.Height)-120, 400, 60)
	}

	hint := "[SPACE] PAUSE  [N/P] STEP  [V] VARIABLE  [W] WIRE  [O] ORBIT  [Q] QUIT"
	if a.Help {
		hint = "LMB PICK NODE  RMB DRAG CAMERA  WHEEL ZOOM  [ESC] CLEAR"
	}
	a.drawText(hint, int(a.Width)-640, int(a.Height)-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, int(a.Height)-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawLegend(r field.Range, x, y int) {
	const w, h = 200, 12
	for i := range w {
		t := float64(i) / float64(w-1)
		rl.DrawRectangle(int32(x+i), int32(y), 1, h, toColor(colormap.Ramp(t)))
	}
	a.drawText(fmt.Sprintf("%.3g", r.Min), x, y+h+4, 14, ColText)
	a.drawText(fmt.Sprintf("%.3g", r.Max), x+w-40, y+h+4, 14, ColText)
}
