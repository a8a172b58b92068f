package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

const (
	defaultWidth  = 80
	defaultHeight = 28
	panelWidth    = 46
	pickRadius    = 2.0
)

type TickMsg time.Time

// Options configures the terminal viewer.
type Options struct {
	Interval time.Duration
	Theme    string
	// Width and Height are the canvas size in character cells.
	Width, Height int
	Yaw, Pitch    float64
	Zoom          float64
	Sensors       []sensor.Sensor
	Labels        bool
	Paused        bool
}

// Model is the bubbletea model of the viewer. The renderer owns all mesh
// state; the model only holds view state.
type Model struct {
	r        *render.Renderer
	anim     *render.Animator
	cam      *Camera
	canvas   *Canvas
	interval time.Duration
	theme    int
	scene    Scene
	history  []render.Series
	err      error
	showHelp bool
}

func NewModel(r *render.Renderer, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = render.DefaultInterval
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	cam := NewCamera()
	if g := r.Geometry(); g != nil {
		cam.Fit(g.Bounds())
	}
	cam.Yaw, cam.Pitch = opts.Yaw, opts.Pitch
	if opts.Zoom > 0 {
		cam.Zoom = opts.Zoom
	}
	anim := render.NewAnimator(r)
	if opts.Paused {
		anim.Pause()
	}
	return Model{
		r:        r,
		anim:     anim,
		cam:      cam,
		canvas:   NewCanvas(opts.Width, opts.Height),
		interval: opts.Interval,
		theme:    themeIndex(opts.Theme),
		scene:    Scene{Sensors: opts.Sensors, Labels: opts.Labels},
	}
}

// Run starts the viewer and blocks until the user quits.
func Run(r *render.Renderer, opts Options) error {
	p := tea.NewProgram(NewModel(r, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.pick(float64(msg.X-canvasStyle.GetPaddingLeft()), float64(msg.Y))
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-4, 20)
		h := max(msg.Height-1, 8)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		m.err = m.anim.Tick()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.anim.Toggle()
	case "n", "right", "]":
		m.err = m.anim.Step(1)
	case "p", "left", "[":
		m.err = m.anim.Step(-1)
	case "v":
		m.err = m.r.NextVariable()
	case "x":
		m.cam.RotatePitch(0.1)
	case "X":
		m.cam.RotatePitch(-0.1)
	case "y":
		m.cam.RotateYaw(0.1)
	case "Y":
		m.cam.RotateYaw(-0.1)
	case "+", "=":
		m.cam.ZoomIn()
	case "-", "_":
		m.cam.ZoomOut()
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	case "l":
		m.scene.Labels = !m.scene.Labels
	case "w":
		m.scene.Wire = !m.scene.Wire
	case "tab":
		m.selectNext()
	case "esc":
		m.scene.Selected, m.history = 0, nil
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) pick(x, y float64) {
	p, ok := render.PickNearest(m.r.Frame(), m.cam.Projector(m.canvas.Width, m.canvas.Height), x, y, pickRadius)
	if !ok {
		return
	}
	m.selectNode(p.Node)
}

// selectNext walks the node list so nodes can be inspected without a mouse.
func (m *Model) selectNext() {
	f := m.r.Frame()
	if f == nil || len(f.Points) == 0 {
		return
	}
	next := 0
	for i, p := range f.Points {
		if p.Node == m.scene.Selected {
			next = (i + 1) % len(f.Points)
			break
		}
	}
	m.selectNode(f.Points[next].Node)
}

func (m *Model) selectNode(id int) {
	hist, err := m.r.History(id)
	if err != nil {
		m.err = err
		return
	}
	m.scene.Selected, m.history = id, hist
}

// View renders the TUI interface.
func (m Model) View() string {
	f := m.r.Frame()
	m.canvas.Clear()
	RenderFrame(m.canvas, f, m.cam, m.scene)
	canvasView := canvasStyle.Render(m.canvas.Render())

	th := Themes[m.theme]
	var s strings.Builder
	s.WriteString(HeaderStyle(th).Render(GradientText("BRIDGE MONITOR", th.Primary, th.Accent)) + "\n")

	if f == nil {
		s.WriteString(ErrorText.Render("no data loaded") + "\n")
		return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	}

	status := StatusRunning.Render("PLAYING")
	if m.anim.Paused() {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")
	s.WriteString(MetricLabel.Render("Variable") + MetricValue.Render(f.Variable) + "\n")
	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d / %d", f.Step+1, f.Steps)) + "\n")
	s.WriteString(MetricLabel.Render("Nodes") + MetricValue.Render(fmt.Sprint(len(f.Points))) + "\n")
	s.WriteString(MetricLabel.Render("Elements") + MetricValue.Render(fmt.Sprintf("%d edges, %d quads", len(f.Segments), len(f.Quads))) + "\n\n")
	s.WriteString(LegendBar(f.Range, panelWidth-6) + "\n\n")

	if m.scene.Selected != 0 {
		p, _ := f.Point(m.scene.Selected)
		s.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Render(fmt.Sprintf("NODE %d", p.Node)) + "\n")
		s.WriteString(MetricLabel.Render("Position") + MetricValue.Render(fmt.Sprintf("%.2f %.2f %.2f", p.Pos.X, p.Pos.Y, p.Pos.Z)) + "\n")
		s.WriteString(MetricLabel.Render(f.Variable) + MetricValue.Render(fmt.Sprintf("%.4g", p.Value)) + "\n")
		for _, h := range m.history {
			s.WriteString(MetricLabel.Render(h.Variable) + SparklineChart(h.Values, 24) + "\n")
		}
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString(ErrorText.Render(m.err.Error()) + "\n\n")
	}

	s.WriteString(Separator(panelWidth-6) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause N/P:Step V:Variable Q:Quit\nT:Theme L:Labels W:Wire ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume animation   ║
║  N / →    - Next time step           ║
║  P / ←    - Previous time step       ║
║  V        - Next variable            ║
║  x / X    - Tilt view                ║
║  y / Y    - Turn view                ║
║  + / -    - Zoom                     ║
║  Tab      - Select next node         ║
║  Click    - Select node              ║
║  Esc      - Clear selection          ║
║  L        - Toggle sensor labels     ║
║  W        - Toggle wireframe quads   ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Snapshot renders a single frame as text, optionally with colors.
func Snapshot(f *render.Frame, cam *Camera, sc Scene, width, height int, colored bool) string {
	c := NewCanvas(width, height)
	RenderFrame(c, f, cam, sc)
	if colored {
		return c.Render()
	}
	return c.String()
}
