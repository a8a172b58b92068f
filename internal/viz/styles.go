package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/field"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444"))

	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(44)
)

// HeaderStyle underlines a heading in the theme's primary color.
func HeaderStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Muted)
}

// GradientText blends each rune of text from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return text
	}

	var result strings.Builder
	n := max(len(runes)-1, 1)
	for i, c := range runes {
		col := a.BlendRgb(b, float64(i)/float64(n)).Clamped()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// LegendBar draws the color ramp across width cells with the range limits at
// either end.
func LegendBar(r field.Range, width int) string {
	width = max(width, 2)
	var bar strings.Builder
	for _, tick := range colormap.Legend(r.Min, r.Max, width) {
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tick.Color.Hex())).Render("█"))
	}
	lo, hi := fmt.Sprintf("%.4g", r.Min), fmt.Sprintf("%.4g", r.Max)
	gap := max(width-len(lo)-len(hi), 1)
	return bar.String() + "\n" + Subtle.Render(lo+strings.Repeat(" ", gap)+hi)
}

// SparklineChart renders a mini sparkline from values, each bar colored by
// its place in the value range.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	r := field.Span(field.DefaultMargin, values...)

	step := max(len(values)/max(width, 1), 1)
	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		norm := colormap.Normalize(v, r.Min, r.Max)
		idx := min(int(norm*float64(len(chars)-1)+0.5), len(chars)-1)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colormap.Ramp(norm).Hex()))
		result.WriteString(style.Render(string(chars[idx])))
	}
	return result.String()
}

// Separator is a decorative rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
