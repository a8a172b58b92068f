package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG, one dot per set sub-pixel
// in its cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 || r > 0x28ff {
				continue
			}
			pattern := int(r - 0x2800)
			fill := canvas.Colors[row][col].Hex()

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FrameToSVG draws a frame as vector graphics: filled quads, stroked
// segments, sensor markers and an optional legend.
func FrameToSVG(f *render.Frame, cam *viz.Camera, o Options) string {
	if f == nil || cam == nil {
		return ""
	}
	o = o.withDefaults()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, o.Width, o.Height, o.Width, o.Height, html.EscapeString(o.Background))

	for _, s := range project(f, cam, o) {
		switch s.kind {
		case shapeQuad:
			sb.WriteString(`<polygon points="`)
			for i, p := range s.pts {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(&sb, "%.1f,%.1f", p[0], p[1])
			}
			fmt.Fprintf(&sb, `" fill="%s" stroke="%s" stroke-width="0.5"/>
`, s.color.Hex(), s.color.Hex())
		case shapeSegment:
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>
`, s.pts[0][0], s.pts[0][1], s.pts[1][0], s.pts[1][1], s.color.Hex(), o.LineWidth)
		case shapeSensor:
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="5" fill="%s" stroke="#ffffff"><title>%s</title></circle>
`, s.pts[0][0], s.pts[0][1], s.color.Hex(), html.EscapeString(s.label))
		}
	}

	if o.Title != "" {
		fmt.Fprintf(&sb, `<text x="16" y="28" fill="#ffffff" font-family="monospace" font-size="18">%s</text>
`, html.EscapeString(o.Title))
	}
	if o.Legend {
		writeSVGLegend(&sb, f, o)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeSVGLegend(sb *strings.Builder, f *render.Frame, o Options) {
	const barW, barH = 24.0, 200.0
	x, y := float64(o.Width)-barW-80, float64(o.Height)/2-barH/2

	sb.WriteString(`<defs><linearGradient id="ramp" x1="0" y1="1" x2="0" y2="0">`)
	for i, c := range colormap.Stops {
		fmt.Fprintf(sb, `<stop offset="%.2f" stop-color="%s"/>`, float64(i)/float64(len(colormap.Stops)-1), c.Hex())
	}
	sb.WriteString("</linearGradient></defs>\n")
	fmt.Fprintf(sb, `<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="url(#ramp)" stroke="#ffffff"/>
`, x, y, barW, barH)

	for _, t := range colormap.Legend(f.Range.Min, f.Range.Max, 5) {
		ty := y + barH - colormap.Normalize(t.Value, f.Range.Min, f.Range.Max)*barH
		fmt.Fprintf(sb, `<text x="%.0f" y="%.0f" fill="#ffffff" font-family="monospace" font-size="12">%.4g</text>
`, x+barW+6, ty+4, t.Value)
	}
	fmt.Fprintf(sb, `<text x="%.0f" y="%.0f" fill="#ffffff" font-family="monospace" font-size="14">%s t=%d</text>
`, x, y-12, html.EscapeString(f.Variable), f.Step+1)
}
