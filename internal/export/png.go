package export

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/viz"
)

func monoFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// DrawFrame rasterizes a frame into a new gg context.
func DrawFrame(f *render.Frame, cam *viz.Camera, o Options) (*gg.Context, error) {
	if f == nil || cam == nil {
		return nil, render.ErrNotLoaded
	}
	o = o.withDefaults()

	dc := gg.NewContext(o.Width, o.Height)
	dc.SetHexColor(o.Background)
	dc.Clear()

	face, err := monoFace(13)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	for _, s := range project(f, cam, o) {
		setRGB(dc, s.color)
		switch s.kind {
		case shapeQuad:
			dc.MoveTo(s.pts[0][0], s.pts[0][1])
			for _, p := range s.pts[1:] {
				dc.LineTo(p[0], p[1])
			}
			dc.ClosePath()
			dc.FillPreserve()
			dc.SetLineWidth(0.5)
			dc.Stroke()
		case shapeSegment:
			dc.SetLineWidth(o.LineWidth)
			dc.DrawLine(s.pts[0][0], s.pts[0][1], s.pts[1][0], s.pts[1][1])
			dc.Stroke()
		case shapeSensor:
			dc.DrawCircle(s.pts[0][0], s.pts[0][1], 5)
			dc.FillPreserve()
			dc.SetRGB(1, 1, 1)
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.DrawString(s.label, s.pts[0][0]+8, s.pts[0][1]+4)
		}
	}

	if o.Title != "" {
		dc.SetRGB(1, 1, 1)
		dc.DrawString(o.Title, 16, 24)
	}
	if o.Legend {
		drawPNGLegend(dc, f, o)
	}
	return dc, nil
}

func setRGB(dc *gg.Context, c colormap.RGB) { dc.SetRGB(c.R, c.G, c.B) }

func drawPNGLegend(dc *gg.Context, f *render.Frame, o Options) {
	const barW, barH = 24.0, 200.0
	x, y := float64(o.Width)-barW-80, float64(o.Height)/2-barH/2

	for i := 0; i < int(barH); i++ {
		setRGB(dc, colormap.Ramp(1-float64(i)/barH))
		dc.DrawRectangle(x, y+float64(i), barW, 1)
		dc.Fill()
	}
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, barW, barH)
	dc.Stroke()

	for _, t := range colormap.Legend(f.Range.Min, f.Range.Max, 5) {
		ty := y + barH - colormap.Normalize(t.Value, f.Range.Min, f.Range.Max)*barH
		dc.DrawString(fmt.Sprintf("%.4g", t.Value), x+barW+6, ty+4)
	}
	dc.DrawString(fmt.Sprintf("%s t=%d", f.Variable, f.Step+1), x, y-12)
}

func WritePNG(path string, f *render.Frame, cam *viz.Camera, o Options) error {
	dc, err := DrawFrame(f, cam, o)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func EncodePNG(w io.Writer, f *render.Frame, cam *viz.Camera, o Options) error {
	dc, err := DrawFrame(f, cam, o)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// PickRadius is the radius in pixels of each node disc in a pick buffer.
const PickRadius = 4.0

// PickBuffer draws every node as a disc filled with its pick color on black.
// Nothing is antialiased away: each covered pixel decodes to exactly one
// node index. Nearer nodes win where discs overlap.
func PickBuffer(f *render.Frame, cam *viz.Camera, width, height int) (image.Image, error) {
	if f == nil || cam == nil {
		return nil, render.ErrNotLoaded
	}
	if len(f.Points) > render.MaxPickable {
		return nil, fmt.Errorf("export: %d nodes exceed the pick color space", len(f.Points))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = -1e300
	}
	for i, p := range f.Points {
		x, y, d, ok := cam.ProjectF(p.Pos, width, height)
		if !ok {
			continue
		}
		col := render.PickColor(i)
		for py := int(y - PickRadius); py <= int(y+PickRadius); py++ {
			for px := int(x - PickRadius); px <= int(x+PickRadius); px++ {
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				dx, dy := float64(px)-x, float64(py)-y
				if dx*dx+dy*dy > PickRadius*PickRadius || d < depth[py*width+px] {
					continue
				}
				depth[py*width+px] = d
				img.SetRGBA(px, py, col)
			}
		}
	}
	return img, nil
}

// PickAt decodes the node under pixel (x, y) of a pick buffer.
func PickAt(buf image.Image, f *render.Frame, x, y int) (render.Point, bool) {
	if buf == nil || f == nil || !image.Pt(x, y).In(buf.Bounds()) {
		return render.Point{}, false
	}
	c := color.RGBAModel.Convert(buf.At(x, y)).(color.RGBA)
	idx, ok := render.DecodePickColor(c)
	if !ok || idx >= len(f.Points) {
		return render.Point{}, false
	}
	return f.Points[idx], true
}
