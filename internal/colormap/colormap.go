// Package colormap maps scalar values onto the fixed blue-cyan-green-yellow-red
// ramp used for every mesh rendering.
package colormap

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB components are in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var (
	Blue   = RGB{0, 0, 1}
	Cyan   = RGB{0, 1, 1}
	Green  = RGB{0, 1, 0}
	Yellow = RGB{1, 1, 0}
	Red    = RGB{1, 0, 0}
)

// Stops are the ramp colors at t = 0, .25, .5, .75 and 1.
var Stops = [5]RGB{Blue, Cyan, Green, Yellow, Red}

// MaxSlope bounds how fast any channel changes per unit of normalized t.
const MaxSlope = 4.0

// Normalize maps value into [0, 1] relative to [min, max]. An empty or
// inverted range normalizes everything to 0. Operands are halved first so
// ranges spanning most of float64 do not overflow.
func Normalize(value, min, max float64) float64 {
	span := max/2 - min/2
	if !(span > 0) || math.IsNaN(value) {
		return 0
	}
	t := (value/2 - min/2) / span
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

// Ramp evaluates the piecewise-linear ramp at t, clamped to [0, 1].
func Ramp(t float64) RGB {
	t = math.Max(0, math.Min(1, t))
	switch {
	case t < 0.25:
		return RGB{0, 4 * t, 1}
	case t < 0.5:
		return RGB{0, 1, 1 - 4*(t-0.25)}
	case t < 0.75:
		return RGB{4 * (t - 0.5), 1, 0}
	default:
		return RGB{1, 1 - 4*(t-0.75), 0}
	}
}

// ColorFor maps value through the ramp using the range [min, max].
func ColorFor(value, min, max float64) RGB {
	return Ramp(Normalize(value, min, max))
}

func (c RGB) Colorful() colorful.Color { return colorful.Color{R: c.R, G: c.G, B: c.B} }

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string { return c.Colorful().Clamped().Hex() }

// RGBA converts to an opaque 8-bit color.
func (c RGB) RGBA() color.RGBA {
	r, g, b := c.Colorful().Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Tick is one labeled entry of a legend.
type Tick struct {
	Value float64
	Color RGB
}

// Legend samples n evenly spaced values from min to max, inclusive.
func Legend(min, max float64, n int) []Tick {
	if n < 2 {
		n = 2
	}
	ticks := make([]Tick, n)
	for i := range ticks {
		v := min + (max-min)*float64(i)/float64(n-1)
		ticks[i] = Tick{Value: v, Color: Ramp(float64(i) / float64(n-1))}
	}
	return ticks
}
