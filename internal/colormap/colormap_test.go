package colormap

import (
	"image/color"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func inUnit(c RGB) bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func TestColorForEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{"unit", 0, 1},
		{"negative", -20, -3},
		{"wide", -1e6, 1e6},
		{"tiny", 1, 1 + 1e-9},
		{"near float limits", -1e308, 1e308},
		{"max float", -math.MaxFloat64, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Blue, ColorFor(tt.min, tt.min, tt.max))
			assert.Equal(t, Red, ColorFor(tt.max, tt.min, tt.max))
		})
	}
}

func TestRampStops(t *testing.T) {
	for i, want := range Stops {
		got := Ramp(float64(i) / 4)
		assert.InDelta(t, want.R, got.R, 1e-12, "stop %d", i)
		assert.InDelta(t, want.G, got.G, 1e-12, "stop %d", i)
		assert.InDelta(t, want.B, got.B, 1e-12, "stop %d", i)
	}
}

func TestColorForClampsAndDegenerate(t *testing.T) {
	assert.Equal(t, Blue, ColorFor(-5, 0, 10))
	assert.Equal(t, Red, ColorFor(50, 0, 10))
	assert.Equal(t, Blue, ColorFor(3, 3, 3))
	assert.Equal(t, Blue, ColorFor(3, 4, 2))
	assert.Equal(t, Blue, ColorFor(math.NaN(), 0, 1))
	assert.Equal(t, Red, ColorFor(math.Inf(1), 0, 1))
	assert.Equal(t, Blue, ColorFor(math.Inf(-1), 0, 1))
	assert.Equal(t, Blue, ColorFor(1, math.Inf(-1), math.Inf(1)))
}

func TestColorForExtremeRange(t *testing.T) {
	assert.Equal(t, Green, ColorFor(0, -1e308, 1e308))
	assert.Equal(t, Red, ColorFor(1e308, -1e308, 1e308))

	c := ColorFor(0.25e308, -1e308, 1e308)
	for _, ch := range []float64{c.R, c.G, c.B} {
		assert.False(t, math.IsNaN(ch))
		assert.GreaterOrEqual(t, ch, 0.0)
		assert.LessOrEqual(t, ch, 1.0)
	}
}

func TestColorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("components stay in [0,1]", prop.ForAll(
		func(lo, span, frac float64) bool {
			hi := lo + span
			return inUnit(ColorFor(lo+frac*span, lo, hi))
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(1e-6, 1e6),
		gen.Float64Range(0, 1),
	))

	properties.Property("channels change no faster than the ramp slope", prop.ForAll(
		func(t1, dt float64) bool {
			t2 := math.Min(1, t1+dt)
			a, b := Ramp(t1), Ramp(t2)
			bound := MaxSlope*(t2-t1) + 1e-9
			return math.Abs(a.R-b.R) <= bound &&
				math.Abs(a.G-b.G) <= bound &&
				math.Abs(a.B-b.B) <= bound
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 0.2),
	))

	properties.Property("normalize stays in [0,1]", prop.ForAll(
		func(v, lo, span float64) bool {
			n := Normalize(v, lo, lo+span)
			return n >= 0 && n <= 1
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}

func TestConversions(t *testing.T) {
	assert.Equal(t, "#ff0000", Red.Hex())
	assert.Equal(t, "#00ffff", Cyan.Hex())
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 255, A: 255}, Blue.RGBA())
}

func TestLegend(t *testing.T) {
	ticks := Legend(10, 20, 5)

	assert.Len(t, ticks, 5)
	assert.Equal(t, 10.0, ticks[0].Value)
	assert.Equal(t, 12.5, ticks[1].Value)
	assert.Equal(t, 20.0, ticks[4].Value)
	assert.Equal(t, Blue, ticks[0].Color)
	assert.Equal(t, Red, ticks[4].Color)

	assert.Len(t, Legend(0, 1, 0), 2)
}
