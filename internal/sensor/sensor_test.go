package sensor

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"Accelerometer 1", KindAccelerometer},
		{"ACCELEROMETER", KindAccelerometer},
		{"Strain Gauge 12", KindStrainGauge},
		{"camera north", KindCamera},
		{"Displacement sensor", KindDisplacement},
		{"Thermometer", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestKindColor(t *testing.T) {
	assert.Equal(t, colormap.Red, KindAccelerometer.Color())
	assert.Equal(t, colormap.Green, KindStrainGauge.Color())
	assert.Equal(t, Orange, KindCamera.Color())
	assert.Equal(t, Gray, KindUnknown.Color())
}

func TestParse(t *testing.T) {
	s, err := Parse([]string{"Accelerometer 2", "mid span", "deck", "1.5", "-2", "0.25", "Red"}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindAccelerometer, s.Kind)
	assert.Equal(t, mesh.Vec3{X: 1.5, Y: -2, Z: 0.25}, s.Pos)
	assert.Equal(t, "deck", s.Location)

	comma := func(v string) (float64, error) {
		return strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	}
	s, err = Parse([]string{"Strain Gauge 1", "", "", "1,5", "2", "3"}, comma)
	require.NoError(t, err)
	assert.Equal(t, 1.5, s.Pos.X)

	_, err = Parse([]string{"Accelerometer"}, nil)
	assert.ErrorIs(t, err, ErrShortRecord)

	_, err = Parse([]string{"Barometer", "", "", "0", "0", "0"}, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Parse([]string{"Camera 1", "", "", "x", "0", "0"}, nil)
	assert.ErrorIs(t, err, ErrBadCoordinate)

	_, err = Parse([]string{"Camera 1", "", "", "0", "inf", "0"}, nil)
	assert.ErrorIs(t, err, ErrBadCoordinate)
}

func TestParseFloatRejectsNonFinite(t *testing.T) {
	v, err := ParseFloat(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	for _, s := range []string{"inf", "-Inf", "NaN"} {
		_, err := ParseFloat(s)
		assert.ErrorIs(t, err, ErrNotFinite, s)
	}
}

func TestGroup(t *testing.T) {
	g := Group([]Sensor{
		{Name: "a", Kind: KindCamera},
		{Name: "b", Kind: KindAccelerometer},
		{Name: "c", Kind: KindCamera},
	})
	require.Len(t, g[KindCamera], 2)
	assert.Equal(t, "c", g[KindCamera][1].Name)
	assert.Len(t, g[KindAccelerometer], 1)
}
