package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
	"github.com/san-kum/bridgeviz/internal/viz"
)

func testFrame(t *testing.T) (*render.Frame, *viz.Camera) {
	t.Helper()
	nodes := []mesh.Node{
		{ID: 1, Pos: mesh.Vec3{X: 0}},
		{ID: 2, Pos: mesh.Vec3{X: 1}},
		{ID: 3, Pos: mesh.Vec3{X: 1, Z: 1}},
		{ID: 4, Pos: mesh.Vec3{Z: 1}},
	}
	rows := []mesh.ConnectivityRow{mesh.EdgeRow(1, 1, 2), mesh.QuadRow(2, 1, 2, 3, 4)}
	set, err := field.NewSet(2)
	require.NoError(t, err)
	require.NoError(t, set.Add("U1", field.Field{1: {0, 10}, 2: {0, 20}, 3: {1, 0}, 4: {2, 0}}))

	r := render.New()
	g, err := r.Load(slices.Values(nodes), slices.Values(rows), set)
	require.NoError(t, err)
	require.Equal(t, 4, g.Nodes)

	cam := viz.NewCamera()
	cam.Fit(r.Geometry().Bounds())
	return r.Frame(), cam
}

func TestFrameToSVG(t *testing.T) {
	f, cam := testFrame(t)
	sensors := []sensor.Sensor{{Name: "Accelerometer <1>", Kind: sensor.KindAccelerometer, Pos: mesh.Vec3{X: 0.5}}}

	svg := FrameToSVG(f, cam, Options{Width: 400, Height: 300, Legend: true, Title: "U1", Sensors: sensors})

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 1, strings.Count(svg, "<polygon"))
	assert.Equal(t, 1, strings.Count(svg, "<line "))
	assert.Contains(t, svg, f.Quads[0].Color.Hex())
	assert.Contains(t, svg, "Accelerometer &lt;1&gt;")
	assert.Contains(t, svg, `id="ramp"`)

	assert.Empty(t, FrameToSVG(nil, cam, Options{}))
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0, colormap.Red)
	c.Set(3, 3, colormap.Blue)

	svg := CanvasToSVG(c, 2)
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, colormap.Red.Hex())
	assert.Contains(t, svg, `width="8" height="8"`)
	assert.Empty(t, CanvasToSVG(nil, 1))
}

func TestWritePNG(t *testing.T) {
	f, cam := testFrame(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, WritePNG(path, f, cam, Options{Width: 320, Height: 200, Legend: true, Title: "U1 t=1"}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, f, cam, Options{Width: 64, Height: 64}))
	assert.NotZero(t, buf.Len())

	assert.ErrorIs(t, WritePNG(path, nil, cam, Options{}), render.ErrNotLoaded)
}

func TestPickBuffer(t *testing.T) {
	f, cam := testFrame(t)
	const w, h = 200, 200
	buf, err := PickBuffer(f, cam, w, h)
	require.NoError(t, err)

	for _, p := range f.Points {
		x, y, _, ok := cam.Project(p.Pos, w, h)
		require.True(t, ok)
		got, ok := PickAt(buf, f, x, y)
		require.True(t, ok, "node %d", p.Node)
		assert.Equal(t, p.Node, got.Node)
	}

	_, ok := PickAt(buf, f, 0, 0)
	assert.False(t, ok, "corner is background")
	_, ok = PickAt(buf, f, -1, 5)
	assert.False(t, ok)
}

func TestWriteJSON(t *testing.T) {
	f, _ := testFrame(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, f, []sensor.Sensor{{Name: "Camera 1", Kind: sensor.KindCamera}}))

	var got struct {
		Variable string `json:"variable"`
		Range    struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"range"`
		Points []struct {
			Node int `json:"node"`
		} `json:"points"`
		Sensors []struct {
			Kind string `json:"kind"`
		} `json:"sensors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "U1", got.Variable)
	assert.Equal(t, 0.0, got.Range.Min)
	assert.Equal(t, 2.0, got.Range.Max)
	assert.Len(t, got.Points, 4)
	require.Len(t, got.Sensors, 1)
	assert.Equal(t, "camera", got.Sensors[0].Kind)

	path := filepath.Join(t.TempDir(), "frame.json")
	require.NoError(t, ExportJSON(path, f, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"segments"`)
	assert.NotContains(t, string(data), `"sensors"`)
}
