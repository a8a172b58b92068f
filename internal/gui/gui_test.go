package gui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
)

func TestTransform(t *testing.T) {
	tr := fit(mesh.Bounds{Min: mesh.Vec3{X: 0, Y: 0, Z: 0}, Max: mesh.Vec3{X: 20, Y: 0, Z: 0}})
	assert.InDelta(t, 0.5, tr.scale, 1e-12)

	v := tr.apply(mesh.Vec3{X: 20, Y: 2, Z: 4})
	assert.Equal(t, rl.NewVector3(5, 2, -1), v, "z up becomes y up")

	assert.Equal(t, 1.0, fit(mesh.Bounds{}).scale)
}

func TestLinePoints(t *testing.T) {
	pts := linePoints([]float64{0, 5, 10}, 10, 20, 100, 50)
	require.Len(t, pts, 3)
	assert.Equal(t, rl.NewVector2(10, 70), pts[0])
	assert.Equal(t, rl.NewVector2(60, 45), pts[1])
	assert.Equal(t, rl.NewVector2(110, 20), pts[2])

	flat := linePoints([]float64{3, 3}, 0, 0, 10, 10)
	assert.Equal(t, float32(10), flat[0].Y)
	assert.Nil(t, linePoints(nil, 0, 0, 10, 10))
}

func TestToColor(t *testing.T) {
	assert.Equal(t, rl.NewColor(255, 0, 0, 255), toColor(colormap.Red))
}
