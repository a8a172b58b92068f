package viz

import (
	"math"

	"github.com/san-kum/bridgeviz/internal/mesh"
)

// Camera orbits the model. World z is up; Yaw turns about it and Pitch tilts
// the view down towards the deck.
type Camera struct {
	Center   mesh.Vec3
	Scale    float64
	Yaw      float64
	Pitch    float64
	Zoom     float64
	Distance float64
	Near     float64
}

func NewCamera() *Camera {
	return &Camera{Scale: 1, Zoom: 1, Distance: 3, Near: 0.1}
}

// Fit centers the camera on b and scales it so b spans about one unit.
func (c *Camera) Fit(b mesh.Bounds) {
	c.Center = b.Center()
	if e := b.Extent(); e > 0 {
		c.Scale = 1 / e
	}
}

func (c *Camera) RotateYaw(a float64) { c.Yaw += a }
func (c *Camera) RotatePitch(a float64) {
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+a))
}
func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint maps a world point into view space: x right, y up, z towards
// the viewer.
func (c *Camera) RotatePoint(p mesh.Vec3) mesh.Vec3 {
	p = p.Sub(c.Center).Scale(c.Scale * c.Zoom)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Y = p.X*cy-p.Y*sy, p.X*sy+p.Y*cy
	a := c.Pitch - math.Pi/2
	ca, sa := math.Cos(a), math.Sin(a)
	p.Y, p.Z = p.Y*ca-p.Z*sa, p.Y*sa+p.Z*ca
	return p
}

// ProjectF converts world coordinates to sub-pixel screen coordinates on a
// sw x sh surface. ok is false for points behind the near plane.
func (c *Camera) ProjectF(p mesh.Vec3, sw, sh int) (x, y, depth float64, ok bool) {
	rot := c.RotatePoint(p)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(sw, sh)) * 0.9
	x = rot.X*scale*pScale + float64(sw)/2
	y = -rot.Y*scale*pScale + float64(sh)/2
	return x, y, rot.Z, true
}

// Project is ProjectF rounded to pixels. visible also requires the point to
// land on the surface.
func (c *Camera) Project(p mesh.Vec3, sw, sh int) (int, int, float64, bool) {
	fx, fy, d, ok := c.ProjectF(p, sw, sh)
	if !ok {
		return 0, 0, 0, false
	}
	sx, sy := int(math.Round(fx)), int(math.Round(fy))
	return sx, sy, d, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}
