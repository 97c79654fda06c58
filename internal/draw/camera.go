package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects world positions onto the canvas with a perspective
// projection.
type Camera struct {
	viewProj mgl64.Mat4
	focal    float64 // 1 / tan(fov/2)
	near     float64
	width    float64 // logical canvas size
	height   float64
}

// NewCamera returns a camera at eye looking at target. fovDeg is the
// vertical field of view; width and height are the logical canvas size.
func NewCamera(eye, target, up mgl64.Vec3, fovDeg, near, far, width, height float64) *Camera {
	fov := mgl64.DegToRad(fovDeg)
	proj := mgl64.Perspective(fov, width/height, near, far)
	view := mgl64.LookAtV(eye, target, up)
	return &Camera{
		viewProj: proj.Mul4(view),
		focal:    1 / math.Tan(fov/2),
		near:     near,
		width:    width,
		height:   height,
	}
}

// Project maps p to logical canvas coordinates. ok is false for points
// behind the near plane. depth is the clip-space w, i.e. the distance along
// the view axis.
func (c *Camera) Project(p mgl64.Vec3) (pt Point, depth float64, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < c.near {
		return Point{}, 0, false
	}
	x := clip.X() / w
	y := clip.Y() / w
	return Point{
		X: (x + 1) / 2 * c.width,
		Y: (1 - y) / 2 * c.height,
	}, w, true
}

// ScaleAt returns the on-canvas size of a world length seen at depth.
func (c *Camera) ScaleAt(length, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return length * c.focal / depth * c.height / 2
}

// Visible reports whether pt lies on the canvas, allowing margin.
func (c *Camera) Visible(pt Point, margin float64) bool {
	return pt.X >= -margin && pt.X <= c.width+margin && pt.Y >= -margin && pt.Y <= c.height+margin
}
