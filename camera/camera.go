// Package camera turns pixel coordinates into primary ray directions.
package camera

import (
	"math"
	"math/rand"

	"lumen/ray"
	"lumen/sampling"
	"lumen/vmath/vec3"
)

// Up is the world up direction.  A camera must not look straight along it.
var Up = vec3.T{0, 0, 1}

// Camera holds the view plane derived from a center ray and a field of view.
// It is immutable while rendering.
type Camera struct {
	Center ray.Ray

	// Horizontal field of view, in degrees.
	HFOV float64

	// Left to right across the whole view plane, and half of it reversed.
	horizontal          vec3.T
	horizontalRightLeft vec3.T

	// Bottom to top across the whole view plane, and half of it reversed.
	vertical         vec3.T
	verticalDownHalf vec3.T

	// Direction from the origin to the bottom left corner of the view plane.
	bottomLeft vec3.T
}

// New is shorthand for a zero Camera followed by Set.
func New(center ray.Ray, hfov float64, rows, cols int) *Camera {
	c := &Camera{}
	c.Set(center, hfov, rows, cols)
	return c
}

// Set configures the camera.  center.Slope must be unit length.  rows and cols
// only contribute the aspect ratio.
func (c *Camera) Set(center ray.Ray, hfov float64, rows, cols int) {
	c.Center = center
	c.HFOV = hfov

	dir := center.Slope
	dirLen := dir.Norm()

	vfov := hfov * float64(rows) / float64(cols)
	planeWidth := 2 * math.Tan(hfov*math.Pi/360) * dirLen
	planeHeight := 2 * math.Tan(vfov*math.Pi/360) * dirLen

	back := vec3.Neg(vec3.Normalize(dir))

	c.horizontal = vec3.MulVS(vec3.Normalize(vec3.CProd(Up, back)), planeWidth)
	c.horizontalRightLeft = vec3.MulVS(c.horizontal, -0.5)

	c.vertical = vec3.MulVS(vec3.Normalize(vec3.CProd(back, c.horizontal)), planeHeight)
	c.verticalDownHalf = vec3.MulVS(c.vertical, -0.5)

	c.bottomLeft = vec3.AddVV(dir, vec3.AddVV(c.verticalDownHalf, c.horizontalRightLeft))
}

// Frame holds per-frame partial ray directions.  Row parts include the bottom
// left corner direction; column parts are offsets only.
type Frame struct {
	origin vec3.T
	rows   []vec3.T
	cols   []vec3.T
}

// FrameInit precomputes the row and column parts for an image of the given
// size.  One row jitter and one column jitter in [0, 1) pixel are drawn for
// the whole frame.
func (c *Camera) FrameInit(rows, cols int, rng *rand.Rand) *Frame {
	jitterV := sampling.Float64Exclusive(rng)
	jitterU := sampling.Float64Exclusive(rng)

	f := &Frame{
		origin: c.Center.Point,
		rows:   make([]vec3.T, rows),
		cols:   make([]vec3.T, cols),
	}

	for v := 0; v < rows; v++ {
		f.rows[v] = vec3.AddVV(c.bottomLeft, vec3.MulVS(c.vertical, (float64(v)+jitterV)/float64(rows)))
	}
	for u := 0; u < cols; u++ {
		f.cols[u] = vec3.MulVS(c.horizontal, (float64(u)+jitterU)/float64(cols))
	}

	return f
}

func (f *Frame) Rows() int {
	return len(f.rows)
}

func (f *Frame) Cols() int {
	return len(f.cols)
}

// RayDirection is the unit direction through column u of row v, where row 0
// is the bottom of the view plane.
func (f *Frame) RayDirection(u, v int) vec3.T {
	return vec3.Normalize(vec3.AddVV(f.rows[v], f.cols[u]))
}

func (f *Frame) Ray(u, v int) ray.Ray {
	return ray.Ray{
		Point: f.origin,
		Slope: f.RayDirection(u, v),
	}
}
