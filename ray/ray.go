package ray

import "lumen/vmath/vec3"

// Ray is a half line.  Slope must be unit length whenever the ray is handed to
// the tracer; materials take cosines straight from dot products with it.
type Ray struct {
	Point vec3.T
	Slope vec3.T
}

func (r *Ray) Eval(t float64) vec3.T {
	return vec3.T{
		r.Point[0] + t*r.Slope[0],
		r.Point[1] + t*r.Slope[1],
		r.Point[2] + t*r.Slope[2],
	}
}

// Context is the per-path tracing state.  Use a fresh zero value for every
// primary ray and never share one between paths.
type Context struct {
	// Bounces counts tracer entries along this path so far.
	Bounces int
}
