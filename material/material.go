// Package material implements what happens when a ray strikes a sphere.
//
// Materials are a closed set.  Leaf materials (Light, GradientSky, Ground,
// Normals) return a color without tracing further.  Scattering materials
// (Matte, Metal, Dielectric) pick a new direction and recurse through the
// Tracer they are handed.
package material

import (
	"math/rand"

	"lumen/contact"
	"lumen/ray"
	"lumen/rgb"
	"lumen/vmath/vec3"
)

// Tracer traces a ray through a scene.  It reports false when the ray hit
// nothing or the path ran out of bounces.
type Tracer interface {
	Trace(rc *ray.Context, r ray.Ray, rng *rand.Rand) (rgb.Color, bool)
}

type Material interface {
	// Shade returns the color seen along c.R.  albedo is the struck sphere's
	// color.
	Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color

	// Name is a short identifier, as used in scene files.
	Name() string

	sealed()
}

// traceScattered continues the path from the contact point in direction dir.
// A path that goes nowhere contributes black.  attenuate multiplies the result
// by albedo.
func traceScattered(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, dir vec3.T, attenuate bool, rng *rand.Rand) rgb.Color {
	scattered := ray.Ray{
		Point: c.P,
		Slope: dir,
	}

	color, ok := t.Trace(rc, scattered, rng)
	if !ok {
		return rgb.Black
	}
	if attenuate {
		return color.Mul(albedo)
	}
	return color
}
