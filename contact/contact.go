package contact

import (
	"lumen/ray"
	"lumen/vmath/vec3"
)

// Contact records where a ray struck a sphere.
type Contact struct {
	// Distance along R to P.
	T float64

	// The incoming ray, with unit slope.
	R ray.Ray

	P vec3.T

	// Outward unit normal of the struck sphere at P.  Not flipped toward the
	// ray; materials that care about inside hits do that themselves.
	N vec3.T
}
