package geometry

import (
	"math"

	"lumen/ray"
	"lumen/vmath/vec3"
)

// Miss is returned by SphereDistance when there is no usable intersection.
const Miss = -1.0

// SphereDistance returns the distance along r to the sphere, or Miss.
//
// Both roots of |P + tS - C|^2 = radius^2 are computed.  If the far root is
// closer than minDistance the sphere is behind the ray.  Otherwise the near
// root is used when it is at least minDistance away, and the far root
// otherwise, which is the case for rays starting inside the sphere (refracted
// rays, and any ray inside an enclosing sky sphere).  minDistance also keeps a
// scattered ray from re-hitting the surface it left.
func SphereDistance(r ray.Ray, center vec3.T, radius, minDistance float64) float64 {
	oc := vec3.SubVV(r.Point, center)

	a := vec3.IProd(r.Slope, r.Slope)
	b := 2 * vec3.IProd(r.Slope, oc)
	c := vec3.IProd(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return Miss
	}

	sqrtD := math.Sqrt(discriminant)
	far := (-b + sqrtD) / (2 * a)
	if far < minDistance {
		return Miss
	}

	near := (-b - sqrtD) / (2 * a)
	if near >= minDistance {
		return near
	}
	return far
}

// SphereNormal is the outward unit normal of the sphere centered at center,
// at surface point p.
func SphereNormal(center, p vec3.T) vec3.T {
	return vec3.Normalize(vec3.SubVV(p, center))
}
