package scene

import (
	"math/rand"

	"lumen/contact"
	"lumen/geometry"
	"lumen/ray"
	"lumen/rgb"
)

// Intersect finds the nearest sphere along r.  It returns -1 when r hits
// nothing.  Ties keep the earliest sphere.
func (s *Scene) Intersect(r ray.Ray) (contact.Contact, int) {
	nearest := -1
	nearestT := 0.0

	for i := range s.spheres {
		sp := &s.spheres[i]
		t := geometry.SphereDistance(r, sp.Center, sp.Radius, s.minDistance)
		if t == geometry.Miss {
			continue
		}
		if nearest == -1 || t < nearestT {
			nearest = i
			nearestT = t
		}
	}

	if nearest == -1 {
		return contact.Contact{}, -1
	}

	p := r.Eval(nearestT)
	return contact.Contact{
		T: nearestT,
		R: r,
		P: p,
		N: geometry.SphereNormal(s.spheres[nearest].Center, p),
	}, nearest
}

// Trace returns the color seen along r.  It reports false when the path has
// used up its bounces or r hits nothing; callers treat both as black.
//
// Every call, including the primary one, counts one bounce against rc.
func (s *Scene) Trace(rc *ray.Context, r ray.Ray, rng *rand.Rand) (rgb.Color, bool) {
	if rc.Bounces >= s.maxBounces {
		return rgb.Color{}, false
	}
	rc.Bounces++

	c, i := s.Intersect(r)
	if i == -1 {
		return rgb.Color{}, false
	}

	sp := &s.spheres[i]
	return sp.Material.Shade(s, rc, c, sp.Color, rng), true
}
