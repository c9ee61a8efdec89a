package material

import (
	"math/rand"

	"lumen/contact"
	"lumen/ray"
	"lumen/rgb"
)

// Light emits a constant color.  Emission may exceed 1.
type Light struct {
	Emission rgb.Color
}

func (l Light) Name() string { return "light" }
func (l Light) sealed()      {}

func (l Light) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	return l.Emission
}

// GradientSky blends from Bottom at the horizon to Top straight up, by the z
// component of the incoming direction.  Below the horizon it is Bottom.
type GradientSky struct {
	Bottom, Top rgb.Color
}

func DefaultSky() GradientSky {
	return GradientSky{
		Bottom: rgb.White,
		Top:    rgb.FromRGBA8(128, 179, 255),
	}
}

func (g GradientSky) Name() string { return "gradient-sky" }
func (g GradientSky) sealed()      {}

func (g GradientSky) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	z := c.R.Slope[2]
	if z < 0 {
		return g.Bottom
	}
	return rgb.Lerp(g.Bottom, g.Top, z)
}

// Ground is a flat constant color.
type Ground struct {
	Color rgb.Color
}

func DefaultGround() Ground {
	return Ground{Color: rgb.FromRGBA8(150, 193, 88)}
}

func (g Ground) Name() string { return "ground" }
func (g Ground) sealed()      {}

func (g Ground) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	return g.Color
}

// Normals colors the surface by its outward normal, mapping each component
// from [-1, 1] to [0, 1].  Useful for checking geometry.
type Normals struct{}

func (Normals) Name() string { return "normals" }
func (Normals) sealed()      {}

func (Normals) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	return rgb.Color{
		R: (c.N[0] + 1) / 2,
		G: (c.N[1] + 1) / 2,
		B: (c.N[2] + 1) / 2,
	}
}
