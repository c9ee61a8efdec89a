package material

import (
	"fmt"
	"math"
	"math/rand"

	"lumen/contact"
	"lumen/ray"
	"lumen/rgb"
	"lumen/sampling"
	"lumen/vmath/vec3"
)

// DiffuseAlgo picks how Matte samples its scatter direction.
type DiffuseAlgo int

const (
	// UnitVectorInUnitSphere adds a normalized point in the unit sphere to the
	// normal.
	UnitVectorInUnitSphere DiffuseAlgo = iota

	// VectorInUnitSphere adds a raw point in the unit sphere to the normal.
	VectorInUnitSphere

	// VectorInHemisphere samples the hemisphere around the normal directly.
	VectorInHemisphere
)

var diffuseAlgoNames = map[DiffuseAlgo]string{
	UnitVectorInUnitSphere: "unit-vector-in-unit-sphere",
	VectorInUnitSphere:     "vector-in-unit-sphere",
	VectorInHemisphere:     "vector-in-hemisphere",
}

func (d DiffuseAlgo) String() string {
	if s, ok := diffuseAlgoNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DiffuseAlgo(%d)", int(d))
}

// ParseDiffuseAlgo is the inverse of DiffuseAlgo.String.
func ParseDiffuseAlgo(s string) (DiffuseAlgo, error) {
	for d, name := range diffuseAlgoNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown diffuse algorithm %q", s)
}

// Matte is a diffuse (Lambertian) surface.
type Matte struct {
	Diffuse DiffuseAlgo
}

func (m Matte) Name() string { return "matte" }
func (m Matte) sealed()      {}

func (m Matte) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	var dir vec3.T
	switch m.Diffuse {
	case VectorInHemisphere:
		dir = vec3.Normalize(sampling.PointInHemisphere(c.N, rng))
	case VectorInUnitSphere:
		dir = vec3.Normalize(vec3.AddVV(c.N, sampling.PointInUnitSphere(rng)))
	default:
		dir = vec3.Normalize(vec3.AddVV(c.N, vec3.Normalize(sampling.PointInUnitSphere(rng))))
	}

	return traceScattered(t, rc, c, albedo, dir, true, rng)
}

// Metal is a mirror whose reflections are blurred by Fuzz.  Fuzz 0 is a
// perfect mirror.
type Metal struct {
	Fuzz float64
}

func (m Metal) Name() string { return "metal" }
func (m Metal) sealed()      {}

func (m Metal) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	dir := mirror(c.R.Slope, c.N, m.Fuzz, rng)
	return traceScattered(t, rc, c, albedo, dir, true, rng)
}

func mirror(in, n vec3.T, fuzz float64, rng *rand.Rand) vec3.T {
	out := vec3.Reflect(in, n)
	if fuzz > 0 {
		out = vec3.Normalize(vec3.AddVV(out, vec3.MulVS(sampling.PointInUnitSphere(rng), fuzz)))
	}
	return out
}

// GlassIndex is the refraction index used by Glass.
const GlassIndex = 1.5

// Dielectric is a clear refracting surface, e.g. glass or water.  It does not
// tint the light passing through it.
type Dielectric struct {
	Index float64
}

func Glass() Dielectric {
	return Dielectric{Index: GlassIndex}
}

func (d Dielectric) Name() string { return "dielectric" }
func (d Dielectric) sealed()      {}

func (d Dielectric) Shade(t Tracer, rc *ray.Context, c contact.Contact, albedo rgb.Color, rng *rand.Rand) rgb.Color {
	in := c.R.Slope

	normal := c.N
	ratio := 1 / d.Index
	cosTheta := -vec3.IProd(in, c.N)
	if vec3.IProd(in, c.N) > 0 {
		// Leaving the sphere.
		normal = vec3.Neg(c.N)
		ratio = d.Index
		cosTheta = -cosTheta
	}
	cosTheta = math.Min(cosTheta, 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	var dir vec3.T
	if ratio*sinTheta > 1 || schlick(cosTheta, ratio) > sampling.Float64Exclusive(rng) {
		dir = mirror(in, normal, 0, rng)
	} else {
		dir = refract(in, normal, ratio, cosTheta)
	}

	return traceScattered(t, rc, c, albedo, dir, false, rng)
}

// schlick approximates the reflectance of the surface.
func schlick(cosTheta, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}

// refract bends the unit vector in through a surface whose unit normal n
// opposes it.
func refract(in, n vec3.T, ratio, cosTheta float64) vec3.T {
	perp := vec3.MulVS(vec3.AddVV(in, vec3.MulVS(n, cosTheta)), ratio)
	par := vec3.MulVS(n, -math.Sqrt(math.Abs(1-perp.NormSquared())))
	return vec3.Normalize(vec3.AddVV(perp, par))
}
