// Package sampling draws the random numbers and directions the tracer needs.
//
// Every function takes its *rand.Rand explicitly.  Nothing here touches the
// math/rand global source, so a render seeded with the same value is
// reproducible, and independent paths can be given independent streams.
package sampling

import (
	"math/rand"

	"lumen/vmath/vec3"
)

// New returns a source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Stream returns the n-th stream derived from seed.  Streams for different n
// are decorrelated even for adjacent seeds.
func Stream(seed int64, n uint64) *rand.Rand {
	return New(int64(splitmix64(uint64(seed) + n*0x9e3779b97f4a7c15)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Float64Exclusive is uniform in [0, 1).
func Float64Exclusive(rng *rand.Rand) float64 {
	return rng.Float64()
}

// Float64Inclusive is uniform in [0, 1].
func Float64Inclusive(rng *rand.Rand) float64 {
	return float64(rng.Int63n(1<<53+1)) / (1 << 53)
}

// Range is uniform in [min, max).
func Range(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// PointInUnitSphere rejection-samples a point whose length is in (0, 1].
func PointInUnitSphere(rng *rand.Rand) vec3.T {
	for {
		p := vec3.T{
			2*Float64Inclusive(rng) - 1,
			2*Float64Inclusive(rng) - 1,
			2*Float64Inclusive(rng) - 1,
		}
		normSquared := p.NormSquared()
		if normSquared <= 1.0 && normSquared != 0.0 {
			return p
		}
	}
}

// PointInHemisphere samples PointInUnitSphere and flips it into the half space
// that normal points into.
func PointInHemisphere(normal vec3.T, rng *rand.Rand) vec3.T {
	p := PointInUnitSphere(rng)
	if vec3.IProd(p, normal) < 0.0 {
		return vec3.Neg(p)
	}
	return p
}
