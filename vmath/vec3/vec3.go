// Package vec3 is three-dimensional vector arithmetic.  The same type is used
// for points and directions.
package vec3

import "math"

type T [3]float64

func (v T) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v T) NormSquared() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize returns v scaled to unit length.  v must not be the zero vector.
func Normalize(v T) T {
	l := v.Norm()
	return T{
		v[0] / l,
		v[1] / l,
		v[2] / l,
	}
}

// Normalize scales v to unit length in place.  v must not be the zero vector.
func (v *T) Normalize() {
	l := v.Norm()
	v[0] /= l
	v[1] /= l
	v[2] /= l
}

// Add adds b to v in place.
func (v *T) Add(b T) {
	v[0] += b[0]
	v[1] += b[1]
	v[2] += b[2]
}

// Sub subtracts b from v in place.
func (v *T) Sub(b T) {
	v[0] -= b[0]
	v[1] -= b[1]
	v[2] -= b[2]
}

func AddVV(a, b T) T {
	return T{
		a[0] + b[0],
		a[1] + b[1],
		a[2] + b[2],
	}
}

func SubVV(a, b T) T {
	return T{
		a[0] - b[0],
		a[1] - b[1],
		a[2] - b[2],
	}
}

// MulVV is the elementwise product.
func MulVV(a, b T) T {
	return T{
		a[0] * b[0],
		a[1] * b[1],
		a[2] * b[2],
	}
}

func MulVS(a T, b float64) T {
	return T{
		a[0] * b,
		a[1] * b,
		a[2] * b,
	}
}

func DivVS(a T, b float64) T {
	return T{
		a[0] / b,
		a[1] / b,
		a[2] / b,
	}
}

func Neg(a T) T {
	return T{-a[0], -a[1], -a[2]}
}

func IProd(a, b T) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// CProd is the cross product.  CProd(a, b) == Neg(CProd(b, a)).
func CProd(a, b T) T {
	return T{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Reflect mirrors a about the plane with unit normal n.
func Reflect(a, n T) T {
	return SubVV(a, MulVS(n, 2*IProd(a, n)))
}
