package vec3

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestCrossProductIsAnticommutative(t *testing.T) {
	a := T{1, 2, 3}
	b := T{-4, 0.5, 7}

	if diff := cmp.Diff(CProd(a, b), Neg(CProd(b, a)), approx); diff != "" {
		t.Errorf("CProd(a, b) != -CProd(b, a); diff (-got +want)\n%s", diff)
	}

	if diff := cmp.Diff(CProd(T{1, 0, 0}, T{0, 1, 0}), T{0, 0, 1}); diff != "" {
		t.Errorf("Bad x cross y; diff (-got +want)\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	v := T{3, 4, 12}
	got := Normalize(v)
	if math.Abs(got.Norm()-1) > 1e-12 {
		t.Errorf("Normalize gave length %v, want 1", got.Norm())
	}
	if diff := cmp.Diff(got, T{3.0 / 13, 4.0 / 13, 12.0 / 13}, approx); diff != "" {
		t.Errorf("Bad Normalize; diff (-got +want)\n%s", diff)
	}

	v.Normalize()
	if diff := cmp.Diff(v, got, approx); diff != "" {
		t.Errorf("In-place Normalize disagrees with Normalize; diff (-got +want)\n%s", diff)
	}
}

func TestInPlaceArithmetic(t *testing.T) {
	v := T{1, 1, 1}
	v.Add(T{1, 2, 3})
	v.Sub(T{0.5, 0.5, 0.5})
	if diff := cmp.Diff(v, T{1.5, 2.5, 3.5}); diff != "" {
		t.Errorf("Bad in-place arithmetic; diff (-got +want)\n%s", diff)
	}
}

func TestReflect(t *testing.T) {
	n := T{0, 0, 1}
	in := Normalize(T{1, 0, -1})
	out := Reflect(in, n)

	if diff := cmp.Diff(out, Normalize(T{1, 0, 1}), approx); diff != "" {
		t.Errorf("Bad reflection; diff (-got +want)\n%s", diff)
	}
	if got, want := IProd(out, n), -IProd(in, n); math.Abs(got-want) > 1e-12 {
		t.Errorf("Angle of reflection differs from angle of incidence; got %v, want %v", got, want)
	}
}

func TestMulVV(t *testing.T) {
	if diff := cmp.Diff(MulVV(T{1, 2, 3}, T{0.5, 0, -1}), T{0.5, 0, -3}); diff != "" {
		t.Errorf("Bad elementwise product; diff (-got +want)\n%s", diff)
	}
}
