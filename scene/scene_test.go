package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"lumen/material"
	"lumen/ray"
	"lumen/rgb"
	"lumen/vmath/vec3"
)

func TestCapacity(t *testing.T) {
	s := New(WithCapacity(3))
	for i := 0; i < 3; i++ {
		sp := Sphere{Center: vec3.T{float64(i), 0, 0}, Radius: 1, Material: material.Matte{}}
		if err := s.AddSphere(sp); err != nil {
			t.Fatalf("AddSphere(%d): %v", i, err)
		}
	}

	err := s.AddSphere(Sphere{Center: vec3.T{99, 0, 0}, Radius: 1, Material: material.Matte{}})
	if !errors.Is(err, ErrFull) {
		t.Fatalf("AddSphere beyond capacity: got %v, want ErrFull", err)
	}
	var full *FullError
	if !errors.As(err, &full) || full.Capacity != 3 {
		t.Errorf("AddSphere beyond capacity: got %v, want *FullError with capacity 3", err)
	}

	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if got := s.Sphere(i).Center; got != (vec3.T{float64(i), 0, 0}) {
			t.Errorf("Sphere(%d).Center = %v after overflow", i, got)
		}
	}
}

func TestDefaults(t *testing.T) {
	s := New()
	if s.Capacity() != 20 || s.MaxBounces() != 20 || s.MinDistance() != 0.001 {
		t.Errorf("New() = capacity %d, max bounces %d, min distance %v", s.Capacity(), s.MaxBounces(), s.MinDistance())
	}
}

func TestIntersectPicksNearest(t *testing.T) {
	s := New()
	s.AddSphere(Sphere{Center: vec3.T{0, 20, 0}, Radius: 1, Material: material.Matte{}})
	s.AddSphere(Sphere{Center: vec3.T{0, 10, 0}, Radius: 1, Material: material.Matte{}})
	s.AddSphere(Sphere{Center: vec3.T{5, 10, 0}, Radius: 1, Material: material.Matte{}})

	c, i := s.Intersect(ray.Ray{Slope: vec3.T{0, 1, 0}})
	if i != 1 {
		t.Fatalf("Intersect hit sphere %d, want 1", i)
	}
	want := vec3.T{0, 9, 0}
	if diff := cmp.Diff(c.P, want, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Bad contact point; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(c.N, vec3.T{0, -1, 0}, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Bad contact normal; diff (-got +want)\n%s", diff)
	}

	if _, i := s.Intersect(ray.Ray{Slope: vec3.T{0, -1, 0}}); i != -1 {
		t.Errorf("Intersect looking away hit sphere %d", i)
	}
}

func TestEmptySceneMisses(t *testing.T) {
	s := New()
	rc := &ray.Context{}
	if _, ok := s.Trace(rc, ray.Ray{Slope: vec3.T{0, 1, 0}}, rand.New(rand.NewSource(1))); ok {
		t.Errorf("Trace in an empty scene reported a hit")
	}
}

func TestBounceLimitBetweenMirrors(t *testing.T) {
	s := New()
	s.AddSphere(Sphere{Center: vec3.T{0, 10, 0}, Radius: 5, Material: material.Metal{}, Color: rgb.White})
	s.AddSphere(Sphere{Center: vec3.T{0, -10, 0}, Radius: 5, Material: material.Metal{}, Color: rgb.White})

	rc := &ray.Context{}
	got, ok := s.Trace(rc, ray.Ray{Slope: vec3.T{0, 1, 0}}, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatalf("Primary ray reported a miss")
	}
	if got != rgb.Black {
		t.Errorf("Light-free mirror box produced %v, want black", got)
	}
	if rc.Bounces != DefaultMaxBounces {
		t.Errorf("Path stopped after %d bounces, want %d", rc.Bounces, DefaultMaxBounces)
	}

	if _, ok := s.Trace(rc, ray.Ray{Slope: vec3.T{0, 1, 0}}, rand.New(rand.NewSource(1))); ok {
		t.Errorf("Trace with exhausted bounces reported a hit")
	}
	if rc.Bounces != DefaultMaxBounces {
		t.Errorf("Exhausted trace incremented bounces to %d", rc.Bounces)
	}
}

func TestMaxBouncesOption(t *testing.T) {
	s := New(WithMaxBounces(3))
	s.AddSphere(Sphere{Center: vec3.T{0, 10, 0}, Radius: 5, Material: material.Metal{}, Color: rgb.White})
	s.AddSphere(Sphere{Center: vec3.T{0, -10, 0}, Radius: 5, Material: material.Metal{}, Color: rgb.White})

	rc := &ray.Context{}
	s.Trace(rc, ray.Ray{Slope: vec3.T{0, 1, 0}}, rand.New(rand.NewSource(1)))
	if rc.Bounces != 3 {
		t.Errorf("Path stopped after %d bounces, want 3", rc.Bounces)
	}
}

func TestSingleLight(t *testing.T) {
	s := New()
	s.AddSphere(Sphere{Center: vec3.T{0, 0, 0}, Radius: 10, Material: material.Light{Emission: rgb.White}})

	rng := rand.New(rand.NewSource(1))
	for _, dir := range []vec3.T{{0, 1, 0}, {0, 0, -1}, vec3.Normalize(vec3.T{1, 2, 3})} {
		rc := &ray.Context{}
		got, ok := s.Trace(rc, ray.Ray{Slope: dir}, rng)
		if !ok {
			t.Fatalf("Ray %v inside a light reported a miss", dir)
		}
		if diff := cmp.Diff(got, rgb.White); diff != "" {
			t.Errorf("Ray %v; diff (-got +want)\n%s", dir, diff)
		}
		if rc.Bounces != 1 {
			t.Errorf("Ray %v used %d bounces, want 1", dir, rc.Bounces)
		}
	}
}

func TestMatteInLightEnclosure(t *testing.T) {
	s := New()
	s.AddSphere(Sphere{Center: vec3.T{0, 0, 0}, Radius: 100, Material: material.Light{Emission: rgb.White}})
	s.AddSphere(Sphere{Center: vec3.T{0, 10, 0}, Radius: 2, Material: material.Matte{}, Color: rgb.Color{R: 1}})

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		rc := &ray.Context{}
		got, ok := s.Trace(rc, ray.Ray{Slope: vec3.T{0, 1, 0}}, rng)
		if !ok {
			t.Fatalf("Primary ray reported a miss")
		}
		if got.G != 0 || got.B != 0 || got.R > 1 {
			t.Fatalf("Matte red under white light gave %v", got)
		}
	}
}
