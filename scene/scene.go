// Package scene holds a fixed-capacity list of spheres and traces rays
// through them.
package scene

import (
	"errors"
	"fmt"

	"lumen/material"
	"lumen/rgb"
	"lumen/vmath/vec3"
)

const (
	DefaultCapacity    = 20
	DefaultMaxBounces  = 20
	DefaultMinDistance = 0.001
)

// ErrFull is returned (wrapped in a *FullError) when adding a sphere to a
// scene that is at capacity.
var ErrFull = errors.New("scene is full")

type FullError struct {
	Capacity int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("scene is full (capacity %d)", e.Capacity)
}

func (e *FullError) Unwrap() error {
	return ErrFull
}

type Sphere struct {
	Center   vec3.T
	Radius   float64
	Material material.Material

	// Albedo handed to the material.  Leaf materials ignore it.
	Color rgb.Color
}

// Scene must not be modified once tracing starts.
type Scene struct {
	spheres []Sphere

	capacity    int
	maxBounces  int
	minDistance float64
}

type Option func(*Scene)

// WithCapacity sets the maximum number of spheres.
func WithCapacity(n int) Option {
	return func(s *Scene) {
		s.capacity = n
	}
}

// WithMaxBounces sets the maximum number of Trace calls along one path.
func WithMaxBounces(n int) Option {
	return func(s *Scene) {
		s.maxBounces = n
	}
}

// WithMinDistance sets the distance below which intersections are ignored, so
// that a scattered ray does not hit the surface it left.
func WithMinDistance(d float64) Option {
	return func(s *Scene) {
		s.minDistance = d
	}
}

func New(opts ...Option) *Scene {
	s := &Scene{
		capacity:    DefaultCapacity,
		maxBounces:  DefaultMaxBounces,
		minDistance: DefaultMinDistance,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.spheres = make([]Sphere, 0, s.capacity)
	return s
}

// AddSphere appends sp.  Spheres already in the scene are left untouched when
// the scene is full.
func (s *Scene) AddSphere(sp Sphere) error {
	if len(s.spheres) >= s.capacity {
		return fmt.Errorf("while adding sphere at %v: %w", sp.Center, &FullError{Capacity: s.capacity})
	}
	s.spheres = append(s.spheres, sp)
	return nil
}

func (s *Scene) Len() int {
	return len(s.spheres)
}

func (s *Scene) Sphere(i int) Sphere {
	return s.spheres[i]
}

func (s *Scene) Capacity() int {
	return s.capacity
}

func (s *Scene) MaxBounces() int {
	return s.maxBounces
}

func (s *Scene) MinDistance() float64 {
	return s.minDistance
}
