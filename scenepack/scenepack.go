// Package scenepack builds ready-to-render scenes, either from the built-in
// presets or from YAML scene files.
package scenepack

import (
	"fmt"
	"math"
	"sort"

	"lumen/camera"
	"lumen/material"
	"lumen/ray"
	"lumen/rgb"
	"lumen/scene"
	"lumen/vmath/vec3"
)

// Preset is a scene together with the viewpoint it was composed for.
type Preset struct {
	Name   string
	Scene  *scene.Scene
	Camera ray.Ray

	// Horizontal field of view, in degrees.
	FOV float64
}

const (
	DefaultPreset = "7-spheres"
	DefaultSky    = "ambient-gray"

	// Radius of the sky spheres, which enclose every preset.
	skyRadius = 20000
)

var (
	colorRed          = rgb.FromRGBA8(255, 0, 0)
	colorGreen        = rgb.FromRGBA8(0, 255, 0)
	colorBlue         = rgb.FromRGBA8(0, 0, 255)
	colorHalfGreen    = rgb.Color{R: 0, G: 0.5, B: 0}
	colorHalfBlue     = rgb.Color{R: 0, G: 0, B: 0.5}
	colorQuarterRed   = rgb.Color{R: 0.25, G: 0, B: 0}
	colorGround       = rgb.FromRGBA8(150, 193, 88)
	colorSky          = rgb.FromRGBA8(162, 204, 228)
	colorLight        = rgb.Color{R: 4, G: 4, B: 4}
	colorAmbientLight = rgb.Color{R: 0.7, G: 0.7, B: 0.7}
)

var (
	// Slightly above the ground, looking slightly down.
	cameraZ15Downwards = ray.Ray{
		Point: vec3.T{0, 0, 15},
		Slope: vec3.Normalize(vec3.T{0, 1, -0.15}),
	}

	// At the origin, looking along +y parallel to the ground.
	cameraZ0 = ray.Ray{
		Point: vec3.T{0, 0, 0},
		Slope: vec3.T{0, 1, 0},
	}
)

// builder adds spheres to a scene, remembering the first error.
type builder struct {
	sc      *scene.Scene
	diffuse material.DiffuseAlgo
	err     error
}

func (b *builder) add(sp scene.Sphere) {
	if b.err != nil {
		return
	}
	b.err = b.sc.AddSphere(sp)
}

func (b *builder) matte(center vec3.T, radius float64, color rgb.Color) {
	b.add(scene.Sphere{Center: center, Radius: radius, Material: material.Matte{Diffuse: b.diffuse}, Color: color})
}

func (b *builder) metal(center vec3.T, radius float64, color rgb.Color, fuzz float64) {
	b.add(scene.Sphere{Center: center, Radius: radius, Material: material.Metal{Fuzz: fuzz}, Color: color})
}

func (b *builder) glass(center vec3.T, radius float64) {
	b.add(scene.Sphere{Center: center, Radius: radius, Material: material.Glass(), Color: rgb.White})
}

func (b *builder) light(center vec3.T, radius float64, emission rgb.Color) {
	b.add(scene.Sphere{Center: center, Radius: radius, Material: material.Light{Emission: emission}})
}

func (b *builder) ground() {
	b.matte(vec3.T{0, 220, -2000}, 2000, colorGround)
}

type presetDef struct {
	camera ray.Ray
	fov    float64
	build  func(b *builder)
}

var presets = map[string]presetDef{
	"7-spheres": {
		camera: cameraZ15Downwards,
		fov:    40,
		build: func(b *builder) {
			b.metal(vec3.T{24, 120, 20}, 10, colorHalfGreen, 0.05)
			b.glass(vec3.T{0, 90, 6}, 10)
			b.metal(vec3.T{-18, 90, 1}, 5, colorHalfBlue, 0)
			b.metal(vec3.T{18, 70, 1}, 6, rgb.White, 0)
			b.glass(vec3.T{-8, 50, -4}, 3)
			b.matte(vec3.T{0, 50, -4}, 3, colorRed)
			b.matte(vec3.T{8, 50, -4}, 3, colorGreen)
			b.light(vec3.T{-15, 75, 20}, 4, colorLight)
			b.ground()
		},
	},
	"6-spheres": {
		camera: cameraZ15Downwards,
		fov:    40,
		build: func(b *builder) {
			b.matte(vec3.T{24, 120, 20}, 10, colorGreen)
			b.matte(vec3.T{0, 90, 6}, 10, colorRed)
			b.matte(vec3.T{-18, 90, 1}, 5, colorBlue)
			b.matte(vec3.T{-8, 50, -4}, 3, colorBlue)
			b.matte(vec3.T{0, 50, -4}, 3, colorRed)
			b.matte(vec3.T{8, 50, -4}, 3, colorGreen)
			b.light(vec3.T{-9, 75, 20}, 4, colorLight)
			b.ground()
		},
	},
	"6-spheres-metal": {
		camera: cameraZ15Downwards,
		fov:    40,
		build: func(b *builder) {
			b.matte(vec3.T{24, 120, 20}, 10, colorHalfGreen)
			b.metal(vec3.T{0, 90, 6}, 10, colorQuarterRed, 0.3)
			b.metal(vec3.T{-18, 90, 1}, 5, colorHalfBlue, 0)
			b.matte(vec3.T{-8, 50, -4}, 3, colorBlue)
			b.matte(vec3.T{0, 50, -4}, 3, colorRed)
			b.matte(vec3.T{8, 50, -4}, 3, colorGreen)
			b.light(vec3.T{-9, 75, 20}, 4, colorLight)
			b.ground()
		},
	},
	"6-spheres-glass": {
		camera: cameraZ15Downwards,
		fov:    40,
		build: func(b *builder) {
			b.matte(vec3.T{24, 120, 20}, 10, colorHalfGreen)
			b.glass(vec3.T{0, 90, 6}, 10)
			b.metal(vec3.T{-18, 90, 1}, 5, colorHalfBlue, 0)
			b.glass(vec3.T{-8, 50, -4}, 3)
			b.matte(vec3.T{0, 50, -4}, 3, colorRed)
			b.matte(vec3.T{8, 50, -4}, 3, colorGreen)
			b.light(vec3.T{-9, 75, 20}, 4, colorLight)
			b.ground()
		},
	},
	"6-spheres-flat": {
		camera: cameraZ0,
		fov:    40,
		build: func(b *builder) {
			b.matte(vec3.T{24, 120, 23}, 10, colorGreen)
			b.matte(vec3.T{0, 90, 6}, 10, colorRed)
			b.matte(vec3.T{-18, 90, 1}, 5, colorBlue)
			b.matte(vec3.T{-8, 32, -6}, 3, colorBlue)
			b.matte(vec3.T{0, 32, -6}, 3, colorRed)
			b.matte(vec3.T{8, 32, -6}, 3, colorGreen)
			b.light(vec3.T{-9, 80, 16}, 3, colorLight)
			b.ground()
		},
	},
	"6-spheres-fov90": {
		camera: cameraZ0,
		fov:    90,
		build: func(b *builder) {
			b.matte(vec3.T{24, 40, 17}, 10, colorGreen)
			b.matte(vec3.T{-18, 30, -4}, 5, colorBlue)
			b.matte(vec3.T{0, 30, 0}, 10, colorRed)
			b.matte(vec3.T{-8, 12.5, -8}, 3, colorBlue)
			b.matte(vec3.T{0, 12.5, -8}, 3, colorRed)
			b.matte(vec3.T{8, 12.5, -8}, 3, colorGreen)
			b.light(vec3.T{-9, 20, 10}, 3, colorLight)
			b.ground()
		},
	},
	"camera-test-1": {
		camera: cameraZ0,
		fov:    90,
		build: func(b *builder) {
			// Exactly fills the view vertically and horizontally.
			b.matte(vec3.T{0, math.Sqrt2, 0}, 1, colorRed)
		},
	},
	"camera-test-4-fov90": {
		camera: cameraZ0,
		fov:    90,
		build: func(b *builder) {
			// Each sphere spans a quarter of the view, centered on one edge's
			// midpoint line.
			b.cross(3.5355339059327376, 2.1213203435596426)
		},
	},
	"camera-test-4-fov40": {
		camera: cameraZ0,
		fov:    40,
		build: func(b *builder) {
			b.cross(10.669157170675343, 2.8190778623577252)
		},
	},
	"glass-center": {
		camera: cameraZ0,
		fov:    40,
		build: func(b *builder) {
			b.glass(vec3.T{0, 15, 0}, 2)
		},
	},
	"glass-inside": {
		camera: cameraZ0,
		fov:    40,
		build: func(b *builder) {
			// The camera sits inside the sphere.
			b.glass(vec3.T{0, 1, 0}, 2)
		},
	},
}

// cross places four unit red spheres at distance y, offset by d up, left,
// right and down.
func (b *builder) cross(y, d float64) {
	b.matte(vec3.T{0, y, d}, 1, colorRed)
	b.matte(vec3.T{-d, y, 0}, 1, colorRed)
	b.matte(vec3.T{d, y, 0}, 1, colorRed)
	b.matte(vec3.T{0, y, -d}, 1, colorRed)
}

var skies = map[string]func(b *builder){
	"none": func(b *builder) {},
	"ambient-gray": func(b *builder) {
		b.light(vec3.T{0, 0, 0}, skyRadius, colorAmbientLight)
	},
	"gradient-blue": func(b *builder) {
		b.add(scene.Sphere{Center: vec3.T{0, 0, 0}, Radius: skyRadius, Material: material.DefaultSky()})
	},
	"ambient-blue": func(b *builder) {
		b.light(vec3.T{0, 0, 0}, skyRadius, colorSky)
	},
}

// Names lists the presets, sorted.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkyNames lists the skies, sorted.
func SkyNames() []string {
	names := make([]string, 0, len(skies))
	for name := range skies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named preset surrounded by the named sky.  Matte
// spheres scatter with diffuse.
func Build(name, sky string, diffuse material.DiffuseAlgo, opts ...scene.Option) (*Preset, error) {
	def, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene preset %q", name)
	}
	addSky, ok := skies[sky]
	if !ok {
		return nil, fmt.Errorf("unknown sky %q", sky)
	}

	b := &builder{
		sc:      scene.New(opts...),
		diffuse: diffuse,
	}
	def.build(b)
	addSky(b)
	if b.err != nil {
		return nil, fmt.Errorf("while building preset %q with sky %q: %w", name, sky, b.err)
	}

	return &Preset{
		Name:   name + "/" + sky,
		Scene:  b.sc,
		Camera: def.camera,
		FOV:    def.fov,
	}, nil
}

// checkCamera rejects viewpoints the camera cannot be set up for.
func checkCamera(dir vec3.T) error {
	if dir.NormSquared() == 0 {
		return fmt.Errorf("camera direction is zero")
	}
	if vec3.CProd(camera.Up, dir).NormSquared() == 0 {
		return fmt.Errorf("camera direction %v is parallel to up %v", dir, camera.Up)
	}
	return nil
}
