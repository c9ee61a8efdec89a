package scenepack

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"sigs.k8s.io/yaml"

	"lumen/material"
	"lumen/ray"
	"lumen/rgb"
	"lumen/scene"
	"lumen/vmath/vec3"
)

// File is the YAML scene file format:
//
//	name: two-balls
//	camera:
//	  origin: [0, 0, 15]
//	  direction: [0, 1, -0.15]
//	  hfov: 40
//	sky: gradient-blue
//	spheres:
//	- center: [0, 50, -4]
//	  radius: 3
//	  material: matte
//	  color: firebrick
//	- center: [-15, 75, 20]
//	  radius: 4
//	  material: light
//	  emission: [4, 4, 4]
type File struct {
	Name    string       `json:"name"`
	Camera  CameraSpec   `json:"camera"`
	Sky     string       `json:"sky"`
	Spheres []SphereSpec `json:"spheres"`
}

type CameraSpec struct {
	Origin    Vector  `json:"origin"`
	Direction Vector  `json:"direction"`
	HFOV      float64 `json:"hfov"`
}

type SphereSpec struct {
	Center Vector  `json:"center"`
	Radius float64 `json:"radius"`

	// One of matte, metal, glass, dielectric, light, gradient-sky, ground or
	// normals.
	Material string `json:"material"`
	Color    *Color `json:"color,omitempty"`

	// matte
	Diffuse string `json:"diffuse,omitempty"`

	// metal
	Fuzz float64 `json:"fuzz,omitempty"`

	// dielectric; glass implies 1.5.
	Index float64 `json:"index,omitempty"`

	// light
	Emission *Color `json:"emission,omitempty"`

	// gradient-sky
	Top    *Color `json:"top,omitempty"`
	Bottom *Color `json:"bottom,omitempty"`
}

// Vector is a list of exactly three coordinates.
type Vector vec3.T

func (v *Vector) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("vector must be [x, y, z]: %w", err)
	}
	if len(coords) != 3 {
		return fmt.Errorf("vector has %d coordinates, want 3", len(coords))
	}
	*v = Vector{coords[0], coords[1], coords[2]}
	return nil
}

// Color is either a CSS color name or a list of three linear channels.
type Color rgb.Color

func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		named, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		*c = Color(rgb.FromRGBA8(named.R, named.G, named.B))
		return nil
	}

	var channels []float64
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("color must be a name or [r, g, b]: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("color has %d channels, want 3", len(channels))
	}
	*c = Color{R: channels[0], G: channels[1], B: channels[2]}
	return nil
}

func (c *Color) rgb(def rgb.Color) rgb.Color {
	if c == nil {
		return def
	}
	return rgb.Color(*c)
}

// LoadFile reads and builds a YAML scene file.
func LoadFile(name string, diffuse material.DiffuseAlgo, opts ...scene.Option) (*Preset, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}

	p, err := Parse(data, diffuse, opts...)
	if err != nil {
		return nil, fmt.Errorf("while parsing scene file %s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// Parse builds a scene from YAML.  diffuse applies to matte spheres that do
// not name their own algorithm.
func Parse(data []byte, diffuse material.DiffuseAlgo, opts ...scene.Option) (*Preset, error) {
	f := &File{}
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, fmt.Errorf("while unmarshaling scene: %w", err)
	}

	if f.Camera.HFOV == 0 {
		f.Camera.HFOV = 40
	}
	if f.Camera.HFOV <= 0 || f.Camera.HFOV >= 180 {
		return nil, fmt.Errorf("camera hfov %v out of range (0, 180)", f.Camera.HFOV)
	}
	if err := checkCamera(vec3.T(f.Camera.Direction)); err != nil {
		return nil, err
	}

	b := &builder{
		sc:      scene.New(opts...),
		diffuse: diffuse,
	}

	for i, s := range f.Spheres {
		sp, err := s.sphere(diffuse)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		b.add(sp)
	}

	if f.Sky != "" {
		addSky, ok := skies[f.Sky]
		if !ok {
			return nil, fmt.Errorf("unknown sky %q", f.Sky)
		}
		addSky(b)
	}

	if b.err != nil {
		return nil, b.err
	}

	return &Preset{
		Name:  f.Name,
		Scene: b.sc,
		Camera: ray.Ray{
			Point: vec3.T(f.Camera.Origin),
			Slope: vec3.Normalize(vec3.T(f.Camera.Direction)),
		},
		FOV: f.Camera.HFOV,
	}, nil
}

func (s *SphereSpec) sphere(diffuse material.DiffuseAlgo) (scene.Sphere, error) {
	if s.Radius <= 0 {
		return scene.Sphere{}, fmt.Errorf("radius %v must be positive", s.Radius)
	}

	sp := scene.Sphere{
		Center: vec3.T(s.Center),
		Radius: s.Radius,
		Color:  s.Color.rgb(rgb.White),
	}

	switch s.Material {
	case "matte", "":
		if s.Diffuse != "" {
			d, err := material.ParseDiffuseAlgo(s.Diffuse)
			if err != nil {
				return scene.Sphere{}, err
			}
			diffuse = d
		}
		sp.Material = material.Matte{Diffuse: diffuse}
	case "metal":
		if s.Fuzz < 0 {
			return scene.Sphere{}, fmt.Errorf("fuzz %v must not be negative", s.Fuzz)
		}
		sp.Material = material.Metal{Fuzz: s.Fuzz}
	case "glass":
		sp.Material = material.Glass()
	case "dielectric":
		if s.Index <= 0 {
			return scene.Sphere{}, fmt.Errorf("refraction index %v must be positive", s.Index)
		}
		sp.Material = material.Dielectric{Index: s.Index}
	case "light":
		sp.Material = material.Light{Emission: s.Emission.rgb(colorLight)}
	case "gradient-sky":
		def := material.DefaultSky()
		sp.Material = material.GradientSky{
			Bottom: s.Bottom.rgb(def.Bottom),
			Top:    s.Top.rgb(def.Top),
		}
	case "ground":
		sp.Material = material.Ground{Color: s.Color.rgb(material.DefaultGround().Color)}
	case "normals":
		sp.Material = material.Normals{}
	default:
		return scene.Sphere{}, fmt.Errorf("unknown material %q", s.Material)
	}

	return sp, nil
}
