package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"lumen/ray"
	"lumen/vmath/vec3"
)

func TestRayDirectionsAreUnit(t *testing.T) {
	centers := []ray.Ray{
		{Point: vec3.T{0, 0, 0}, Slope: vec3.T{0, 1, 0}},
		{Point: vec3.T{0, 0, 15}, Slope: vec3.Normalize(vec3.T{0, 1, -0.15})},
		{Point: vec3.T{3, -4, 1}, Slope: vec3.Normalize(vec3.T{-1, 0.3, 0.2})},
	}
	sizes := [][2]int{{40, 40}, {30, 80}, {7, 3}}

	rng := rand.New(rand.NewSource(42))
	for _, center := range centers {
		for _, size := range sizes {
			for _, fov := range []float64{40, 90} {
				c := New(center, fov, size[0], size[1])
				f := c.FrameInit(size[0], size[1], rng)
				for v := 0; v < size[0]; v++ {
					for u := 0; u < size[1]; u++ {
						if l := f.RayDirection(u, v).Norm(); math.Abs(l-1) > 1e-9 {
							t.Fatalf("center=%v size=%v fov=%v: direction (%d, %d) has length %v", center, size, fov, u, v, l)
						}
					}
				}
			}
		}
	}
}

func TestViewPlaneGeometry(t *testing.T) {
	center := ray.Ray{Point: vec3.T{0, 0, 0}, Slope: vec3.T{0, 1, 0}}
	c := New(center, 90, 100, 100)

	approx := cmpopts.EquateApprox(0, 1e-12)

	// Looking along +y with +z up, the plane spans +x left to right and +z
	// bottom to top.  With a 90 degree field of view it is 2 wide.
	if diff := cmp.Diff(c.horizontal, vec3.T{2, 0, 0}, approx); diff != "" {
		t.Errorf("Bad horizontal span; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(c.vertical, vec3.T{0, 0, 2}, approx); diff != "" {
		t.Errorf("Bad vertical span; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(c.bottomLeft, vec3.T{-1, 1, -1}, approx); diff != "" {
		t.Errorf("Bad bottom left corner; diff (-got +want)\n%s", diff)
	}
}

func TestVerticalFOVFollowsAspect(t *testing.T) {
	center := ray.Ray{Point: vec3.T{0, 0, 0}, Slope: vec3.T{0, 1, 0}}
	c := New(center, 40, 50, 100)

	wantHeight := 2 * math.Tan(20*math.Pi/360)
	if got := c.vertical.Norm(); math.Abs(got-wantHeight) > 1e-12 {
		t.Errorf("Vertical span length %v, want %v", got, wantHeight)
	}
}

func TestFrameJitterIsShared(t *testing.T) {
	center := ray.Ray{Point: vec3.T{0, 0, 0}, Slope: vec3.T{0, 1, 0}}
	c := New(center, 60, 10, 10)
	f := c.FrameInit(10, 10, rand.New(rand.NewSource(1)))
	if f.Rows() != 10 || f.Cols() != 10 {
		t.Fatalf("Got %dx%d frame, want 10x10", f.Rows(), f.Cols())
	}

	// Consecutive column offsets differ by exactly one pixel's worth of the
	// horizontal span, which only holds if every column got the same jitter.
	step := vec3.DivVS(c.horizontal, 10)
	for u := 1; u < 10; u++ {
		d := vec3.SubVV(f.cols[u], f.cols[u-1])
		if diff := cmp.Diff(d, step, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Fatalf("Column %d offset step; diff (-got +want)\n%s", u, diff)
		}
	}

	// The first row sits within one pixel of the bottom left corner.
	rel := vec3.SubVV(f.rows[0], c.bottomLeft)
	if l, max := rel.Norm(), c.vertical.Norm()/10; l < 0 || l >= max {
		t.Errorf("Row 0 jitter offset %v not in [0, %v)", l, max)
	}
}

func TestCenterPixelLooksAlongCenterRay(t *testing.T) {
	dir := vec3.Normalize(vec3.T{0.2, 1, -0.3})
	c := New(ray.Ray{Slope: dir}, 40, 101, 101)
	f := c.FrameInit(101, 101, rand.New(rand.NewSource(3)))

	got := f.RayDirection(50, 50)
	if cos := vec3.IProd(got, dir); cos < 0.9999 {
		t.Errorf("Center pixel direction %v is far from center ray %v (cos %v)", got, dir, cos)
	}
}
