package rgb

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTo8(t *testing.T) {
	testCases := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
		{0.5, 128},
		{0.998, 255},
		{1, 255},
		{42, 255},
		{1.0 / 256, 1},
	}

	for _, tc := range testCases {
		if got := To8(tc.in); got != tc.want {
			t.Errorf("To8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRGBAImplementsColor(t *testing.T) {
	var c color.Color = Color{2, 0.5, -1}
	got := color.RGBAModel.Convert(c).(color.RGBA)
	want := color.RGBA{R: 255, G: 128, B: 0, A: 255}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad display conversion; diff (-got +want)\n%s", diff)
	}
}

func TestLerp(t *testing.T) {
	a := Color{1, 1, 1}
	b := Color{0.5, 0.7, 1}
	if diff := cmp.Diff(Lerp(a, b, 0), a); diff != "" {
		t.Errorf("Lerp at 0; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(Lerp(a, b, 1), b, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Lerp at 1; diff (-got +want)\n%s", diff)
	}
}

func TestFromRGBA8Display(t *testing.T) {
	// Display scales by 256, not 255, so mid-range values come back slightly
	// brighter.
	c := FromRGBA8(150, 193, 88)
	if diff := cmp.Diff(c.RGBA8(), color.RGBA{R: 151, G: 194, B: 88, A: 255}); diff != "" {
		t.Errorf("Bad 8-bit display value; diff (-got +want)\n%s", diff)
	}
}
