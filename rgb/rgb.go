// Package rgb holds linear floating point colors.
//
// Channels are nominally in [0, 1] but are not clamped during tracing or
// accumulation; lights and summed buffers legitimately exceed 1.  Clamping
// only happens when converting to 8-bit for display.
package rgb

import (
	"image/color"
	"math"
)

type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// FromRGBA8 builds a color from 8-bit channels.
func FromRGBA8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul is the elementwise product, used for attenuation.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

func (c Color) Div(s float64) Color {
	return Color{c.R / s, c.G / s, c.B / s}
}

// Lerp interpolates from a (t = 0) to b (t = 1).  t is not clamped.
func Lerp(a, b Color, t float64) Color {
	return Color{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

// Luminance is the Rec. 709 relative luminance.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// To8 converts one channel to its display value: min(255, round(min(1, v) *
// 256)).  Negative and NaN channels are black.
func To8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	out := math.Round(math.Min(1, v) * 256)
	if out > 255 {
		return 255
	}
	return uint8(out)
}

// RGBA8 is the display conversion of c.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: To8(c.R), G: To8(c.G), B: To8(c.B), A: 0xff}
}

// RGBA implements color.Color using the display conversion.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.RGBA8().RGBA()
}
