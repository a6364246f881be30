package core

import (
	"image/color"
	"math"
)

// Color is a linear RGB color. Channels are nominally in [0, 1] but
// intermediate shading results may leave that range until Clamp is applied.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black returns the zero color
func Black() Color {
	return Color{}
}

// White returns full intensity on every channel
func White() Color {
	return Color{R: 1, G: 1, B: 1}
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Luminance returns the perceptual luminance using Rec. 709 weights
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Clamp returns the color with every channel truncated to [0, 1].
// NaN channels become 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToRGBA converts the color to 8 bits per channel by clamping, scaling by 255
// and truncating. No gamma correction is applied.
func (c Color) ToRGBA() color.RGBA {
	c = c.Clamp()
	return color.RGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: 255,
	}
}

// ColorFromRGBA converts an 8-bit color into the [0, 1] range
func ColorFromRGBA(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	// RGBA returns uint32 in [0, 65535]
	return Color{
		R: float64(r) / 65535.0,
		G: float64(g) / 65535.0,
		B: float64(b) / 65535.0,
	}
}
