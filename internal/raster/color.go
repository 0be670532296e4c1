package raster

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// A pixel produced by the luma transform always has S == 0.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 100=white)
}

// ColorResult contains one pixel's color in several representations.
type ColorResult struct {
	Hex   string   `json:"hex"`             // Hex format "#RRGGBB" (no alpha)
	RGB   RGBColor `json:"rgb"`             // RGB components
	Alpha *uint8   `json:"alpha,omitempty"` // Alpha, only for 2- and 4-component buffers
	HSL   HSLColor `json:"hsl"`             // HSL representation
	Gray  bool     `json:"gray"`            // True when R == G == B
}

// SampleColor reads the pixel at (x, y).
//
// Parameters:
//   - buf: The buffer to sample.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost row).
//
// Returns:
//   - *ColorResult: The pixel in hex, RGB and HSL form. Single-channel and
//     gray+alpha buffers report the gray value in all three RGB components.
//   - error: Non-nil if the coordinates are outside the buffer.
//
// Hex and HSL are computed with go-colorful from the 8-bit components.
func SampleColor(buf *Buffer, x, y int) (*ColorResult, error) {
	if x < 0 || x >= buf.Width || y < 0 || y >= buf.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := buf.Pixel(x, y)
	var res ColorResult
	switch buf.Components {
	case 1, 2:
		res.RGB = RGBColor{R: px[0], G: px[0], B: px[0]}
	default:
		res.RGB = RGBColor{R: px[0], G: px[1], B: px[2]}
	}
	if buf.Components == 2 || buf.Components == 4 {
		a := px[buf.Components-1]
		res.Alpha = &a
	}

	c := colorful.Color{
		R: float64(res.RGB.R) / 255.0,
		G: float64(res.RGB.G) / 255.0,
		B: float64(res.RGB.B) / 255.0,
	}
	h, s, l := c.Hsl()
	res.Hex = strings.ToUpper(c.Hex())
	res.HSL = HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
	res.Gray = res.RGB.R == res.RGB.G && res.RGB.G == res.RGB.B
	return &res, nil
}
