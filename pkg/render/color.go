package render

import (
	"image/color"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// Pack encodes c as r<<16 | g<<8 | b. Alpha is dropped.
func Pack(c Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack decodes a packed 24-bit value into an opaque color.
func Unpack(p uint32) Color {
	return Color{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 255}
}

// MultiplyColor multiplies a color by a scalar (for lighting).
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math3d.Clamp(float64(c.R)*intensity, 0, 255)),
		G: uint8(math3d.Clamp(float64(c.G)*intensity, 0, 255)),
		B: uint8(math3d.Clamp(float64(c.B)*intensity, 0, 255)),
		A: c.A,
	}
}
