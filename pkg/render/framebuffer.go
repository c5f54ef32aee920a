package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of packed r<<16|g<<8|b pixels.
type Framebuffer struct {
	Width  int      // Width in pixels
	Height int      // Height in pixels
	Pixels []uint32 // Row-major packed RGB
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// For terminal output the height should be 2x the terminal rows, since each
// cell shows two pixels with a half block.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Resize reallocates the pixel array if the dimensions changed.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]uint32, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	p := Pack(c)
	for i := range fb.Pixels {
		fb.Pixels[i] = p
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = Pack(c)
}

// GetPixel returns the color at (x, y).
// Returns black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return ColorBlack
	}
	return Unpack(fb.Pixels[y*fb.Width+x])
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, Unpack(fb.Pixels[y*fb.Width+x]))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// DepthBuffer stores one depth per pixel. Zero means nothing has been drawn
// there yet; written depths are always positive.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	return &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// Resize reallocates the buffer if the dimensions changed.
func (db *DepthBuffer) Resize(width, height int) {
	if width == db.Width && height == db.Height {
		return
	}
	db.Width, db.Height = width, height
	db.Values = make([]float64, width*height)
}

// Clear resets every entry to the unwritten sentinel.
func (db *DepthBuffer) Clear() {
	clear(db.Values)
}

// At returns the stored depth at (x, y), or 0 out of bounds.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return 0
	}
	return db.Values[y*db.Width+x]
}

// TestAndSet stores depth at (x, y) if the slot is unwritten or depth is
// nearer than what is there, and reports whether it did.
func (db *DepthBuffer) TestAndSet(x, y int, depth float64) bool {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return false
	}
	i := y*db.Width + x
	if stored := db.Values[i]; stored != 0 && depth >= stored {
		return false
	}
	db.Values[i] = depth
	return true
}
