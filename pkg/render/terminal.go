package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row shows two framebuffer rows: ▀ with fg=top, bg=bottom.
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb, x, topY),
					Bg: cellColor(fb, x, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor returns the pixel at (x, y), or nil past the last row so the
// terminal's default background shows through.
func cellColor(fb *Framebuffer, x, y int) color.Color {
	if y >= fb.Height {
		return nil
	}
	return fb.GetPixel(x, y)
}
