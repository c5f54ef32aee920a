package main

import (
	"fmt"
	"time"

	"github.com/taigrr/softrast/pkg/render"
)

// HUD renders an overlay with scene info and frame counters
type HUD struct {
	name      string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(name string) *HUD {
	return &HUD{
		name:    name,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, show, wireframe bool, stats render.FrameStats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.name, reset)

	tris := fmt.Sprintf(" %d tris ", stats.TrianglesDrawn)
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max(width-len(tris), 1)), bgBlack, fgCyan, bold, tris, reset)

	mode := "solid"
	if wireframe {
		mode = "wireframe"
	}
	status := fmt.Sprintf(" %s | objects %d, culled %d, clipped %d | %d px ",
		mode, stats.ObjectsTested, stats.ObjectsCulled, stats.ObjectsClipped, stats.PixelsWritten)
	fmt.Printf("%s%s%s%s%s", moveTo(height, 1), bgBlack, fgWhite, status, reset)
}
