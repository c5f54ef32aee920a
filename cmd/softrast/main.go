// softrast - software rasterizer for the terminal
// Renders TOML scenes of cubes, triangles, quads and glTF models with a
// frustum-clipping scanline rasterizer, either live in the terminal or once
// to a PNG.
//
// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	W/S         - Orbit up/down
//	A/D         - Orbit left/right
//	Space       - Apply random impulse
//	R           - Reset view
//	X           - Toggle wireframe mode
//	C           - Toggle wireframe clipping
//	B           - Toggle back-face culling
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/taigrr/softrast/pkg/logging"
	"github.com/taigrr/softrast/pkg/scene"
)

// Options are the command-line settings. Zero values defer to the scene.
type Options struct {
	ScenePath string
	PNGPath   string
	Width     int
	Height    int
	FPS       int
	BG        string
	Wireframe bool
	NoClip    bool
	Watch     bool
	Debug     bool
	LogPath   string
}

func main() {
	var opts Options
	flag.StringVar(&opts.ScenePath, "scene", "", "Scene file (TOML); a built-in scene is used if empty")
	flag.StringVar(&opts.PNGPath, "png", "", "Render one frame to this PNG file and exit")
	flag.IntVar(&opts.Width, "width", 0, "Frame width in pixels (PNG mode; default from scene)")
	flag.IntVar(&opts.Height, "height", 0, "Frame height in pixels (PNG mode; default from scene)")
	flag.IntVar(&opts.FPS, "fps", 60, "Target FPS")
	flag.StringVar(&opts.BG, "bg", "", "Background color (R,G,B); default from scene")
	flag.BoolVar(&opts.Wireframe, "wireframe", false, "Draw triangle edges only")
	flag.BoolVar(&opts.NoClip, "noclip", false, "Do not clip wireframe edges to the view")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the scene file when it changes")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&opts.LogPath, "log", "", "Write logs to this file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softrast - software rasterizer for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softrast [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle wireframe clipping\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle back-face culling\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	logging.SetDebug(opts.Debug)
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logging.SetOutput(f)
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}

	if opts.PNGPath != "" {
		return renderPNG(opts)
	}
	return runViewer(opts)
}

// loadScene reads the scene file, or the built-in scene, and applies the
// command-line overrides.
func loadScene(opts Options) (*scene.Scene, error) {
	var (
		f   *scene.File
		err error
	)
	if opts.ScenePath == "" {
		f, err = scene.Parse([]byte(scene.DefaultScene))
	} else {
		f, err = scene.LoadFile(opts.ScenePath)
	}
	if err != nil {
		return nil, err
	}

	if opts.Width > 0 {
		f.Render.Width = opts.Width
	}
	if opts.Height > 0 {
		f.Render.Height = opts.Height
	}
	if opts.BG != "" {
		f.Render.Background = opts.BG
	}
	if opts.Wireframe {
		f.Render.Wireframe = true
	}
	if opts.NoClip {
		f.Render.NoClip = true
	}

	s, err := f.Build()
	if err != nil {
		return nil, err
	}
	logging.LogInfo("scene ready: %d objects", s.Arena.Len())
	return s, nil
}
