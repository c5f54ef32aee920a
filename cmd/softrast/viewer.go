package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softrast/pkg/logging"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/scene"
)

const (
	torqueStrength = 3.0
	dragStrength   = 0.03
	zoomStep       = 1.15
)

// controls is written by the input goroutine and read once per frame.
type controls struct {
	mu sync.Mutex

	torqueYaw, torquePitch   float64
	impulseYaw, impulsePitch float64
	zoom                     float64 // pending zoom factor
	reset                    bool
	wireframe, clip, cull    bool
	showHUD                  bool
	width, height            int
	resized                  bool

	mouseDown bool
	lastX     int
	lastY     int
}

// frameInput is the snapshot a frame works from.
type frameInput struct {
	torqueYaw, torquePitch   float64
	impulseYaw, impulsePitch float64
	zoom                     float64
	reset                    bool
	wireframe, clip, cull    bool
	showHUD                  bool
	width, height            int
	resized                  bool
}

// take returns the current state and clears the one-shot inputs.
func (c *controls) take() frameInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	in := frameInput{
		torqueYaw: c.torqueYaw, torquePitch: c.torquePitch,
		impulseYaw: c.impulseYaw, impulsePitch: c.impulsePitch,
		zoom: c.zoom, reset: c.reset,
		wireframe: c.wireframe, clip: c.clip, cull: c.cull,
		showHUD: c.showHUD,
		width:   c.width, height: c.height, resized: c.resized,
	}
	c.impulseYaw, c.impulsePitch = 0, 0
	c.zoom = 1
	c.reset = false
	c.resized = false
	// Key release events are unreliable, so held torque fades out.
	c.torqueYaw *= 0.9
	c.torquePitch *= 0.9
	return in
}

// handle applies one terminal event. It reports false when the viewer
// should quit.
func (c *controls) handle(ev uv.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		c.width, c.height, c.resized = ev.Width, ev.Height, true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
			return false
		case ev.MatchString("r"):
			c.reset = true
		case ev.MatchString("w", "up"):
			c.torquePitch = -torqueStrength
		case ev.MatchString("s", "down"):
			c.torquePitch = torqueStrength
		case ev.MatchString("a", "left"):
			c.torqueYaw = -torqueStrength
		case ev.MatchString("d", "right"):
			c.torqueYaw = torqueStrength
		case ev.MatchString("space"):
			c.impulseYaw += (rand.Float64() - 0.5) * 1.5
			c.impulsePitch += (rand.Float64() - 0.5) * 0.5
		case ev.MatchString("+", "="):
			c.zoom /= zoomStep
		case ev.MatchString("-", "_"):
			c.zoom *= zoomStep
		case ev.MatchString("x"):
			c.wireframe = !c.wireframe
		case ev.MatchString("c"):
			c.clip = !c.clip
		case ev.MatchString("b"):
			c.cull = !c.cull
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			c.showHUD = !c.showHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
			c.torquePitch = 0
		case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
			c.torqueYaw = 0
		}

	case uv.MouseClickEvent:
		c.mouseDown = true
		c.lastX, c.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		c.mouseDown = false

	case uv.MouseMotionEvent:
		if c.mouseDown {
			c.impulseYaw -= float64(ev.X-c.lastX) * dragStrength
			c.impulsePitch -= float64(ev.Y-c.lastY) * dragStrength
			c.lastX, c.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			c.zoom /= zoomStep
		case uv.MouseWheelDown:
			c.zoom *= zoomStep
		}
	}
	return true
}

// viewer owns everything the main loop draws.
type viewer struct {
	opts   Options
	scene  *scene.Scene
	raster *render.Rasterizer
	orbit  *Orbit
	hud    *HUD
}

// load swaps in a freshly built scene sized for a width x height pixel
// frame.
func (v *viewer) load(s *scene.Scene, width, height int) error {
	s.Settings.Width, s.Settings.Height = width, height
	if v.raster == nil {
		v.raster = render.NewRasterizer(s.Camera, render.NewFramebuffer(width, height))
	}
	v.raster.SetCamera(s.Camera)
	s.Settings.Apply(v.raster)
	v.scene = s
	v.orbit = NewOrbit(s.Camera, orbitTarget(s), v.opts.FPS)
	return v.reframe(width, height)
}

// reframe resizes the buffers and rebuilds the camera with a viewport that
// matches the new aspect ratio.
func (v *viewer) reframe(width, height int) error {
	old := v.scene.Camera
	camera, err := render.NewCamera(old.Position(), old.Rotation(), old.FOV(), old.Near(), old.Far(),
		math3d.V2(1, float64(height)/float64(width)))
	if err != nil {
		return err
	}
	v.scene.Camera = camera
	v.scene.Settings.Width, v.scene.Settings.Height = width, height
	v.raster.SetCamera(camera)
	v.raster.Resize(width, height)
	return nil
}

// orbitTarget is the point the camera looks at, one orbit radius ahead.
func orbitTarget(s *scene.Scene) math3d.Vec3 {
	dist := max(s.Camera.Position().Len(), 1)
	return s.Camera.Position().Add(s.Camera.Forward().Scale(dist))
}

func runViewer(opts Options) error {
	s, err := loadScene(opts)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Log lines would tear the alt screen.
	if opts.LogPath == "" {
		logging.SetOutput(io.Discard)
		defer logging.SetOutput(os.Stderr)
	}

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Each terminal cell shows two framebuffer rows.
	v := &viewer{opts: opts, hud: NewHUD(sceneName(opts))}
	if err := v.load(s, width, height*2); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	reloads := make(chan *scene.Scene, 1)
	if opts.Watch && opts.ScenePath != "" {
		go watchScene(ctx, opts, reloads)
	}

	ctl := &controls{
		zoom:      1,
		wireframe: s.Settings.Wireframe,
		clip:      s.Settings.Clip,
		cull:      s.Settings.BackfaceCulling,
		width:     width,
		height:    height,
	}
	go func() {
		for ev := range term.Events() {
			if !ctl.handle(ev) {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(opts.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case next := <-reloads:
			if err := v.load(next, v.raster.Framebuffer().Width, v.raster.Framebuffer().Height); err != nil {
				logging.LogError("reload: %v", err)
			}
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		in := ctl.take()
		if in.resized {
			width, height = in.width, in.height
			term.Erase()
			term.Resize(width, height)
			if err := v.reframe(width, height*2); err != nil {
				return fmt.Errorf("resize: %w", err)
			}
		}
		v.step(in, dt)

		fb := v.draw(in)
		fb.Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		v.hud.UpdateFPS()
		v.hud.Render(width, height, in.showHUD, in.wireframe, v.raster.Stats)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// step advances camera motion and object spin by one frame.
func (v *viewer) step(in frameInput, dt float64) {
	if in.reset {
		v.orbit.Reset()
	}
	v.orbit.ApplyImpulse(in.impulseYaw+in.torqueYaw*dt, in.impulsePitch+in.torquePitch*dt)
	if in.zoom != 1 {
		v.orbit.Zoom(in.zoom)
	}
	v.orbit.Update()
	v.orbit.Apply(v.scene.Camera)

	for h, spin := range v.scene.Spins {
		step := spin.Scale(dt)
		if err := v.scene.Arena.Rotate(h, math3d.QuatEuler(step.X, step.Y, step.Z)); err != nil {
			logging.LogWarn("spin: %v", err)
		}
	}
}

// draw renders the current frame with the toggles from in.
func (v *viewer) draw(in frameInput) *render.Framebuffer {
	v.scene.Settings.Wireframe = in.wireframe
	v.scene.Settings.Clip = in.clip
	v.scene.Settings.BackfaceCulling = in.cull
	return renderFrame(v.scene, v.raster)
}

// watchScene rebuilds the scene whenever its file changes and hands the
// result to the main loop. Broken edits are logged and skipped.
func watchScene(ctx context.Context, opts Options, out chan<- *scene.Scene) {
	err := scene.WatchFile(ctx, opts.ScenePath, func() {
		s, err := loadScene(opts)
		if err != nil {
			logging.LogError("reload %s: %v", opts.ScenePath, err)
			return
		}
		logging.LogInfo("reloaded %s", opts.ScenePath)
		select {
		case out <- s:
		case <-ctx.Done():
		}
	})
	if err != nil {
		logging.LogError("watch: %v", err)
	}
}

func sceneName(opts Options) string {
	if opts.ScenePath == "" {
		return "built-in scene"
	}
	return opts.ScenePath
}
