package main

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestControlsTake(t *testing.T) {
	c := &controls{zoom: 1, torqueYaw: torqueStrength}

	if !c.handle(uv.WindowSizeEvent{Width: 80, Height: 24}) {
		t.Fatal("resize should not quit")
	}
	c.handle(uv.MouseWheelEvent{Button: uv.MouseWheelUp})

	in := c.take()
	if !in.resized || in.width != 80 || in.height != 24 {
		t.Errorf("resize not reported: %+v", in)
	}
	if in.zoom >= 1 {
		t.Errorf("wheel up should zoom in, got factor %v", in.zoom)
	}

	// One-shot inputs are consumed; held torque fades.
	in = c.take()
	if in.resized || in.zoom != 1 {
		t.Errorf("one-shot inputs repeated: %+v", in)
	}
	if in.torqueYaw >= torqueStrength || in.torqueYaw <= 0 {
		t.Errorf("torque = %v, want faded", in.torqueYaw)
	}
}

func TestControlsMouseDrag(t *testing.T) {
	c := &controls{zoom: 1}
	c.handle(uv.MouseClickEvent{X: 10, Y: 10})
	c.handle(uv.MouseMotionEvent{X: 14, Y: 10})
	c.handle(uv.MouseReleaseEvent{X: 14, Y: 10})
	c.handle(uv.MouseMotionEvent{X: 30, Y: 30})

	in := c.take()
	if in.impulseYaw != -4*dragStrength || in.impulsePitch != 0 {
		t.Errorf("impulse = (%v, %v)", in.impulseYaw, in.impulsePitch)
	}
}

func TestViewerStepAndDraw(t *testing.T) {
	opts := Options{FPS: 30}
	s, err := loadScene(opts)
	if err != nil {
		t.Fatal(err)
	}

	v := &viewer{opts: opts, hud: NewHUD("test")}
	if err := v.load(s, 60, 40); err != nil {
		t.Fatalf("load: %v", err)
	}
	if vp := v.scene.Camera.Viewport(); vp.Y != 40.0/60 {
		t.Errorf("viewport = %v", vp)
	}

	start := v.scene.Camera.Position()
	in := frameInput{impulseYaw: 0.2, zoom: 1, clip: true, cull: true}
	v.step(in, 1.0/30)

	if v.scene.Camera.Position().ApproxEqual(start, 1e-9) {
		t.Error("camera did not orbit")
	}

	fb := v.draw(in)
	if fb.Width != 60 || fb.Height != 40 {
		t.Errorf("frame is %dx%d", fb.Width, fb.Height)
	}
	if v.raster.Stats.PixelsWritten == 0 {
		t.Error("nothing drawn")
	}

	in.wireframe = true
	v.draw(in)
	if v.raster.Stats.PixelsWritten == 0 {
		t.Error("nothing drawn in wireframe")
	}

	if err := v.reframe(30, 30); err != nil {
		t.Fatal(err)
	}
	if fb := v.raster.Framebuffer(); fb.Width != 30 || fb.Height != 30 {
		t.Errorf("reframe left %dx%d", fb.Width, fb.Height)
	}
}
