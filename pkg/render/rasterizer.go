package render

import (
	"math"
	"slices"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Default lighting parameters.
const (
	DefaultAmbient = 0.5
)

// DefaultLightDir is the direction light travels in world space.
var DefaultLightDir = math3d.V3(-1, -1, -1).Normalize()

// PixelSink observes every pixel the rasterizer writes.
type PixelSink func(x, y int, c Color)

func noopSink(int, int, Color) {}

// ScreenPoint is a projected vertex: pixel-space position plus the
// camera-space depth (distance along the view axis).
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// Rasterizer turns renderables into pixels. It owns a depth buffer sized to
// its framebuffer and is not safe for concurrent use.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer
	depth  *DepthBuffer

	LightDir               math3d.Vec3 // Direction light travels, unit length
	Ambient                float64     // Minimum light intensity
	Background             Color       // Color the framebuffer is cleared to
	DebugSink              PixelSink   // Called for each written pixel
	DisableBackfaceCulling bool        // If true, render both sides of triangles
	Stats                  FrameStats  // Counters for the last frame

	verts []math3d.Vec3 // camera-space scratch
	tris  []Triangle    // triangle scratch
}

// FrameStats counts the work done while drawing a frame.
type FrameStats struct {
	ObjectsTested      int // Objects tested against the frustum
	ObjectsCulled      int // Objects rejected entirely
	ObjectsInside      int // Objects drawn without clipping
	ObjectsClipped     int // Objects that went through triangle clipping
	TrianglesBackfaced int // Triangles removed by back-face culling
	TrianglesDrawn     int // Triangles handed to the scanline filler
	PixelsWritten      int // Pixels that passed the depth test
}

// NewRasterizer creates a rasterizer that draws camera's view into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera:    camera,
		fb:        fb,
		depth:     NewDepthBuffer(fb.Width, fb.Height),
		LightDir:  DefaultLightDir,
		Ambient:   DefaultAmbient,
		DebugSink: noopSink,
	}
}

// Camera returns the camera being rendered from.
func (r *Rasterizer) Camera() *Camera { return r.camera }

// SetCamera switches to another camera.
func (r *Rasterizer) SetCamera(c *Camera) { r.camera = c }

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth buffer of the last frame.
func (r *Rasterizer) Depth() *DepthBuffer { return r.depth }

// Resize resizes the framebuffer and the depth buffer.
func (r *Rasterizer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.depth.Resize(width, height)
}

// Clear resets color and depth for a new frame.
func (r *Rasterizer) Clear() {
	r.fb.Clear(r.Background)
	r.depth.Clear()
	r.Stats = FrameStats{}
}

// Render clears the frame and draws every object.
func (r *Rasterizer) Render(objects []Renderable) *Framebuffer {
	r.Clear()
	for _, obj := range objects {
		r.DrawObject(obj)
	}
	return r.fb
}

// DrawObject culls, clips, shades and fills one object into the current
// frame.
func (r *Rasterizer) DrawObject(obj Renderable) {
	mesh := obj.TransformedMesh()
	if mesh == nil || len(mesh.Triangles) == 0 {
		return
	}
	r.Stats.ObjectsTested++

	center, radius := obj.Position(), obj.Radius()
	world := r.camera.WorldFrustum()
	if !world.IsObjectPartlyInside(center, radius) {
		r.Stats.ObjectsCulled++
		return
	}

	verts := r.cameraSpace(center, mesh.Vertices)
	tris := r.tris[:0]
	for _, t := range mesh.Triangles {
		if !r.DisableBackfaceCulling && !facesCamera(t.Apices(verts)) {
			r.Stats.TrianglesBackfaced++
			continue
		}
		tris = append(tris, t)
	}
	r.tris = tris

	if world.IsObjectCompletelyInside(center, radius) {
		r.Stats.ObjectsInside++
	} else {
		r.Stats.ObjectsClipped++
		tris = r.camera.LocalFrustum().ClipTriangles(verts, tris)
	}

	for _, t := range tris {
		r.drawTriangle(t.Apices(verts), r.shade(t))
	}
}

// cameraSpace moves object vertices into camera space. The result aliases
// scratch storage that the next call overwrites.
func (r *Rasterizer) cameraSpace(origin math3d.Vec3, vertices []math3d.Vec3) []math3d.Vec3 {
	inv := r.camera.Rotation().Inverse()
	offset := origin.Sub(r.camera.Position())
	r.verts = slices.Grow(r.verts[:0], len(vertices))
	for _, v := range vertices {
		r.verts = append(r.verts, inv.Rotate(v.Add(offset)))
	}
	return r.verts
}

// facesCamera keeps a triangle if any apex lies on the non-negative side of
// its normal as seen from the eye.
func facesCamera(p [3]math3d.Vec3) bool {
	n := TriangleNormal(p[0], p[1], p[2])
	for _, apex := range p {
		if apex.Dot(n) >= 0 {
			return true
		}
	}
	return false
}

// shade applies half-Lambert lighting with an ambient floor.
func (r *Rasterizer) shade(t Triangle) Color {
	intensity := (t.Normal().Dot(r.LightDir) + 1) / 2
	return MultiplyColor(t.Color(), math3d.Clamp(intensity, r.Ambient, 1))
}

// Project maps a camera-space point to pixel space. It fails for points at
// or behind the eye.
func (r *Rasterizer) Project(p math3d.Vec3) (ScreenPoint, bool) {
	depth := -p.Z
	if depth <= 0 || !p.IsFinite() {
		return ScreenPoint{}, false
	}
	d := r.camera.ViewPlaneDistance()
	vp := r.camera.Viewport()
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	return ScreenPoint{
		X:     w * (0.5 + d*p.X/(vp.X*depth)),
		Y:     h * (0.5 - d*p.Y/(vp.Y*depth)),
		Depth: depth,
	}, true
}

// Unproject is the inverse of Project: the camera-space point at depth that
// lands on pixel-space (x, y).
func (r *Rasterizer) Unproject(x, y, depth float64) math3d.Vec3 {
	d := r.camera.ViewPlaneDistance()
	vp := r.camera.Viewport()
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	return math3d.V3(
		(x/w-0.5)*vp.X*depth/d,
		(0.5-y/h)*vp.Y*depth/d,
		-depth,
	)
}

// drawTriangle projects a camera-space triangle and fills it.
func (r *Rasterizer) drawTriangle(p [3]math3d.Vec3, c Color) {
	var s [3]ScreenPoint
	for i := range p {
		sp, ok := r.Project(p[i])
		if !invariant(ok, "triangle apex %v is behind the eye", p[i]) {
			return
		}
		s[i] = sp
	}
	if r.fillTriangle(s, c) {
		r.Stats.TrianglesDrawn++
	}
}

// fillTriangle scan-converts a projected triangle. Triangles whose apices
// all fall on one pixel row or one pixel column are skipped.
func (r *Rasterizer) fillTriangle(s [3]ScreenPoint, c Color) bool {
	rows := [3]int{pixel(s[0].Y), pixel(s[1].Y), pixel(s[2].Y)}
	cols := [3]int{pixel(s[0].X), pixel(s[1].X), pixel(s[2].X)}
	if rows[0] == rows[1] && rows[1] == rows[2] {
		return false
	}
	if cols[0] == cols[1] && cols[1] == cols[2] {
		return false
	}

	slices.SortFunc(s[:], func(a, b ScreenPoint) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	top, mid, bot := s[0], s[1], s[2]
	packed := Pack(c)

	switch {
	case pixel(top.Y) == pixel(mid.Y):
		r.fillFlat(top, mid, bot, c, packed)
	case pixel(mid.Y) == pixel(bot.Y):
		r.fillFlat(mid, bot, top, c, packed)
	default:
		// Split at the middle apex; the split point's depth comes from
		// interpolating 1/depth along the long edge.
		t := (mid.Y - top.Y) / (bot.Y - top.Y)
		inv := math3d.Lerp(1/top.Depth, 1/bot.Depth, t)
		split := ScreenPoint{
			X:     math3d.Lerp(top.X, bot.X, t),
			Y:     mid.Y,
			Depth: 1 / inv,
		}
		r.fillFlat(mid, split, top, c, packed)
		r.fillFlat(mid, split, bot, c, packed)
	}
	return true
}

// fillFlat fills a triangle whose edge ab lies on one pixel row, walking
// rows from the peak apex toward that edge.
func (r *Rasterizer) fillFlat(a, b, peak ScreenPoint, c Color, packed uint32) {
	if a.X > b.X {
		a, b = b, a
	}
	first, last := pixel(peak.Y), pixel(a.Y)
	if first > last {
		first, last = last, first
	}
	first = max(first, 0)
	last = min(last, r.fb.Height-1)

	peakInv, aInv, bInv := 1/peak.Depth, 1/a.Depth, 1/b.Depth
	for row := first; row <= last; row++ {
		y := float64(row) + 0.5
		tl := progress(peak.Y, a.Y, y)
		tr := progress(peak.Y, b.Y, y)
		r.fillSpan(row,
			math3d.Lerp(peak.X, a.X, tl), math3d.Lerp(peak.X, b.X, tr),
			math3d.Lerp(peakInv, aInv, tl), math3d.Lerp(peakInv, bInv, tr),
			c, packed)
	}
}

// fillSpan writes one row between xl and xr, interpolating reciprocal
// depth across it.
func (r *Rasterizer) fillSpan(row int, xl, xr, invL, invR float64, c Color, packed uint32) {
	if xl > xr {
		xl, xr = xr, xl
		invL, invR = invR, invL
	}
	first := max(pixel(xl), 0)
	last := min(pixel(xr), r.fb.Width-1)
	width := xr - xl

	for x := first; x <= last; x++ {
		inv := invL
		if width > 0 {
			u := math3d.Clamp((float64(x)+0.5-xl)/width, 0, 1)
			inv = math3d.Lerp(invL, invR, u)
		}
		if !(inv > 0) || math.IsInf(inv, 0) {
			continue
		}
		r.plot(x, row, 1/inv, c, packed)
	}
}

// plot writes a pixel if it passes the depth test.
func (r *Rasterizer) plot(x, y int, depth float64, c Color, packed uint32) {
	if !r.depth.TestAndSet(x, y, depth) {
		return
	}
	r.fb.Pixels[y*r.fb.Width+x] = packed
	r.Stats.PixelsWritten++
	if r.DebugSink != nil {
		r.DebugSink(x, y, c)
	}
}

// progress returns how far y is from `from` toward `to`, clamped to [0, 1].
func progress(from, to, y float64) float64 {
	if to == from {
		return 1
	}
	return math3d.Clamp((y-from)/(to-from), 0, 1)
}

// pixel returns the pixel index containing coordinate v.
func pixel(v float64) int {
	return int(math.Floor(v))
}
