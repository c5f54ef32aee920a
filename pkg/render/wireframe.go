package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// RenderWireframe clears the frame and draws the edges of every object's
// triangles, depth tested against each other. With clip set, edges are
// trimmed to the frustum first; otherwise edges that cannot be projected are
// skipped.
func (r *Rasterizer) RenderWireframe(objects []Renderable, clip bool) *Framebuffer {
	r.Clear()
	for _, obj := range objects {
		r.DrawObjectWireframe(obj, clip)
	}
	return r.fb
}

// DrawObjectWireframe draws one object's edges in its unshaded face colors.
func (r *Rasterizer) DrawObjectWireframe(obj Renderable, clip bool) {
	mesh := obj.TransformedMesh()
	if mesh == nil || len(mesh.Triangles) == 0 {
		return
	}
	r.Stats.ObjectsTested++
	if !r.camera.WorldFrustum().IsObjectPartlyInside(obj.Position(), obj.Radius()) {
		r.Stats.ObjectsCulled++
		return
	}

	verts := r.cameraSpace(obj.Position(), mesh.Vertices)
	frustum := r.camera.LocalFrustum()
	for _, t := range mesh.Triangles {
		p := t.Apices(verts)
		for i := range 3 {
			a, b := p[i], p[(i+1)%3]
			if clip {
				var ok bool
				if a, b, ok = frustum.ClipSegment(a, b); !ok {
					continue
				}
			}
			r.DrawLine3D(a, b, t.Color())
		}
	}
}

// DrawLine3D draws a camera-space segment with per-pixel depth testing.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, c Color) {
	sa, okA := r.Project(a)
	sb, okB := r.Project(b)
	if !okA || !okB {
		return
	}
	r.drawLine(sa, sb, c)
}

// drawLine steps along the longer screen axis, interpolating reciprocal
// depth so the depth at each step is perspective correct.
func (r *Rasterizer) drawLine(a, b ScreenPoint, c Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy))))
	// Unclipped edges can project far off screen.
	steps = min(steps, 4*(r.fb.Width+r.fb.Height))
	if steps == 0 {
		steps = 1
	}

	packed := Pack(c)
	invA, invB := 1/a.Depth, 1/b.Depth
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := pixel(math3d.Lerp(a.X, b.X, t))
		y := pixel(math3d.Lerp(a.Y, b.Y, t))
		if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
			continue
		}
		r.plot(x, y, 1/math3d.Lerp(invA, invB, t), c, packed)
	}
}
