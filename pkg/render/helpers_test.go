package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

// testFrustum has a 90° field of view, so a camera-space point is inside
// when |x| <= -z, |y| <= -z and 1 <= -z <= 100.
func testFrustum() Frustum {
	return NewFrustum(math3d.V2(1, 1), 0.5, 1, 100)
}

// insideSquarePyramid is the closed-form membership test for testFrustum.
func insideSquarePyramid(p math3d.Vec3) bool {
	depth := -p.Z
	return depth >= 1 && depth <= 100 && math.Abs(p.X) <= depth && math.Abs(p.Y) <= depth
}

// nearBoundary reports whether p is too close to a face of testFrustum for
// an exact comparison.
func nearBoundary(p math3d.Vec3) bool {
	depth := -p.Z
	const eps = 1e-6
	return math.Abs(depth-1) < eps || math.Abs(depth-100) < eps ||
		math.Abs(math.Abs(p.X)-depth) < eps || math.Abs(math.Abs(p.Y)-depth) < eps
}

// testObject is a mesh placed at a world position.
type testObject struct {
	pos  math3d.Vec3
	mesh *Mesh
}

func (o testObject) Position() math3d.Vec3 { return o.pos }
func (o testObject) Radius() float64       { return o.mesh.Radius() }
func (o testObject) TransformedMesh() *Mesh { return o.mesh }

// testCube is a side-2 cube centered on its origin, wound so outward faces
// are front faces.
func testCube(c Color) *Mesh {
	m := NewMesh([]math3d.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1},
	})
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 3},
		{4, 0, 3}, {4, 3, 7},
		{5, 4, 7}, {5, 7, 6},
		{1, 5, 6}, {1, 6, 2},
		{0, 4, 5}, {0, 5, 1},
		{3, 6, 7}, {3, 2, 6},
	}
	for _, f := range faces {
		m.AddTriangle(f[0], f[1], f[2], c)
	}
	return m
}

// createTestRasterizer creates a rasterizer looking down -Z from the
// origin with a 90° field of view and a 1x1 viewport.
func createTestRasterizer(t testing.TB, width, height int, near float64) (*Rasterizer, *Framebuffer) {
	t.Helper()
	camera, err := NewCamera(math3d.Zero3(), math3d.QuatIdentity(), math.Pi/2, near, 1000, math3d.V2(1, 1))
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	fb := NewFramebuffer(width, height)
	return NewRasterizer(camera, fb), fb
}

// totalArea sums the areas of clipped triangles.
func totalArea(vertices []math3d.Vec3, tris []Triangle) float64 {
	var sum float64
	for _, t := range tris {
		p := t.Apices(vertices)
		sum += TriangleArea(p[0], p[1], p[2])
	}
	return sum
}

// assertInsideFrustum fails if any apex lies measurably outside f.
func assertInsideFrustum(t *testing.T, f *Frustum, vertices []math3d.Vec3, tris []Triangle) {
	t.Helper()
	for _, tri := range tris {
		for _, p := range tri.Apices(vertices) {
			for i, pl := range f.Planes {
				if d := pl.DistanceToPoint(p); d > 1e-6*(1+p.Len()) {
					t.Errorf("apex %v is %v outside the %v plane", p, d, FrustumPlane(i))
				}
			}
		}
	}
}
