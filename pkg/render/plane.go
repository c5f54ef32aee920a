// Package render provides software rasterization for softrast: frustum
// culling and clipping, a scanline rasterizer with a depth buffer, and
// terminal/PNG presentation of the result.
package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Plane is an oriented plane through Point with unit Normal. The plane
// equation is Normal·p + D = 0; points with a positive signed distance lie
// on the positive (outside) side.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
	D      float64
}

// NewPlane creates a plane through point with the given normal. The normal
// is normalized and D is derived from point.
func NewPlane(point, normal math3d.Vec3) Plane {
	p := Plane{Point: point, Normal: normal.Normalize()}
	p.recompute()
	return p
}

// recompute refreshes D after Point or Normal changed.
func (p *Plane) recompute() {
	p.D = -p.Normal.Dot(p.Point)
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = outside (same side as normal), negative = inside.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// IsOnPositiveSide reports whether point lies strictly outside the plane.
func (p Plane) IsOnPositiveSide(point math3d.Vec3) bool {
	return p.DistanceToPoint(point) > 0
}

// SegmentIntersects reports whether a and b lie on different sides of the
// plane.
func (p Plane) SegmentIntersects(a, b math3d.Vec3) bool {
	return p.IsOnPositiveSide(a) != p.IsOnPositiveSide(b)
}

// LineIntersection returns the point where the line through a and b meets
// the plane, along with the line parameter t (a at 0, b at 1). It fails for
// lines parallel to the plane.
func (p Plane) LineIntersection(a, b math3d.Vec3) (math3d.Vec3, float64, bool) {
	ab := b.Sub(a)
	denom := ab.Dot(p.Normal)
	if math.Abs(denom) < parallelEpsilon {
		return math3d.Vec3{}, 0, false
	}
	t := p.Point.Sub(a).Dot(p.Normal) / denom
	return a.Add(ab.Scale(t)), t, true
}

// Translate moves the plane by delta without changing its orientation.
func (p Plane) Translate(delta math3d.Vec3) Plane {
	p.Point = p.Point.Add(delta)
	p.recompute()
	return p
}

// Transform rotates the plane by rot and then moves it by offset.
func (p Plane) Transform(rot math3d.Quat, offset math3d.Vec3) Plane {
	p.Point = rot.Rotate(p.Point).Add(offset)
	p.Normal = rot.Rotate(p.Normal).Normalize()
	p.recompute()
	return p
}

// TrianglePlane returns the plane through the three apices, with the
// normal cross(b-a, c-b). It fails for degenerate triangles.
func TrianglePlane(a, b, c math3d.Vec3) (Plane, bool) {
	n := TriangleNormal(a, b, c)
	if n.LenSq() == 0 {
		return Plane{}, false
	}
	return NewPlane(a, n), true
}
