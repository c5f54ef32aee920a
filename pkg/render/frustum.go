package render

import (
	"cmp"
	"slices"

	"github.com/taigrr/softrast/pkg/math3d"
)

const (
	parallelEpsilon = 1e-12 // below this |n·dir| a line is parallel to a plane
	boundaryEpsilon = 1e-9  // slack when testing points that lie on a face
	mergeEpsilon    = 1e-9  // crossings closer than this are the same point
)

// FrustumPlane indexes the six planes of a Frustum. The order is fixed.
type FrustumPlane int

const (
	FrustumNear FrustumPlane = iota
	FrustumFar
	FrustumUp
	FrustumDown
	FrustumLeft
	FrustumRight
)

var planeNames = [...]string{"near", "far", "up", "down", "left", "right"}

func (p FrustumPlane) String() string {
	if p < 0 || int(p) >= len(planeNames) {
		return "invalid"
	}
	return planeNames[p]
}

// IsSide reports whether p is one of the four planes through the eye.
func (p FrustumPlane) IsSide() bool {
	return p >= FrustumUp && p <= FrustumRight
}

// Diagonal indexes the four corner edges of a Frustum.
type Diagonal int

const (
	DiagonalUpLeft Diagonal = iota
	DiagonalUpRight
	DiagonalDownRight
	DiagonalDownLeft
)

// Segment is a line segment from A to B.
type Segment struct {
	A, B math3d.Vec3
}

// Frustum is a truncated pyramid bounded by six planes whose normals point
// outward. The diagonals run along the edges where adjacent side planes
// meet, from the near-plane corner to the far-plane corner.
type Frustum struct {
	Planes    [6]Plane
	Diagonals [4]Segment
}

// NewFrustum builds a camera-space frustum. The eye sits at the origin
// looking down -Z. viewport is the size of the view rectangle at
// viewPlaneDistance from the eye.
func NewFrustum(viewport math3d.Vec2, viewPlaneDistance, near, far float64) Frustum {
	hx, hy, d := viewport.X/2, viewport.Y/2, viewPlaneDistance
	origin := math3d.Zero3()

	var f Frustum
	f.Planes[FrustumNear] = NewPlane(math3d.V3(0, 0, -near), math3d.V3(0, 0, 1))
	f.Planes[FrustumFar] = NewPlane(math3d.V3(0, 0, -far), math3d.V3(0, 0, -1))
	// Each side normal is cross(edge midpoint direction, axis along the edge),
	// oriented away from the view axis.
	f.Planes[FrustumUp] = NewPlane(origin, math3d.V3(0, d, hy))
	f.Planes[FrustumDown] = NewPlane(origin, math3d.V3(0, -d, hy))
	f.Planes[FrustumLeft] = NewPlane(origin, math3d.V3(-d, 0, hx))
	f.Planes[FrustumRight] = NewPlane(origin, math3d.V3(d, 0, hx))

	corner := func(sx, sy float64) Segment {
		dir := math3d.V3(sx*hx, sy*hy, -d)
		return Segment{A: dir.Scale(near / d), B: dir.Scale(far / d)}
	}
	f.Diagonals[DiagonalUpLeft] = corner(-1, 1)
	f.Diagonals[DiagonalUpRight] = corner(1, 1)
	f.Diagonals[DiagonalDownRight] = corner(1, -1)
	f.Diagonals[DiagonalDownLeft] = corner(-1, -1)
	return f
}

// Transform returns the frustum rotated by rot and then moved by offset.
func (f *Frustum) Transform(rot math3d.Quat, offset math3d.Vec3) Frustum {
	var out Frustum
	for i, p := range f.Planes {
		out.Planes[i] = p.Transform(rot, offset)
	}
	for i, s := range f.Diagonals {
		out.Diagonals[i] = Segment{
			A: rot.Rotate(s.A).Add(offset),
			B: rot.Rotate(s.B).Add(offset),
		}
	}
	return out
}

// Translate moves every plane and diagonal by delta in place.
func (f *Frustum) Translate(delta math3d.Vec3) {
	for i := range f.Planes {
		f.Planes[i] = f.Planes[i].Translate(delta)
	}
	for i := range f.Diagonals {
		f.Diagonals[i].A = f.Diagonals[i].A.Add(delta)
		f.Diagonals[i].B = f.Diagonals[i].B.Add(delta)
	}
}

// IsPointInside reports whether p is on the non-positive side of all six
// planes.
func (f *Frustum) IsPointInside(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].IsOnPositiveSide(p) {
			return false
		}
	}
	return true
}

// IsObjectPartlyInside reports whether a sphere may overlap the frustum.
// It is conservative: spheres near a frustum edge can pass while being
// outside.
func (f *Frustum) IsObjectPartlyInside(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center)-radius >= 0 {
			return false
		}
	}
	return true
}

// IsObjectCompletelyInside reports whether a sphere lies strictly inside all
// six planes.
func (f *Frustum) IsObjectCompletelyInside(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center)+radius >= 0 {
			return false
		}
	}
	return true
}

// SegmentIntersects reports whether a and b lie on different sides of the
// given plane.
func (f *Frustum) SegmentIntersects(a, b math3d.Vec3, plane FrustumPlane) bool {
	return f.Planes[plane].SegmentIntersects(a, b)
}

// ClipSegment trims the segment ab to the part inside the frustum. A segment
// with both endpoints inside comes back unchanged; one that misses the
// frustum returns false.
func (f *Frustum) ClipSegment(a, b math3d.Vec3) (math3d.Vec3, math3d.Vec3, bool) {
	aIn, bIn := f.IsPointInside(a), f.IsPointInside(b)
	if aIn && bIn {
		return a, b, true
	}

	hits := f.crossings(a, b)
	if aIn || bIn {
		if !invariant(len(hits) > 0, "segment %v-%v leaves the frustum without a crossing", a, b) {
			return a, b, false
		}
		if aIn {
			return a, hits[len(hits)-1].point, true
		}
		return hits[0].point, b, true
	}

	if len(hits) < 2 {
		return a, b, false
	}
	return hits[0].point, hits[len(hits)-1].point, true
}

// CornerPoint intersects the diagonal shared by two adjacent side planes
// with plane. It fails for near/far, for opposite side planes, for a
// diagonal parallel to plane, and when the hit lies off the near-to-far
// stretch of the diagonal.
func (f *Frustum) CornerPoint(a, b FrustumPlane, plane Plane) (math3d.Vec3, bool) {
	d, ok := diagonalBetween(a, b)
	if !ok {
		return math3d.Vec3{}, false
	}
	seg := f.Diagonals[d]
	p, t, ok := plane.LineIntersection(seg.A, seg.B)
	switch {
	case !ok || t < -boundaryEpsilon || t > 1+boundaryEpsilon:
		return math3d.Vec3{}, false
	case t < 0:
		return seg.A, true
	case t > 1:
		return seg.B, true
	}
	return p, true
}

// crossing is a point where a segment passes through a frustum face.
type crossing struct {
	point math3d.Vec3
	t     float64
	plane FrustumPlane
}

// crossings returns every face crossing of ab that lies on the frustum
// surface, ordered from a to b. Crossings through an edge or corner are
// reported once.
func (f *Frustum) crossings(a, b math3d.Vec3) []crossing {
	var hits []crossing
	for i := range f.Planes {
		plane := FrustumPlane(i)
		if !f.Planes[i].SegmentIntersects(a, b) {
			continue
		}
		p, t, ok := f.Planes[i].LineIntersection(a, b)
		if !ok || !f.isInsideExcept(p, plane) {
			continue
		}
		if slices.ContainsFunc(hits, func(h crossing) bool {
			return h.point.ApproxEqual(p, mergeEpsilon)
		}) {
			continue
		}
		hits = append(hits, crossing{point: p, t: t, plane: plane})
	}
	slices.SortFunc(hits, func(x, y crossing) int { return cmp.Compare(x.t, y.t) })
	return hits
}

// exitCrossing returns where the segment from inside point a to outside
// point b leaves the frustum.
func (f *Frustum) exitCrossing(a, b math3d.Vec3) (crossing, bool) {
	hits := f.crossings(a, b)
	if len(hits) == 0 {
		return crossing{}, false
	}
	return hits[len(hits)-1], true
}

// passThrough returns the entry and exit crossings of a segment whose
// endpoints are both outside. It fails when the segment misses the frustum.
func (f *Frustum) passThrough(a, b math3d.Vec3) (crossing, crossing, bool) {
	hits := f.crossings(a, b)
	if len(hits) < 2 {
		return crossing{}, crossing{}, false
	}
	return hits[0], hits[len(hits)-1], true
}

// isInsideExcept tests p against every plane but skip, with a little slack
// so points on a shared edge still count.
func (f *Frustum) isInsideExcept(p math3d.Vec3, skip FrustumPlane) bool {
	eps := boundaryEpsilon * (1 + p.Len())
	for i := range f.Planes {
		if FrustumPlane(i) == skip {
			continue
		}
		if f.Planes[i].DistanceToPoint(p) > eps {
			return false
		}
	}
	return true
}

// diagonalBetween maps an adjacent pair of side planes to their shared
// diagonal.
func diagonalBetween(a, b FrustumPlane) (Diagonal, bool) {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == FrustumUp && b == FrustumLeft:
		return DiagonalUpLeft, true
	case a == FrustumUp && b == FrustumRight:
		return DiagonalUpRight, true
	case a == FrustumDown && b == FrustumRight:
		return DiagonalDownRight, true
	case a == FrustumDown && b == FrustumLeft:
		return DiagonalDownLeft, true
	}
	return 0, false
}

// adjacent reports whether two side planes share a diagonal.
func adjacent(a, b FrustumPlane) bool {
	_, ok := diagonalBetween(a, b)
	return ok
}

// across returns the two side planes that meet p's opposite plane.
func across(p FrustumPlane) [2]FrustumPlane {
	if p == FrustumLeft || p == FrustumRight {
		return [2]FrustumPlane{FrustumUp, FrustumDown}
	}
	return [2]FrustumPlane{FrustumLeft, FrustumRight}
}
