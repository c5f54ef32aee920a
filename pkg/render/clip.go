package render

import "github.com/taigrr/softrast/pkg/math3d"

// minTriangleArea is the smallest area a clipped piece may have.
const minTriangleArea = 1e-12

// ClipTriangles clips camera-space triangles to the frustum. Triangles fully
// inside come back unchanged; partly visible ones are replaced by
// ApexTriangles covering (at most) their visible part. Triangles with no
// visible part are dropped.
//
// Where the visible part wraps around a frustum edge, the missing corner is
// rebuilt from the diagonal along that edge. Pieces that cannot be rebuilt
// are dropped, so the output never covers more than the input.
func (f *Frustum) ClipTriangles(vertices []math3d.Vec3, triangles []Triangle) []Triangle {
	inside := make([]bool, len(vertices))
	for i, v := range vertices {
		inside[i] = f.IsPointInside(v)
	}

	out := make([]Triangle, 0, len(triangles))
	for _, tri := range triangles {
		p := tri.Apices(vertices)

		var in [3]bool
		if it, ok := tri.(IndexTriangle); ok {
			in = [3]bool{inside[it.V[0]], inside[it.V[1]], inside[it.V[2]]}
		} else {
			in = [3]bool{f.IsPointInside(p[0]), f.IsPointInside(p[1]), f.IsPointInside(p[2])}
		}

		if in[0] && in[1] && in[2] {
			out = append(out, tri)
			continue
		}

		plane, ok := TrianglePlane(p[0], p[1], p[2])
		if !ok {
			continue
		}
		c := triangleClipper{
			f:      f,
			plane:  plane,
			normal: tri.Normal(),
			color:  tri.Color(),
			out:    out,
		}
		c.clip(p, in)
		out = c.out
	}
	return out
}

// triangleClipper clips one source triangle. Sub-triangles produced while
// splitting share the source triangle's plane, normal and color.
type triangleClipper struct {
	f      *Frustum
	plane  Plane // plane of the source triangle
	normal math3d.Vec3
	color  Color
	out    []Triangle
}

func (c *triangleClipper) clip(p [3]math3d.Vec3, in [3]bool) {
	n := 0
	for _, v := range in {
		if v {
			n++
		}
	}

	switch n {
	case 3:
		c.emit(p[0], p[1], p[2])
	case 2:
		k := 0
		for in[k] {
			k++
		}
		c.clipTwoInside(p[(k+1)%3], p[(k+2)%3], p[k])
	case 1:
		k := 0
		for !in[k] {
			k++
		}
		c.clipOneInside(p[k], p[(k+1)%3], p[(k+2)%3])
	default:
		c.clipNoneInside(p)
	}
}

// clipTwoInside handles a triangle with a and b inside and out outside.
func (c *triangleClipper) clipTwoInside(a, b, out math3d.Vec3) {
	ia, okA := c.f.exitCrossing(a, out)
	ib, okB := c.f.exitCrossing(b, out)
	if !invariant(okA && okB, "inside apex has no exit crossing") {
		return
	}
	c.emit(a, b, ib.point)
	c.emit(a, ib.point, ia.point)
	c.emitCorner(ib, ia, [3]math3d.Vec3{a, b, out})
}

// clipOneInside handles a triangle with a inside and b, cc outside.
func (c *triangleClipper) clipOneInside(a, b, cc math3d.Vec3) {
	i1, ok1 := c.f.exitCrossing(a, b)
	i2, ok2 := c.f.exitCrossing(a, cc)
	if !invariant(ok1 && ok2, "inside apex has no exit crossing") {
		return
	}

	if i1.plane != i2.plane && i1.plane.IsSide() && i2.plane.IsSide() {
		// The far edge passes through the view: split it there so each half
		// has two inside apices.
		if enter, exit, ok := c.f.passThrough(b, cc); ok {
			m := enter.point.Midpoint(exit.point)
			c.clip([3]math3d.Vec3{a, b, m}, [3]bool{true, false, true})
			c.clip([3]math3d.Vec3{a, m, cc}, [3]bool{true, true, false})
			return
		}
	}

	c.emit(a, i1.point, i2.point)
	c.emitCorner(i1, i2, [3]math3d.Vec3{a, b, cc})
}

// clipNoneInside handles a triangle with every apex outside. It looks for an
// edge that passes through the frustum and splits the triangle there.
func (c *triangleClipper) clipNoneInside(p [3]math3d.Vec3) {
	for k := range 3 {
		x, y, z := p[k], p[(k+1)%3], p[(k+2)%3]
		enter, exit, ok := c.f.passThrough(x, y)
		if !ok {
			continue
		}
		m := enter.point.Midpoint(exit.point)
		c.clip([3]math3d.Vec3{x, m, z}, [3]bool{false, true, false})
		c.clip([3]math3d.Vec3{m, y, z}, [3]bool{true, false, false})
		return
	}
	c.clipSpanning(p)
}

// clipSpanning covers a triangle that crosses the whole view with no edge
// inside it. The visible part is the quad where the triangle cuts the four
// diagonals.
func (c *triangleClipper) clipSpanning(tri [3]math3d.Vec3) {
	pairs := [4][2]FrustumPlane{
		{FrustumUp, FrustumLeft},
		{FrustumUp, FrustumRight},
		{FrustumDown, FrustumRight},
		{FrustumDown, FrustumLeft},
	}
	var q [4]math3d.Vec3
	for i, pair := range pairs {
		p, ok := c.corner(pair[0], pair[1], tri)
		if !ok {
			return
		}
		q[i] = p
	}
	c.emit(q[0], q[1], q[2])
	c.emit(q[0], q[2], q[3])
}

// emitCorner fills the gap between two exit crossings of tri on different
// side planes. The fan is rooted at from and ends at to.
func (c *triangleClipper) emitCorner(from, to crossing, tri [3]math3d.Vec3) {
	if from.plane == to.plane || !from.plane.IsSide() || !to.plane.IsSide() {
		return
	}
	path, ok := c.cornerPath(from.plane, to.plane, tri)
	if !ok {
		return
	}
	fan := append([]math3d.Vec3{from.point}, path...)
	fan = append(fan, to.point)
	for i := 1; i+1 < len(fan); i++ {
		c.emit(fan[0], fan[i], fan[i+1])
	}
}

// cornerPath returns the frustum corners the clipped outline passes between
// leaving side plane a and arriving at side plane b: one for adjacent planes,
// two for opposite ones.
func (c *triangleClipper) cornerPath(a, b FrustumPlane, tri [3]math3d.Vec3) ([]math3d.Vec3, bool) {
	if adjacent(a, b) {
		p, ok := c.corner(a, b, tri)
		if !ok {
			return nil, false
		}
		return []math3d.Vec3{p}, true
	}
	for _, mid := range across(a) {
		p1, ok1 := c.corner(a, mid, tri)
		p2, ok2 := c.corner(mid, b, tri)
		if ok1 && ok2 {
			return []math3d.Vec3{p1, p2}, true
		}
	}
	return nil, false
}

// corner rebuilds the corner between two side planes, accepting it only if
// it lies on tri.
func (c *triangleClipper) corner(a, b FrustumPlane, tri [3]math3d.Vec3) (math3d.Vec3, bool) {
	p, ok := c.f.CornerPoint(a, b, c.plane)
	if !ok || !onTriangle(p, tri) {
		return math3d.Vec3{}, false
	}
	return p, true
}

// onTriangle reports whether p, already on the plane of tri, lies within
// its edges.
func onTriangle(p math3d.Vec3, tri [3]math3d.Vec3) bool {
	n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	eps := -boundaryEpsilon * n.LenSq()
	for i := range 3 {
		v0, v1 := tri[i], tri[(i+1)%3]
		if v1.Sub(v0).Cross(p.Sub(v0)).Dot(n) < eps {
			return false
		}
	}
	return true
}

// emit appends a piece of the source triangle, keeping its winding and
// dropping slivers.
func (c *triangleClipper) emit(a, b, cc math3d.Vec3) {
	cross := b.Sub(a).Cross(cc.Sub(a))
	if cross.Len()/2 < minTriangleArea {
		return
	}
	if cross.Dot(c.plane.Normal) < 0 {
		b, cc = cc, b
	}
	c.out = append(c.out, ApexTriangle{
		P:          [3]math3d.Vec3{a, b, cc},
		FaceNormal: c.normal,
		FaceColor:  c.color,
	})
}
