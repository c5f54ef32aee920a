package render

import "github.com/taigrr/softrast/pkg/math3d"

// Triangle is a drawable face. Mesh faces are IndexTriangles that point into
// a vertex buffer; clipping produces ApexTriangles that carry their own
// positions.
type Triangle interface {
	// Apices returns the three corner positions. IndexTriangles look them up
	// in vertices; ApexTriangles ignore it.
	Apices(vertices []math3d.Vec3) [3]math3d.Vec3
	Normal() math3d.Vec3
	Color() Color
}

// IndexTriangle references three vertices of a mesh by index.
type IndexTriangle struct {
	V          [3]int      // Indices into the owning vertex buffer
	FaceNormal math3d.Vec3 // Cached unit normal
	FaceColor  Color
}

// NewIndexTriangle creates a triangle over vertices and caches its normal.
func NewIndexTriangle(vertices []math3d.Vec3, a, b, c int, color Color) IndexTriangle {
	t := IndexTriangle{V: [3]int{a, b, c}, FaceColor: color}
	t.UpdateNormal(vertices)
	return t
}

func (t IndexTriangle) Apices(vertices []math3d.Vec3) [3]math3d.Vec3 {
	return [3]math3d.Vec3{vertices[t.V[0]], vertices[t.V[1]], vertices[t.V[2]]}
}

func (t IndexTriangle) Normal() math3d.Vec3 { return t.FaceNormal }

func (t IndexTriangle) Color() Color { return t.FaceColor }

// UpdateNormal recomputes the cached normal from vertices.
func (t *IndexTriangle) UpdateNormal(vertices []math3d.Vec3) {
	p := t.Apices(vertices)
	t.FaceNormal = TriangleNormal(p[0], p[1], p[2])
}

// ApexTriangle stores its three positions directly. It never indexes into a
// vertex buffer.
type ApexTriangle struct {
	P          [3]math3d.Vec3
	FaceNormal math3d.Vec3
	FaceColor  Color
}

func (t ApexTriangle) Apices([]math3d.Vec3) [3]math3d.Vec3 { return t.P }

func (t ApexTriangle) Normal() math3d.Vec3 { return t.FaceNormal }

func (t ApexTriangle) Color() Color { return t.FaceColor }

// TriangleNormal returns normalize(cross(b-a, c-b)). Faces that the camera
// should see are wound so this normal points away from the viewer.
func TriangleNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(b)).Normalize()
}

// TriangleArea returns the area of the triangle abc.
func TriangleArea(a, b, c math3d.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}
