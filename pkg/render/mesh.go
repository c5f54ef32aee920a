package render

import "github.com/taigrr/softrast/pkg/math3d"

// Mesh is an indexed triangle list ready for rendering.
type Mesh struct {
	Vertices  []math3d.Vec3
	Triangles []IndexTriangle
}

// NewMesh creates a mesh over vertices with no faces.
func NewMesh(vertices []math3d.Vec3) *Mesh {
	return &Mesh{Vertices: vertices}
}

// AddTriangle appends a face over existing vertices and caches its normal.
func (m *Mesh) AddTriangle(a, b, c int, color Color) {
	m.Triangles = append(m.Triangles, NewIndexTriangle(m.Vertices, a, b, c, color))
}

// UpdateNormals recomputes every cached face normal.
func (m *Mesh) UpdateNormals() {
	for i := range m.Triangles {
		m.Triangles[i].UpdateNormal(m.Vertices)
	}
}

// Radius returns the largest distance of any vertex from the mesh origin.
func (m *Mesh) Radius() float64 {
	var r float64
	for _, v := range m.Vertices {
		r = max(r, v.Len())
	}
	return r
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Triangles: make([]IndexTriangle, len(m.Triangles)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Triangles, m.Triangles)
	return clone
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Renderable is anything the rasterizer can draw: a mesh already scaled and
// rotated into world orientation, placed at a world position.
type Renderable interface {
	Position() math3d.Vec3
	Radius() float64
	TransformedMesh() *Mesh
}
