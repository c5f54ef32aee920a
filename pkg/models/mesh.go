// Package models provides meshes for the softrast renderer: built-in
// primitives and a glTF importer.
package models

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Mesh is an imported mesh with per-face materials. Convert it with
// ToRenderMesh before handing it to a scene.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the part of a glTF material the renderer uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// Color returns the base color as an opaque render color.
func (m Material) Color() render.Color {
	channel := func(v float64) uint8 {
		return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
	}
	return render.RGB(channel(m.BaseColor[0]), channel(m.BaseColor[1]), channel(m.BaseColor[2]))
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddMaterial appends a material and returns its index.
func (m *Mesh) AddMaterial(mat Material) int {
	m.Materials = append(m.Materials, mat)
	return len(m.Materials) - 1
}

// AddFace appends a triangle over existing vertices.
func (m *Mesh) AddFace(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: material})
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Fit centers the mesh on its origin and scales it so its largest
// dimension equals size.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	center := m.Center()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	scale := 1.0
	if maxDim > 0 {
		scale = size / maxDim
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Sub(center).Scale(scale)
	}
	m.CalculateBounds()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FaceColor returns the base color of face i's material, or fallback when
// the face has none.
func (m *Mesh) FaceColor(i int, fallback render.Color) render.Color {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.Color()
	}
	return fallback
}

// ToRenderMesh converts the mesh into a render mesh with one flat color per
// triangle. Faces that reference missing vertices are dropped.
func (m *Mesh) ToRenderMesh(fallback render.Color) *render.Mesh {
	verts := make([]math3d.Vec3, len(m.Vertices))
	copy(verts, m.Vertices)
	out := render.NewMesh(verts)
	for i, f := range m.Faces {
		if !m.validFace(f) {
			continue
		}
		out.AddTriangle(f.V[0], f.V[1], f.V[2], m.FaceColor(i, fallback))
	}
	return out
}

func (m *Mesh) validFace(f Face) bool {
	for _, v := range f.V {
		if v < 0 || v >= len(m.Vertices) {
			return false
		}
	}
	return true
}
