package models

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Cube returns a side-2 cube centered on the origin.
func Cube(color render.Color) *render.Mesh {
	verts := []math3d.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1},
	}
	return fromIndices(verts, []int{
		0, 1, 2, 0, 2, 3,
		4, 0, 3, 4, 3, 7,
		5, 4, 7, 5, 7, 6,
		1, 5, 6, 1, 6, 2,
		0, 4, 5, 0, 5, 1,
		3, 6, 7, 3, 2, 6,
	}, color)
}

// SingleTriangle returns one upright triangle in the XY plane, visible from
// +Z.
func SingleTriangle(color render.Color) *render.Mesh {
	verts := []math3d.Vec3{
		{X: 0.6, Y: -0.6}, {X: -0.6, Y: -0.6}, {X: 0, Y: 1},
	}
	return fromIndices(verts, []int{0, 1, 2}, color)
}

// Quad returns a unit square in the XY plane centered on the origin,
// visible from +Z.
func Quad(color render.Color) *render.Mesh {
	verts := []math3d.Vec3{
		{X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}, {X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5},
	}
	return fromIndices(verts, []int{0, 2, 1, 0, 3, 2}, color)
}

// fromIndices builds a mesh from a flat index list, three per triangle.
// Trailing indices that do not form a triangle are ignored.
func fromIndices(verts []math3d.Vec3, indices []int, color render.Color) *render.Mesh {
	m := render.NewMesh(verts)
	for i := 0; i+2 < len(indices); i += 3 {
		m.AddTriangle(indices[i], indices[i+1], indices[i+2], color)
	}
	return m
}
