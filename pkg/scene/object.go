package scene

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Object is a mesh placed in the world. It keeps the authoring mesh
// untouched and renders a copy that is scaled and rotated into world
// orientation; translation is applied by the renderer.
type Object struct {
	Name string

	mesh        *render.Mesh // authoring shape
	transformed *render.Mesh // scaled and rotated
	scaled      []math3d.Vec3
	transform   Transform
	radius      float64

	parent   Handle
	children []Handle
}

// NewObject creates an object over mesh. The mesh is not copied and must
// not be modified while the object uses it.
func NewObject(mesh *render.Mesh, t Transform) *Object {
	o := &Object{
		mesh:        mesh,
		transformed: mesh.Clone(),
		transform:   t,
		parent:      NoHandle,
	}
	o.transform.Rotation = t.Rotation.Normalize()
	o.updateScale()
	return o
}

// Position implements render.Renderable.
func (o *Object) Position() math3d.Vec3 { return o.transform.Position }

// Radius implements render.Renderable. It is the largest distance of a
// transformed vertex from the object's position.
func (o *Object) Radius() float64 { return o.radius }

// TransformedMesh implements render.Renderable.
func (o *Object) TransformedMesh() *render.Mesh { return o.transformed }

// Mesh returns the authoring mesh.
func (o *Object) Mesh() *render.Mesh { return o.mesh }

// Transform returns the object's transform.
func (o *Object) Transform() Transform { return o.transform }

// Parent returns the parent handle, or NoHandle.
func (o *Object) Parent() Handle { return o.parent }

// Children returns the handles of direct children.
func (o *Object) Children() []Handle { return o.children }

func (o *Object) setRotation(q math3d.Quat) {
	o.transform.Rotation = q.Normalize()
	o.updateRotation()
}

func (o *Object) setScale(s math3d.Vec3) {
	o.transform.Scale = s
	o.updateScale()
}

// updateScale rebuilds the scaled vertex cache, then everything derived
// from it.
func (o *Object) updateScale() {
	o.scaled = o.scaled[:0]
	for _, v := range o.mesh.Vertices {
		o.scaled = append(o.scaled, v.Mul(o.transform.Scale))
	}
	o.updateRotation()
}

// updateRotation rotates the scaled vertices into the transformed mesh and
// refreshes its normals and the bounding radius.
func (o *Object) updateRotation() {
	rot := o.transform.Rotation
	verts := o.transformed.Vertices
	var r float64
	for i, v := range o.scaled {
		verts[i] = rot.Rotate(v)
		r = max(r, verts[i].Len())
	}
	o.transformed.UpdateNormals()
	o.radius = r
}
