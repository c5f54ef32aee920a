package scene

import (
	"fmt"
	"slices"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Handle addresses an object in an Arena. Handles are never reused.
type Handle int

// NoHandle is the parent of a root object.
const NoHandle Handle = -1

// Arena owns a scene's objects. Objects refer to each other by handle, so
// parent links never form pointer cycles. It is not safe for concurrent
// use.
type Arena struct {
	objects []*Object // nil once removed
	live    int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add places mesh in the scene and returns its handle.
func (a *Arena) Add(mesh *render.Mesh, t Transform) Handle {
	a.objects = append(a.objects, NewObject(mesh, t))
	a.live++
	return Handle(len(a.objects) - 1)
}

// Get returns the object behind h.
func (a *Arena) Get(h Handle) (*Object, error) {
	if h < 0 || int(h) >= len(a.objects) || a.objects[h] == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return a.objects[h], nil
}

// Len returns the number of live objects.
func (a *Arena) Len() int { return a.live }

// Remove deletes the object behind h. Its children become roots.
func (a *Arena) Remove(h Handle) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	a.detach(h, o)
	for _, c := range o.children {
		a.objects[c].parent = NoHandle
	}
	a.objects[h] = nil
	a.live--
	return nil
}

// SetPosition moves the object behind h to pos, carrying its descendants
// along.
func (a *Arena) SetPosition(h Handle, pos math3d.Vec3) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	return a.Move(h, pos.Sub(o.transform.Position))
}

// Move translates the object behind h and its descendants by delta.
func (a *Arena) Move(h Handle, delta math3d.Vec3) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	o.transform.Position = o.transform.Position.Add(delta)
	for _, c := range o.children {
		if err := a.Move(c, delta); err != nil {
			return err
		}
	}
	return nil
}

// SetRotation replaces the orientation of the object behind h.
func (a *Arena) SetRotation(h Handle, q math3d.Quat) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	o.setRotation(q)
	return nil
}

// Rotate applies q on top of the current orientation of the object behind h.
func (a *Arena) Rotate(h Handle, q math3d.Quat) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	o.setRotation(q.Mul(o.transform.Rotation))
	return nil
}

// SetScale replaces the per-axis scale of the object behind h.
func (a *Arena) SetScale(h Handle, s math3d.Vec3) error {
	o, err := a.Get(h)
	if err != nil {
		return err
	}
	o.setScale(s)
	return nil
}

// SetParent makes parent the parent of child. NoHandle detaches child.
func (a *Arena) SetParent(child, parent Handle) error {
	c, err := a.Get(child)
	if err != nil {
		return err
	}
	if parent == NoHandle {
		a.detach(child, c)
		return nil
	}
	p, err := a.Get(parent)
	if err != nil {
		return err
	}
	for h := parent; h != NoHandle; h = a.objects[h].parent {
		if h == child {
			return fmt.Errorf("%w: %d under %d", ErrParentCycle, child, parent)
		}
	}

	a.detach(child, c)
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// detach unlinks o from its parent.
func (a *Arena) detach(h Handle, o *Object) {
	if o.parent == NoHandle {
		return
	}
	p := a.objects[o.parent]
	p.children = slices.DeleteFunc(p.children, func(c Handle) bool { return c == h })
	o.parent = NoHandle
}

// Renderables returns the live objects in handle order.
func (a *Arena) Renderables() []render.Renderable {
	out := make([]render.Renderable, 0, a.live)
	for _, o := range a.objects {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// Find returns the handle of the first live object called name.
func (a *Arena) Find(name string) (Handle, bool) {
	for i, o := range a.objects {
		if o != nil && o.Name == name {
			return Handle(i), true
		}
	}
	return NoHandle, false
}
