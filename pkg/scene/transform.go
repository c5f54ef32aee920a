// Package scene holds the objects a softrast frame is drawn from: transforms,
// mesh-backed objects kept in a handle arena, and TOML scene files.
package scene

import "github.com/taigrr/softrast/pkg/math3d"

// Transform places an object in the world. Scale is applied first, then
// Rotation, then the translation to Position.
type Transform struct {
	Position math3d.Vec3
	Rotation math3d.Quat
	Scale    math3d.Vec3
}

// NewTransform returns an unrotated, unscaled transform at position.
func NewTransform(position math3d.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: math3d.QuatIdentity(),
		Scale:    math3d.One3(),
	}
}

// Forward returns the transform's -Z axis in world space.
func (t Transform) Forward() math3d.Vec3 { return t.Rotation.Rotate(math3d.Forward()) }

// Right returns the transform's +X axis in world space.
func (t Transform) Right() math3d.Vec3 { return t.Rotation.Rotate(math3d.Right()) }

// Up returns the transform's +Y axis in world space.
func (t Transform) Up() math3d.Vec3 { return t.Rotation.Rotate(math3d.Up()) }

// Apply maps a local point to world space.
func (t Transform) Apply(p math3d.Vec3) math3d.Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}
