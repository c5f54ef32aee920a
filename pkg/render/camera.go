package render

import (
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Camera is a perspective eye in world space. It keeps its frustum twice:
// once in camera space (eye at the origin looking down -Z), used for
// clipping, and once in world space, used for culling.
type Camera struct {
	position math3d.Vec3
	rotation math3d.Quat

	fov      float64     // Horizontal field of view in radians
	near     float64     // Near clipping distance
	far      float64     // Far clipping distance
	viewport math3d.Vec2 // View rectangle size at the view-plane distance
	viewDist float64     // Distance from the eye to the view plane

	local Frustum
	world Frustum
}

// NewCamera creates a camera. fov is in radians and must be in (0, pi).
func NewCamera(position math3d.Vec3, rotation math3d.Quat, fov, near, far float64, viewport math3d.Vec2) (*Camera, error) {
	if fov <= 0 || fov >= math.Pi {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFOV, fov)
	}
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("%w: near=%v far=%v", ErrInvalidClipPlanes, near, far)
	}
	if viewport.X <= 0 || viewport.Y <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, viewport.X, viewport.Y)
	}

	c := &Camera{
		position: position,
		fov:      fov,
		near:     near,
		far:      far,
		viewport: viewport,
		viewDist: viewport.X / (2 * math.Tan(fov/2)),
	}
	c.local = NewFrustum(viewport, c.viewDist, near, far)
	c.SetRotation(rotation)
	return c, nil
}

// Position returns the eye position in world space.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Rotation returns the camera orientation.
func (c *Camera) Rotation() math3d.Quat { return c.rotation }

func (c *Camera) FOV() float64 { return c.fov }

func (c *Camera) Near() float64 { return c.near }

func (c *Camera) Far() float64 { return c.far }

func (c *Camera) Viewport() math3d.Vec2 { return c.viewport }

// ViewPlaneDistance returns viewportWidth / (2·tan(FOV/2)).
func (c *Camera) ViewPlaneDistance() float64 { return c.viewDist }

// LocalFrustum returns the camera-space frustum.
func (c *Camera) LocalFrustum() *Frustum { return &c.local }

// WorldFrustum returns the frustum placed at the camera's pose.
func (c *Camera) WorldFrustum() *Frustum { return &c.world }

// Forward returns the viewing direction in world space.
func (c *Camera) Forward() math3d.Vec3 {
	return c.rotation.Rotate(math3d.Forward())
}

// Right returns the camera's right direction in world space.
func (c *Camera) Right() math3d.Vec3 {
	return c.rotation.Rotate(math3d.Right())
}

// Up returns the camera's up direction in world space.
func (c *Camera) Up() math3d.Vec3 {
	return c.rotation.Rotate(math3d.Up())
}

// Move translates the camera. Only plane offsets change; orientation is
// untouched.
func (c *Camera) Move(delta math3d.Vec3) {
	c.position = c.position.Add(delta)
	c.world.Translate(delta)
}

// SetPosition moves the camera to pos.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Move(pos.Sub(c.position))
}

// SetRotation replaces the orientation and rebuilds the world frustum from
// the camera-space one.
func (c *Camera) SetRotation(q math3d.Quat) {
	c.rotation = q.Normalize()
	c.world = c.local.Transform(c.rotation, c.position)
}

// Rotate applies q on top of the current orientation.
func (c *Camera) Rotate(q math3d.Quat) {
	c.SetRotation(q.Mul(c.rotation))
}

// LookAt turns the camera toward target, keeping the horizon level.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	pitch := math.Asin(math3d.Clamp(dir.Y, -1, 1))
	yaw := math.Atan2(-dir.X, -dir.Z)
	c.SetRotation(math3d.QuatYawPitch(yaw, pitch))
}

// ToCameraSpace converts a world-space point into camera space.
func (c *Camera) ToCameraSpace(p math3d.Vec3) math3d.Vec3 {
	return c.rotation.Inverse().Rotate(p.Sub(c.position))
}
