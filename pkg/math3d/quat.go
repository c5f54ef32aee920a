package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat is a rotation quaternion. The zero value is not a valid rotation;
// start from QuatIdentity.
type Quat struct {
	q mgl64.Quat
}

// QuatIdentity returns the rotation that leaves vectors unchanged.
func QuatIdentity() Quat {
	return Quat{mgl64.QuatIdent()}
}

// QuatAxisAngle returns a rotation of angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalize()
	if n.LenSq() == 0 {
		return QuatIdentity()
	}
	return Quat{mgl64.QuatRotate(angle, toMgl(n))}
}

// QuatEuler builds a rotation from Euler angles in radians. The X rotation
// is applied first, then Y, then Z.
func QuatEuler(x, y, z float64) Quat {
	qx := QuatAxisAngle(Right(), x)
	qy := QuatAxisAngle(Up(), y)
	qz := QuatAxisAngle(V3(0, 0, 1), z)
	return qz.Mul(qy).Mul(qx)
}

// QuatEulerDegrees is QuatEuler with angles in degrees.
func QuatEulerDegrees(x, y, z float64) Quat {
	return QuatEuler(x*math.Pi/180, y*math.Pi/180, z*math.Pi/180)
}

// QuatYawPitch returns the rotation that turns Forward() by pitch around the
// X axis and then by yaw around the world up axis.
func QuatYawPitch(yaw, pitch float64) Quat {
	return QuatAxisAngle(Up(), yaw).Mul(QuatAxisAngle(Right(), pitch))
}

// Mul composes two rotations; the result applies b first, then a.
func (a Quat) Mul(b Quat) Quat {
	return Quat{a.q.Mul(b.q)}
}

// Inverse returns the opposite rotation.
func (a Quat) Inverse() Quat {
	return Quat{a.q.Inverse()}
}

// Normalize rescales the quaternion to unit length. A zero quaternion
// becomes the identity.
func (a Quat) Normalize() Quat {
	if a.q.Len() == 0 {
		return QuatIdentity()
	}
	return Quat{a.q.Normalize()}
}

// Rotate applies the rotation to v.
func (a Quat) Rotate(v Vec3) Vec3 {
	return fromMgl(a.q.Rotate(toMgl(v)))
}

// Slerp interpolates spherically between a and b.
func (a Quat) Slerp(b Quat, t float64) Quat {
	return Quat{mgl64.QuatSlerp(a.q, b.q, t)}
}

// ApproxEqual reports whether a and b describe the same rotation within eps.
// q and -q are treated as equal.
func (a Quat) ApproxEqual(b Quat, eps float64) bool {
	return a.q.ApproxEqualThreshold(b.q, eps) ||
		a.q.ApproxEqualThreshold(b.q.Scale(-1), eps)
}

// WXYZ returns the raw components.
func (a Quat) WXYZ() (w, x, y, z float64) {
	return a.q.W, a.q.V[0], a.q.V[1], a.q.V[2]
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
