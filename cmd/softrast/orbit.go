package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// maxPitch keeps the orbit short of the poles, where yaw is undefined.
const maxPitch = math.Pi/2 - 0.01

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit swings a camera around a target. Yaw and pitch coast to a stop
// after an impulse; the distance eases toward its goal.
type Orbit struct {
	Target     math3d.Vec3
	Yaw, Pitch RotationAxis

	distance   float64
	distVel    float64
	goal       float64
	minDist    float64
	maxDist    float64
	zoomSpring harmonica.Spring
	fps        int

	home struct{ yaw, pitch, dist float64 }
}

// NewOrbit creates an orbit around target that starts at the camera's
// current position.
func NewOrbit(camera *render.Camera, target math3d.Vec3, fps int) *Orbit {
	o := &Orbit{
		Target:     target,
		zoomSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		fps:        fps,
	}
	offset := camera.Position().Sub(target)
	dist := offset.Len()
	if dist < 1e-9 {
		offset, dist = math3d.V3(0, 0, 5), 5
	}
	o.home.yaw = math.Atan2(offset.X, offset.Z)
	o.home.pitch = math.Asin(math3d.Clamp(-offset.Y/dist, -1, 1))
	o.home.dist = dist
	o.minDist = math.Max(camera.Near()*2, dist/10)
	o.maxDist = math.Min(camera.Far()/2, dist*10)
	o.Reset()
	return o
}

// Reset returns to the starting pose and stops all motion.
func (o *Orbit) Reset() {
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw.Position = o.home.yaw
	o.Pitch.Position = o.home.pitch
	o.distance, o.goal, o.distVel = o.home.dist, o.home.dist, 0
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Zoom scales the goal distance by factor.
func (o *Orbit) Zoom(factor float64) {
	o.goal = math3d.Clamp(o.goal*factor, o.minDist, o.maxDist)
}

// Distance returns the current distance to the target.
func (o *Orbit) Distance() float64 { return o.distance }

// Update advances one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	if o.Pitch.Position > maxPitch || o.Pitch.Position < -maxPitch {
		o.Pitch.Position = math3d.Clamp(o.Pitch.Position, -maxPitch, maxPitch)
		o.Pitch.Velocity = 0
	}
	o.distance, o.distVel = o.zoomSpring.Update(o.distance, o.distVel, o.goal)
}

// Pose returns the camera position and the rotation that faces the target.
func (o *Orbit) Pose() (math3d.Vec3, math3d.Quat) {
	rot := math3d.QuatYawPitch(o.Yaw.Position, o.Pitch.Position)
	return o.Target.Add(rot.Rotate(math3d.V3(0, 0, o.distance))), rot
}

// Apply moves camera to the current pose.
func (o *Orbit) Apply(camera *render.Camera) {
	pos, rot := o.Pose()
	camera.SetPosition(pos)
	camera.SetRotation(rot)
}
