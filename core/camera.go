package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the free-look view state. Rotation is kept as a unit
// quaternion; ApplyPointerDelta renormalizes after every composition so
// float drift never accumulates.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Fov      float32 // radians
	Aspect   float32
	Near     float32
	Far      float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 0, 5},
		Rotation: mgl32.QuatIdent(),
		Fov:      mgl32.DegToRad(45),
		Aspect:   1.0,
		Near:     0.1,
		Far:      100.0,
	}
}

// ApplyPointerDelta composes a yaw about world up and a pitch about world
// right onto the current rotation: new = yaw * pitch * old. Pitch is
// deliberately unclamped; enough vertical input flips the view upside down.
func (c *Camera) ApplyPointerDelta(dx, dy, sensitivity float32) {
	yaw := mgl32.QuatRotate(dx*sensitivity, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(dy*sensitivity, mgl32.Vec3{1, 0, 0})
	c.Rotation = yaw.Mul(pitch).Mul(c.Rotation).Normalize()
}

// ApplyResize updates the aspect ratio. Zero-area sizes (minimized window)
// are ignored so we never divide by zero.
func (c *Camera) ApplyResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.Position
	return mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()).Mul4(c.Rotation.Mat4())
}

// ProjectionMatrix emits GL-convention clip depth in [-1,1] rather than
// wgpu's [0,1]. The pipeline has no depth test, so z is never compared and
// the range is left unremapped.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

// ViewProjection is the single matrix uploaded to the GPU each frame.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
