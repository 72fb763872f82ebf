package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectNDC(t *testing.T, vp mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	t.Helper()
	clip := vp.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
	require.Greater(t, clip.W(), float32(0), "point behind the camera")
	return mgl32.Vec3{clip.X() / clip.W(), clip.Y() / clip.W(), clip.Z() / clip.W()}
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, mgl32.Vec3{0, 0, 5}, c.Position)
	assert.Equal(t, mgl32.QuatIdent(), c.Rotation)
	assert.InDelta(t, math.Pi/4, c.Fov, 1e-6)
	assert.Equal(t, float32(1), c.Aspect)
	assert.Equal(t, float32(0.1), c.Near)
	assert.Equal(t, float32(100), c.Far)
}

func TestPointerDeltaKeepsUnitRotation(t *testing.T) {
	c := NewCamera()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		dx := float32(rng.Float64()*200 - 100)
		dy := float32(rng.Float64()*200 - 100)
		c.ApplyPointerDelta(dx, dy, 0.01)

		assert.InDelta(t, 1.0, c.Rotation.Len(), 1e-3)
	}
}

func TestPointerDeltaYawOneRadian(t *testing.T) {
	c := NewCamera()
	c.ApplyPointerDelta(100, 0, 0.01)

	want := mgl32.QuatRotate(1.0, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, want.W, c.Rotation.W, 1e-5)
	assert.InDelta(t, want.V.X(), c.Rotation.V.X(), 1e-5)
	assert.InDelta(t, want.V.Y(), c.Rotation.V.Y(), 1e-5)
	assert.InDelta(t, want.V.Z(), c.Rotation.V.Z(), 1e-5)
}

func TestPitchIsNotClamped(t *testing.T) {
	c := NewCamera()
	// Half a turn of pitch: the view ends up upside down instead of being
	// stopped at the horizon.
	c.ApplyPointerDelta(0, 100*math.Pi, 0.01)

	flipped := mgl32.QuatRotate(float32(math.Pi), mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, float64(flipped.W), float64(c.Rotation.W), 1e-3)
	assert.InDelta(t, 1.0, math.Abs(float64(c.Rotation.V.X())), 1e-3)
}

func TestViewProjectionMapsCubeIntoClipRange(t *testing.T) {
	c := NewCamera()
	vp := c.ViewProjection()

	for _, v := range CubeVertices() {
		p := mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}
		ndc := projectNDC(t, vp, p)

		assert.LessOrEqual(t, float64(ndc.X()), 1.0, "vertex %v", v.Position)
		assert.GreaterOrEqual(t, float64(ndc.X()), -1.0, "vertex %v", v.Position)
		assert.LessOrEqual(t, float64(ndc.Y()), 1.0, "vertex %v", v.Position)
		assert.GreaterOrEqual(t, float64(ndc.Y()), -1.0, "vertex %v", v.Position)

		// GL-convention depth range; the pipeline never compares z.
		assert.LessOrEqual(t, float64(ndc.Z()), 1.0, "vertex %v", v.Position)
		assert.GreaterOrEqual(t, float64(ndc.Z()), -1.0, "vertex %v", v.Position)
	}
}

func TestResizeZeroAreaIgnored(t *testing.T) {
	c := NewCamera()
	c.ApplyResize(800, 600)
	require.InDelta(t, 800.0/600.0, c.Aspect, 1e-6)

	c.ApplyResize(800, 0)
	assert.InDelta(t, 800.0/600.0, c.Aspect, 1e-6)

	c.ApplyResize(0, 600)
	assert.InDelta(t, 800.0/600.0, c.Aspect, 1e-6)
}

func TestResizeUpdatesAspect(t *testing.T) {
	c := NewCamera()
	c.ApplyResize(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect, 1e-6)
}

func TestYawMovesProjectedFrontFaceCentroid(t *testing.T) {
	c := NewCamera()
	centroid := mgl32.Vec3{0, 0, 1} // center of the front face

	before := projectNDC(t, c.ViewProjection(), centroid)
	c.ApplyPointerDelta(100, 0, 0.01)
	after := projectNDC(t, c.ViewProjection(), centroid)

	assert.Greater(t, math.Abs(float64(after.X()-before.X())), 0.01,
		"yaw should move the front face horizontally on screen")
}

func TestViewMatrixIsPure(t *testing.T) {
	c := NewCamera()
	c.ApplyPointerDelta(13, -7, 0.01)

	first := c.ViewMatrix()
	second := c.ViewMatrix()
	assert.Equal(t, first, second)

	p := c.ProjectionMatrix()
	assert.Equal(t, p, c.ProjectionMatrix())
}
