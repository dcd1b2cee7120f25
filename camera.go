package ember

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera produces the view-projection uniform and the billboard basis the
// particle render shader expands quads with.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	FovDeg   float32
	Near     float32
	Far      float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 4, 14},
		Target:   mgl32.Vec3{0, 3, 0},
		FovDeg:   60,
		Near:     0.1,
		Far:      200,
	}
}

var worldUp = mgl32.Vec3{0, 1, 0}

func (c *Camera) forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right is the camera-space X axis in world space.
func (c *Camera) Right() mgl32.Vec3 {
	return c.forward().Cross(worldUp).Normalize()
}

// Up is the camera-space Y axis in world space.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.forward()).Normalize()
}

func (c *Camera) ViewProj(aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(c.FovDeg), aspect, c.Near, c.Far)
	view := mgl32.LookAtV(c.Position, c.Target, worldUp)
	return proj.Mul4(view)
}

// Orbit moves the camera around its target on the horizontal plane.
func (c *Camera) Orbit(angleRad float32) {
	offset := c.Position.Sub(c.Target)
	s := float32(math.Sin(float64(angleRad)))
	co := float32(math.Cos(float64(angleRad)))
	rotated := mgl32.Vec3{
		offset.X()*co + offset.Z()*s,
		offset.Y(),
		-offset.X()*s + offset.Z()*co,
	}
	c.Position = c.Target.Add(rotated)
}

// cameraUniformStride matches the WGSL Camera block: mat4x4 + two vec4s.
const cameraUniformStride = 96

func encodeCamera(c *Camera, aspect float32) []byte {
	buf := make([]byte, cameraUniformStride)
	vp := c.ViewProj(aspect)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(vp[i]))
	}
	right := c.Right()
	up := c.Up()
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(right[i]))
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(up[i]))
	}
	return buf
}
