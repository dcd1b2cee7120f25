package sim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Yaw builds the rotation matrix about the Y axis for the given angle in
// radians. A yaw of pi/2 maps the +X axis onto -Z.
func Yaw(angle float32) mgl32.Mat3 {
	return mgl32.Rotate3DY(angle)
}

// Pitch builds the rotation matrix about the X axis.
func Pitch(angle float32) mgl32.Mat3 {
	return mgl32.Rotate3DX(angle)
}

// Roll builds the rotation matrix about the Z axis.
func Roll(angle float32) mgl32.Mat3 {
	return mgl32.Rotate3DZ(angle)
}

// BoxRotation composes yaw, pitch and roll into the transform that rotates a
// local-space offset into the emitter's oriented box frame. Order is fixed:
// roll is applied first, then pitch, then yaw (v' = Y * P * R * v).
func BoxRotation(yaw, pitch, roll float32) mgl32.Mat3 {
	return Yaw(yaw).Mul3(Pitch(pitch)).Mul3(Roll(roll))
}
