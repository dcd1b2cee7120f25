package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const rotEps = 1e-6

func vecNear(t *testing.T, got, want mgl32.Vec3, label string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(got[i]-want[i])) > rotEps {
			t.Fatalf("%s: got %v, want %v", label, got, want)
		}
	}
}

func TestRotationIdentity(t *testing.T) {
	v := mgl32.Vec3{1.5, -2.25, 3.75}
	vecNear(t, Yaw(0).Mul3x1(v), v, "yaw 0")
	vecNear(t, Pitch(0).Mul3x1(v), v, "pitch 0")
	vecNear(t, Roll(0).Mul3x1(v), v, "roll 0")
	vecNear(t, BoxRotation(0, 0, 0).Mul3x1(v), v, "composed 0")
}

func TestRotationQuarterTurns(t *testing.T) {
	half := float32(math.Pi / 2)

	// Yaw pi/2 about Y maps +X onto -Z.
	vecNear(t, Yaw(half).Mul3x1(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 0, -1}, "yaw pi/2 on X")
	// Pitch pi/2 about X maps +Y onto +Z.
	vecNear(t, Pitch(half).Mul3x1(mgl32.Vec3{0, 1, 0}), mgl32.Vec3{0, 0, 1}, "pitch pi/2 on Y")
	// Roll pi/2 about Z maps +X onto +Y.
	vecNear(t, Roll(half).Mul3x1(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 1, 0}, "roll pi/2 on X")
}

func TestRotationHalfTurns(t *testing.T) {
	pi := float32(math.Pi)
	vecNear(t, Yaw(pi).Mul3x1(mgl32.Vec3{1, 0, 2}), mgl32.Vec3{-1, 0, -2}, "yaw pi")
	vecNear(t, Pitch(pi).Mul3x1(mgl32.Vec3{0, 1, 2}), mgl32.Vec3{0, -1, -2}, "pitch pi")
	vecNear(t, Roll(pi).Mul3x1(mgl32.Vec3{1, 2, 0}), mgl32.Vec3{-1, -2, 0}, "roll pi")

	// Rotation axes stay fixed.
	vecNear(t, Yaw(pi).Mul3x1(mgl32.Vec3{0, 3, 0}), mgl32.Vec3{0, 3, 0}, "yaw pi on Y axis")
}

func TestBoxRotationOrder(t *testing.T) {
	yaw, pitch, roll := float32(0.4), float32(-0.9), float32(1.7)
	want := Yaw(yaw).Mul3(Pitch(pitch)).Mul3(Roll(roll))
	got := BoxRotation(yaw, pitch, roll)
	for i := 0; i < 9; i++ {
		if got[i] != want[i] {
			t.Fatalf("BoxRotation must compose as Y*P*R, entry %d: got %v want %v", i, got[i], want[i])
		}
	}
}
