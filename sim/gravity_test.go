package sim

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWell() GravityWell {
	return GravityWell{
		GravitationalForce: 0.01,
		DeadZone:           4,
		Mass:               1_000_000,
		Position:           mgl32.Vec3{10, 0, 0},
	}
}

func TestGravityPullsTowardWell(t *testing.T) {
	well := testWell()
	p := Particle{Position: mgl32.Vec3{0, 0, 0}, Mass: 2}

	GravityStep(&p, &well, 0.1)

	// force = G * M * m / d^2 = 0.01 * 1e6 * 2 / 100 = 200
	// accel = force / m = 100, dv = accel * dt = 10 along +X
	assert.InDelta(t, 10.0, float64(p.Velocity.X()), 1e-3)
	assert.InDelta(t, 0.0, float64(p.Velocity.Y()), 1e-6)
	assert.InDelta(t, 0.0, float64(p.Velocity.Z()), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, p.Position, "gravity changes velocity, not position")
}

func TestGravityAccelerationIndependentOfMass(t *testing.T) {
	well := testWell()
	light := Particle{Position: mgl32.Vec3{0, 5, 0}, Mass: 0.5}
	heavy := Particle{Position: mgl32.Vec3{0, 5, 0}, Mass: 8}

	GravityStep(&light, &well, 0.05)
	GravityStep(&heavy, &well, 0.05)

	assert.InDelta(t, float64(light.Velocity.X()), float64(heavy.Velocity.X()), 1e-4)
	assert.InDelta(t, float64(light.Velocity.Y()), float64(heavy.Velocity.Y()), 1e-4)
}

func TestGravityDeadZone(t *testing.T) {
	well := testWell()
	p := Particle{Position: mgl32.Vec3{7, 0, 0}, Mass: 1, Velocity: mgl32.Vec3{1, 2, 3}}

	// Distance 3 is inside the dead zone of 4.
	GravityStep(&p, &well, 0.1)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, p.Velocity)
}

func TestGravitySkipsDecayed(t *testing.T) {
	well := testWell()
	p := Particle{Position: mgl32.Vec3{0, 0, 0}, Mass: 1, Lifetime: DecayedLifetime}

	GravityStep(&p, &well, 0.1)
	assert.Equal(t, mgl32.Vec3{}, p.Velocity)
	assert.Equal(t, DecayedLifetime, p.Lifetime)
}

func TestApplyGravityHonorsCapacity(t *testing.T) {
	well := testWell()
	particles := make([]Particle, 4)
	for i := range particles {
		particles[i].Mass = 1
	}

	ApplyGravity(particles, &well, 0.1, 2)

	assert.NotEqual(t, mgl32.Vec3{}, particles[0].Velocity)
	assert.NotEqual(t, mgl32.Vec3{}, particles[1].Velocity)
	assert.Equal(t, mgl32.Vec3{}, particles[2].Velocity, "slots past capacity stay untouched")
	assert.Equal(t, mgl32.Vec3{}, particles[3].Velocity)
}

func TestGravityWellLayout(t *testing.T) {
	well := testWell()
	buf := EncodeGravityWell(&well)
	require.Len(t, buf, GravityStride)

	at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	assert.Equal(t, well.GravitationalForce, at(0))
	assert.Equal(t, well.DeadZone, at(4))
	assert.Equal(t, well.Mass, at(8))
	assert.Equal(t, well.Position.X(), at(16))
	assert.Equal(t, well.Position.Y(), at(20))
	assert.Equal(t, well.Position.Z(), at(24))
}
