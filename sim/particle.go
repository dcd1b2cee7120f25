package sim

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DecayedLifetime is the reserved lifetime value marking a retired particle.
// It can never collide with a measured age: ages start at 0 on spawn and only
// increase.
const DecayedLifetime float32 = -1

// ParticleStride is the byte size of one particle slot in a GPU buffer.
// Matches the WGSL Particle struct: four 16-byte rows
// (position.xyz + scale | velocity.xyz + mass | color | lifetime + padding).
const ParticleStride = 64

// Particle is the mutable per-slot state, read from the source buffer and
// written to the destination buffer each simulation step.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Mass     float32
	Color    mgl32.Vec4
	Scale    float32
	Lifetime float32
}

// Decayed reports whether the particle carries the retirement sentinel.
func (p *Particle) Decayed() bool {
	return p.Lifetime == DecayedLifetime
}

// Retire marks the particle decayed. Idempotent: re-marking an already
// decayed particle writes the same sentinel and must not re-trigger spawn
// logic anywhere downstream.
func (p *Particle) Retire() {
	p.Lifetime = DecayedLifetime
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func getF32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

// EncodeParticles packs particles into the little-endian GPU wire layout.
// Field order and padding must not change: the compute and render shaders
// read the same layout.
func EncodeParticles(particles []Particle) []byte {
	buf := make([]byte, len(particles)*ParticleStride)
	for i := range particles {
		p := &particles[i]
		o := buf[i*ParticleStride:]
		putF32(o[0:], p.Position.X())
		putF32(o[4:], p.Position.Y())
		putF32(o[8:], p.Position.Z())
		putF32(o[12:], p.Scale)
		putF32(o[16:], p.Velocity.X())
		putF32(o[20:], p.Velocity.Y())
		putF32(o[24:], p.Velocity.Z())
		putF32(o[28:], p.Mass)
		putF32(o[32:], p.Color.X())
		putF32(o[36:], p.Color.Y())
		putF32(o[40:], p.Color.Z())
		putF32(o[44:], p.Color.W())
		putF32(o[48:], p.Lifetime)
	}
	return buf
}

// DecodeParticles unpacks a GPU buffer readback into particle records.
// The data length must be a whole number of strides.
func DecodeParticles(data []byte) []Particle {
	count := len(data) / ParticleStride
	particles := make([]Particle, count)
	for i := 0; i < count; i++ {
		o := data[i*ParticleStride:]
		p := &particles[i]
		p.Position = mgl32.Vec3{getF32(o[0:]), getF32(o[4:]), getF32(o[8:])}
		p.Scale = getF32(o[12:])
		p.Velocity = mgl32.Vec3{getF32(o[16:]), getF32(o[20:]), getF32(o[24:])}
		p.Mass = getF32(o[28:])
		p.Color = mgl32.Vec4{getF32(o[32:]), getF32(o[36:]), getF32(o[40:]), getF32(o[44:])}
		p.Lifetime = getF32(o[48:])
	}
	return particles
}
