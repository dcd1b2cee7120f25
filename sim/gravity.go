package sim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GravityStride is the byte size of the packed gravity-well uniform: two
// 16-byte rows, matching the WGSL GravityWell uniform block.
const GravityStride = 32

// GravityWell is the per-dispatch configuration of one gravity animation
// pass. The pass runs after the step kernel over the freshly written buffer
// and pulls every live particle toward Position.
type GravityWell struct {
	GravitationalForce float32
	DeadZone           float32 // minimum pull distance, excludes extreme accelerations
	Mass               float32
	Position           mgl32.Vec3
}

// EncodeGravityWell packs the well into the little-endian 16-byte-aligned
// GPU layout.
func EncodeGravityWell(g *GravityWell) []byte {
	buf := make([]byte, GravityStride)

	putF32(buf[0:], g.GravitationalForce)
	putF32(buf[4:], g.DeadZone)
	putF32(buf[8:], g.Mass)
	// buf[12:16] is alignment padding

	putF32(buf[16:], g.Position.X())
	putF32(buf[20:], g.Position.Y())
	putF32(buf[24:], g.Position.Z())
	// buf[28:32] is alignment padding

	return buf
}

// GravityStep applies the well's pull to one particle in place. Decayed
// slots and particles inside the dead zone are left untouched. The force is
// Newtonian, force = G * wellMass * particleMass / distance^2, and the
// particle's own mass divides back out when the force becomes acceleration.
func GravityStep(p *Particle, g *GravityWell, deltaSec float32) {
	if p.Decayed() {
		return
	}

	toward := g.Position.Sub(p.Position)
	dist := toward.Len()
	if dist <= g.DeadZone {
		return
	}

	force := g.GravitationalForce * g.Mass * p.Mass / (dist * dist)
	accel := force / p.Mass
	p.Velocity = p.Velocity.Add(toward.Mul(accel * deltaSec / dist))
}

// ApplyGravity runs the gravity pass over every slot, mirroring one dispatch
// of the gravity kernel. Unlike the step kernel it mutates the buffer in
// place; it runs on the destination side after Simulate has written it.
func ApplyGravity(particles []Particle, g *GravityWell, deltaSec float32, capacity uint32) {
	n := capacity
	if n > uint32(len(particles)) {
		n = uint32(len(particles))
	}
	for i := uint32(0); i < n; i++ {
		GravityStep(&particles[i], g, deltaSec)
	}
}
