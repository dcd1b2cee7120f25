package sim

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformStride is the byte size of the packed emitter uniform: seven
// 16-byte rows, matching the WGSL Emitter uniform block field for field.
const UniformStride = 112

// Uniform is the immutable-per-dispatch emitter configuration. The host
// rebuilds it every frame and uploads it once before the dispatch; no
// invocation ever observes a partially updated record.
//
// SpawnFrom/SpawnUntil delimit the half-open slot range [SpawnFrom,
// SpawnUntil) repopulated this frame. SpawnFrom <= SpawnUntil always holds;
// an empty window (SpawnFrom == SpawnUntil) spawns nothing.
type Uniform struct {
	DeltaSec   float32
	ElapsedSec float32
	SpawnFrom  uint32
	SpawnUntil uint32

	BoxPosition   mgl32.Vec3
	BoxDimensions mgl32.Vec3
	BoxRotation   mgl32.Vec3 // yaw, pitch, roll in radians

	DiffusionWidth float32 // radians
	DiffusionDepth float32 // radians

	ParticleColor               mgl32.Vec4
	ParticleSizeMin             float32
	ParticleSizeMax             float32
	ParticleSpeedMin            float32
	ParticleSpeedMax            float32
	ParticleFrictionCoefficient float32
	ParticleMass                float32
	ParticleLifetime            float32 // decay threshold in seconds
}

// InSpawnWindow reports whether slot idx is repopulated this dispatch.
func (u *Uniform) InSpawnWindow(idx uint32) bool {
	return u.SpawnFrom <= idx && idx < u.SpawnUntil
}

// EncodeUniform packs the config into the little-endian 16-byte-aligned GPU
// layout. Reordering any field breaks binary compatibility between the
// host-written record and the kernel-read record.
func EncodeUniform(u *Uniform) []byte {
	buf := make([]byte, UniformStride)

	putF32(buf[0:], u.DeltaSec)
	putF32(buf[4:], u.ElapsedSec)
	binary.LittleEndian.PutUint32(buf[8:], u.SpawnFrom)
	binary.LittleEndian.PutUint32(buf[12:], u.SpawnUntil)

	putF32(buf[16:], u.BoxPosition.X())
	putF32(buf[20:], u.BoxPosition.Y())
	putF32(buf[24:], u.BoxPosition.Z())
	putF32(buf[28:], u.ParticleFrictionCoefficient)

	putF32(buf[32:], u.BoxDimensions.X())
	putF32(buf[36:], u.BoxDimensions.Y())
	putF32(buf[40:], u.BoxDimensions.Z())
	putF32(buf[44:], u.ParticleMass)

	putF32(buf[48:], u.BoxRotation.X())
	putF32(buf[52:], u.BoxRotation.Y())
	putF32(buf[56:], u.BoxRotation.Z())
	putF32(buf[60:], u.ParticleLifetime)

	putF32(buf[64:], u.ParticleColor.X())
	putF32(buf[68:], u.ParticleColor.Y())
	putF32(buf[72:], u.ParticleColor.Z())
	putF32(buf[76:], u.ParticleColor.W())

	putF32(buf[80:], u.DiffusionWidth)
	putF32(buf[84:], u.DiffusionDepth)
	putF32(buf[88:], u.ParticleSizeMin)
	putF32(buf[92:], u.ParticleSizeMax)

	putF32(buf[96:], u.ParticleSpeedMin)
	putF32(buf[100:], u.ParticleSpeedMax)
	// buf[104:112] is alignment padding

	return buf
}
