package sim

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// WorkgroupSize is the slot batch handed to one worker, mirroring the
// @workgroup_size of the WGSL kernel.
const WorkgroupSize = 128

// Per-quantity seed offsets. Every derived draw for the same slot combines
// the slot index with a distinct constant so quantities do not correlate
// despite sharing the hash. Breaking this discipline makes particles cluster
// along correlated axes.
const (
	seedPositionX = 0.1
	seedPositionY = 0.2
	seedPositionZ = 0.3
	seedDiffWidth = 0.4
	seedDiffDepth = 0.5
	seedSpeed     = 0.6
	seedSize      = 0.7
)

// spawnDirection is the emitter-local axis spawn velocity starts from,
// before diffusion and box orientation are applied.
var spawnDirection = mgl32.Vec3{0, 1, 0}

// StepParticle runs the per-slot state machine for slot idx: exactly one of
// out-of-range no-op, spawn, decay, or aging. It reads only src[idx] and
// writes only dst[idx], which is what licenses unordered parallel execution.
func StepParticle(dst, src []Particle, u *Uniform, capacity, idx uint32) {
	if idx >= capacity || idx >= uint32(len(src)) || idx >= uint32(len(dst)) {
		return
	}

	if u.InSpawnWindow(idx) {
		dst[idx] = spawnParticle(u, idx)
		return
	}

	p := src[idx]
	if p.Decayed() {
		// Idempotent sentinel write-through; position and velocity pass
		// unchanged so the slot stays stable until respawned.
		dst[idx] = p
		return
	}

	p.Lifetime += u.DeltaSec
	if p.Lifetime >= u.ParticleLifetime {
		// Threshold is tested after the increment, so a particle crossing
		// the threshold this frame retires without a final move.
		p.Retire()
		dst[idx] = p
		return
	}

	// Semi-implicit Euler: damp first, displace with the damped velocity.
	p.Velocity = p.Velocity.Mul(u.ParticleFrictionCoefficient)
	p.Position = p.Position.Add(p.Velocity.Mul(u.DeltaSec))
	dst[idx] = p
}

func spawnParticle(u *Uniform, idx uint32) Particle {
	fIdx := float32(idx)
	t := u.ElapsedSec

	rot := BoxRotation(u.BoxRotation.X(), u.BoxRotation.Y(), u.BoxRotation.Z())

	// Independent per-axis draws inside the box, centered on its origin.
	local := mgl32.Vec3{
		GenDynRange(fIdx+seedPositionX, u.BoxDimensions.X()/2, t),
		GenDynRange(fIdx+seedPositionY, u.BoxDimensions.Y()/2, t),
		GenDynRange(fIdx+seedPositionZ, u.BoxDimensions.Z()/2, t),
	}
	position := u.BoxPosition.Add(rot.Mul3x1(local))

	// Diffusion perturbs the spawn direction before box orientation.
	diffW := GenDynRange(fIdx+seedDiffWidth, u.DiffusionWidth/2, t)
	diffD := GenDynRange(fIdx+seedDiffDepth, u.DiffusionDepth/2, t)
	dir := Yaw(diffW).Mul3(Pitch(diffD)).Mul3x1(spawnDirection)

	speed := u.ParticleSpeedMin +
		GenAbsRange(fIdx+seedSpeed, u.ParticleSpeedMax-u.ParticleSpeedMin, t)
	scale := u.ParticleSizeMin +
		GenAbsRange(fIdx+seedSize, u.ParticleSizeMax-u.ParticleSizeMin, t)

	return Particle{
		Position: position,
		Velocity: rot.Mul3x1(dir).Mul(speed),
		Mass:     u.ParticleMass,
		Color:    u.ParticleColor,
		Scale:    scale,
		Lifetime: 0,
	}
}

// Simulate runs one dispatch of the step kernel across all capacity slots,
// batched WorkgroupSize at a time over worker goroutines. src is read-only
// and dst is write-only for the duration of the call; each batch touches a
// disjoint dst range, so no synchronization beyond the final barrier is
// needed. Returns only once every slot has been written.
func Simulate(dst, src []Particle, u *Uniform, capacity uint32) {
	groups := (capacity + WorkgroupSize - 1) / WorkgroupSize
	if groups == 0 {
		return
	}

	workers := uint32(runtime.NumCPU())
	if workers > groups {
		workers = groups
	}

	var wg sync.WaitGroup
	work := make(chan uint32, groups)
	for g := uint32(0); g < groups; g++ {
		work <- g
	}
	close(work)

	wg.Add(int(workers))
	for w := uint32(0); w < workers; w++ {
		go func() {
			defer wg.Done()
			for g := range work {
				base := g * WorkgroupSize
				for i := uint32(0); i < WorkgroupSize; i++ {
					StepParticle(dst, src, u, capacity, base+i)
				}
			}
		}()
	}
	wg.Wait()
}
