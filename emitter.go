package ember

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/emberfx/ember/sim"
)

// Emitter is the host-side authoring record for one particle population.
// Angles are authored in degrees and converted to radians when the uniform
// snapshot is packed.
type Emitter struct {
	ID string `json:"id"`

	SpawnCount    uint32  `json:"spawn_count"`
	SpawnDelaySec float32 `json:"spawn_delay_sec"`

	BoxPosition    mgl32.Vec3 `json:"box_position"`
	BoxDimensions  mgl32.Vec3 `json:"box_dimensions"`
	BoxRotationDeg mgl32.Vec3 `json:"box_rotation_deg"`

	DiffusionWidthDeg float32 `json:"diffusion_width_deg"`
	DiffusionDepthDeg float32 `json:"diffusion_depth_deg"`

	ParticleColor               mgl32.Vec4 `json:"particle_color"`
	ParticleSizeMin             float32    `json:"particle_size_min"`
	ParticleSizeMax             float32    `json:"particle_size_max"`
	ParticleSpeedMin            float32    `json:"particle_speed_min"`
	ParticleSpeedMax            float32    `json:"particle_speed_max"`
	ParticleFrictionCoefficient float32    `json:"particle_friction_coefficient"`
	ParticleMass                float32    `json:"particle_mass"`
	ParticleLifetimeSec         float32    `json:"particle_lifetime_sec"`

	spawnFrom   uint32
	spawnUntil  uint32
	spawnCursor uint32
	spawnTime   float32
	deltaSec    float32
	elapsedSec  float32
}

// NewEmitter returns an emitter with workable defaults and a fresh identity.
func NewEmitter() *Emitter {
	return &Emitter{
		ID:                          uuid.NewString(),
		SpawnCount:                  32,
		SpawnDelaySec:               0.1,
		BoxDimensions:               mgl32.Vec3{2, 0.5, 2},
		DiffusionWidthDeg:           30,
		DiffusionDepthDeg:           30,
		ParticleColor:               mgl32.Vec4{1, 1, 1, 1},
		ParticleSizeMin:             0.05,
		ParticleSizeMax:             0.15,
		ParticleSpeedMin:            4,
		ParticleSpeedMax:            8,
		ParticleFrictionCoefficient: 0.99,
		ParticleMass:                1,
		ParticleLifetimeSec:         5,
	}
}

// Validate catches configuration the kernel will not: the per-frame path is
// a total function, so malformed ranges must be rejected here, at authoring
// time.
func (e *Emitter) Validate() error {
	if e.SpawnCount == 0 {
		return fmt.Errorf("emitter %s: spawn count must be positive", e.ID)
	}
	if e.SpawnDelaySec <= 0 {
		return fmt.Errorf("emitter %s: spawn delay must be positive", e.ID)
	}
	if e.ParticleLifetimeSec <= 0 {
		return fmt.Errorf("emitter %s: particle lifetime must be positive", e.ID)
	}
	if e.ParticleSizeMax < e.ParticleSizeMin {
		return fmt.Errorf("emitter %s: inverted size range [%v, %v]", e.ID, e.ParticleSizeMin, e.ParticleSizeMax)
	}
	if e.ParticleSpeedMax < e.ParticleSpeedMin {
		return fmt.Errorf("emitter %s: inverted speed range [%v, %v]", e.ID, e.ParticleSpeedMin, e.ParticleSpeedMax)
	}
	if e.ParticleFrictionCoefficient < 0 {
		return fmt.Errorf("emitter %s: negative friction coefficient %v", e.ID, e.ParticleFrictionCoefficient)
	}
	return nil
}

// ParticleCount is the slot capacity: enough slots for every spawn batch
// that can be alive at once. A multiple of SpawnCount, so spawn windows tile
// the array exactly and wrap without splitting.
func (e *Emitter) ParticleCount() uint32 {
	cycles := uint32(math.Ceil(float64(e.ParticleLifetimeSec / e.SpawnDelaySec)))
	if cycles == 0 {
		cycles = 1
	}
	return e.SpawnCount * cycles
}

// Update snapshots frame timing and advances the spawn window. Whenever a
// spawn period elapses the window moves to the next SpawnCount slots,
// wrapping over the fixed-capacity array; between periods the window is
// empty and no slot spawns.
func (e *Emitter) Update(clock *Clock) {
	e.advance(clock.DeltaSec(), clock.ElapsedSec())
}

func (e *Emitter) advance(deltaSec, elapsedSec float32) {
	e.deltaSec = deltaSec
	e.elapsedSec = elapsedSec

	if e.elapsedSec-e.spawnTime >= e.SpawnDelaySec {
		e.spawnTime = e.elapsedSec
		from := e.spawnCursor % e.ParticleCount()
		e.spawnFrom = from
		e.spawnUntil = from + e.SpawnCount
		e.spawnCursor = e.spawnUntil
	} else {
		e.spawnFrom = 0
		e.spawnUntil = 0
	}
}

// SpawnWindow exposes the current half-open slot range for inspection.
func (e *Emitter) SpawnWindow() (from, until uint32) {
	return e.spawnFrom, e.spawnUntil
}

// ToUniform packs the per-dispatch snapshot. The returned value is immutable
// as far as the dispatch is concerned; the next frame replaces it wholesale.
func (e *Emitter) ToUniform() sim.Uniform {
	return sim.Uniform{
		DeltaSec:   e.deltaSec,
		ElapsedSec: e.elapsedSec,
		SpawnFrom:  e.spawnFrom,
		SpawnUntil: e.spawnUntil,

		BoxPosition:   e.BoxPosition,
		BoxDimensions: e.BoxDimensions,
		BoxRotation: mgl32.Vec3{
			mgl32.DegToRad(e.BoxRotationDeg.X()),
			mgl32.DegToRad(e.BoxRotationDeg.Y()),
			mgl32.DegToRad(e.BoxRotationDeg.Z()),
		},

		DiffusionWidth: mgl32.DegToRad(e.DiffusionWidthDeg),
		DiffusionDepth: mgl32.DegToRad(e.DiffusionDepthDeg),

		ParticleColor:               e.ParticleColor,
		ParticleSizeMin:             e.ParticleSizeMin,
		ParticleSizeMax:             e.ParticleSizeMax,
		ParticleSpeedMin:            e.ParticleSpeedMin,
		ParticleSpeedMax:            e.ParticleSpeedMax,
		ParticleFrictionCoefficient: e.ParticleFrictionCoefficient,
		ParticleMass:                e.ParticleMass,
		ParticleLifetime:            e.ParticleLifetimeSec,
	}
}
