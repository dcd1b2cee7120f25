package ember

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterDefaultsValidate(t *testing.T) {
	em := NewEmitter()
	require.NoError(t, em.Validate())
	require.NotEmpty(t, em.ID)

	other := NewEmitter()
	assert.NotEqual(t, em.ID, other.ID, "every emitter gets its own identity")
}

func TestEmitterValidateRejectsMalformedConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Emitter)
	}{
		{"zero spawn count", func(e *Emitter) { e.SpawnCount = 0 }},
		{"zero spawn delay", func(e *Emitter) { e.SpawnDelaySec = 0 }},
		{"zero lifetime", func(e *Emitter) { e.ParticleLifetimeSec = 0 }},
		{"inverted size range", func(e *Emitter) { e.ParticleSizeMin = 1; e.ParticleSizeMax = 0.5 }},
		{"inverted speed range", func(e *Emitter) { e.ParticleSpeedMin = 10; e.ParticleSpeedMax = 5 }},
		{"negative friction", func(e *Emitter) { e.ParticleFrictionCoefficient = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := NewEmitter()
			tt.mutate(em)
			assert.Error(t, em.Validate())
		})
	}
}

func TestEmitterParticleCount(t *testing.T) {
	em := NewEmitter()
	em.SpawnCount = 10
	em.SpawnDelaySec = 0.5
	em.ParticleLifetimeSec = 2.0

	// 4 spawn batches can be alive at once.
	assert.Equal(t, uint32(40), em.ParticleCount())

	// Capacity always tiles by SpawnCount.
	em.ParticleLifetimeSec = 2.3
	assert.Equal(t, uint32(50), em.ParticleCount())
	assert.Zero(t, em.ParticleCount()%em.SpawnCount)
}

func TestEmitterSpawnWindowAdvancesAndWraps(t *testing.T) {
	em := NewEmitter()
	em.SpawnCount = 10
	em.SpawnDelaySec = 0.5
	em.ParticleLifetimeSec = 2.0
	count := em.ParticleCount() // 40

	elapsed := float32(0)
	var windows [][2]uint32
	for i := 0; i < 5; i++ {
		elapsed += em.SpawnDelaySec
		em.advance(em.SpawnDelaySec, elapsed)
		from, until := em.SpawnWindow()
		require.LessOrEqual(t, from, until, "window invariant")
		require.LessOrEqual(t, until, count, "window never exceeds capacity")
		require.Equal(t, em.SpawnCount, until-from, "a due window covers one spawn batch")
		windows = append(windows, [2]uint32{from, until})
	}

	// Windows tile the slot array and wrap back to the start.
	assert.Equal(t, [2]uint32{0, 10}, windows[0])
	assert.Equal(t, [2]uint32{10, 20}, windows[1])
	assert.Equal(t, [2]uint32{20, 30}, windows[2])
	assert.Equal(t, [2]uint32{30, 40}, windows[3])
	assert.Equal(t, [2]uint32{0, 10}, windows[4])
}

func TestEmitterWindowEmptyBetweenSpawnPeriods(t *testing.T) {
	em := NewEmitter()
	em.SpawnCount = 10
	em.SpawnDelaySec = 0.5
	em.ParticleLifetimeSec = 2.0

	em.advance(0.5, 0.5)
	from, until := em.SpawnWindow()
	require.NotEqual(t, from, until, "first due frame must spawn")

	// A fraction of the delay later: nothing is due.
	em.advance(0.1, 0.6)
	from, until = em.SpawnWindow()
	assert.Equal(t, from, until, "window must be empty between spawn periods")
}

func TestEmitterToUniformConvertsDegrees(t *testing.T) {
	em := NewEmitter()
	em.BoxRotationDeg = mgl32.Vec3{90, 180, 0}
	em.DiffusionWidthDeg = 45
	em.DiffusionDepthDeg = 30
	em.advance(0.016, 1.0)

	u := em.ToUniform()
	assert.InDelta(t, math.Pi/2, float64(u.BoxRotation.X()), 1e-5)
	assert.InDelta(t, math.Pi, float64(u.BoxRotation.Y()), 1e-5)
	assert.InDelta(t, math.Pi/4, float64(u.DiffusionWidth), 1e-5)
	assert.InDelta(t, math.Pi/6, float64(u.DiffusionDepth), 1e-5)
	assert.Equal(t, float32(0.016), u.DeltaSec)
	assert.Equal(t, float32(1.0), u.ElapsedSec)
}
