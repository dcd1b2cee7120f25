package ember

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestLifeCycleWindow(t *testing.T) {
	lc := LifeCycle{FromSec: 1, UntilSec: 3, LifetimeSec: 10}

	tests := []struct {
		elapsed float32
		active  bool
	}{
		{0.5, false},
		{1.0, true},
		{2.0, true},
		{3.0, true},
		{3.5, false},
		{11.0, true},  // cycle position 1.0, window reopens
		{14.0, false}, // cycle position 4.0
	}
	for _, tt := range tests {
		current := lc.CurrentSec(tt.elapsed)
		if got := lc.Active(current); got != tt.active {
			t.Errorf("elapsed %.1f: active = %v, want %v", tt.elapsed, got, tt.active)
		}
	}
}

func TestLifeCycleFraction(t *testing.T) {
	lc := LifeCycle{FromSec: 2, UntilSec: 6, LifetimeSec: 10}

	assert.InDelta(t, 0.0, float64(lc.Fraction(2)), 1e-6)
	assert.InDelta(t, 0.5, float64(lc.Fraction(4)), 1e-6)
	assert.InDelta(t, 1.0, float64(lc.Fraction(6)), 1e-6)
}

func TestGravityAnimationTravelsItsPath(t *testing.T) {
	anim := NewGravityAnimation()
	anim.LifeCycle = LifeCycle{FromSec: 0, UntilSec: 4, LifetimeSec: 8}
	anim.StartPos = mgl32.Vec3{-10, 0, 0}
	anim.EndPos = mgl32.Vec3{10, 0, 0}

	anim.advance(0)
	assert.True(t, anim.active)
	assert.Equal(t, anim.StartPos, anim.currentPos)

	anim.advance(2)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, anim.currentPos, "halfway through the window the well is halfway along its path")

	anim.advance(4)
	assert.Equal(t, anim.EndPos, anim.currentPos)

	// Outside the window the pass goes dormant and the position freezes.
	anim.advance(6)
	assert.False(t, anim.active)
	assert.Equal(t, anim.EndPos, anim.currentPos)

	// The next cycle restarts from the beginning of the path.
	anim.advance(8)
	assert.True(t, anim.active)
	assert.Equal(t, anim.StartPos, anim.currentPos)
}
