package ember

import (
	"time"
)

// Clock tracks frame timing for the simulation loop. The frame counter also
// drives the ping-pong buffer roles: even frames read buffer 0 and write
// buffer 1, odd frames the reverse.
type Clock struct {
	start      time.Time
	lastUpdate time.Duration
	delta      time.Duration
	frame      uint64
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Update advances to the next frame. Call exactly once per frame, before
// emitters are updated.
func (c *Clock) Update() {
	now := time.Since(c.start)
	c.delta = now - c.lastUpdate
	c.lastUpdate = now
	c.frame++
}

func (c *Clock) DeltaSec() float32 {
	return float32(c.delta.Seconds())
}

// ElapsedSec is the monotonic clock used as the randomization salt. It is
// sampled at Update, so every emitter updated in the same frame sees the
// same value and DeltaSec is exactly the difference between two frames'
// ElapsedSec.
func (c *Clock) ElapsedSec() float32 {
	return float32(c.lastUpdate.Seconds())
}

func (c *Clock) Frame() uint64 {
	return c.frame
}

// BindGroupNr selects the bind group whose source buffer holds the previous
// frame's finished state.
func (c *Clock) BindGroupNr() int {
	return int(c.frame % 2)
}

// AltBindGroupNr selects the opposite side; the render pass reads the buffer
// the compute pass just wrote.
func (c *Clock) AltBindGroupNr() int {
	return int((c.frame + 1) % 2)
}
