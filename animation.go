package ember

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/emberfx/ember/shaders"
	"github.com/emberfx/ember/sim"
)

// ParticleAnimation is a compute pass attached to an emitter that rewrites
// the frame's freshly written particle buffer in place, after the step
// dispatch.
type ParticleAnimation interface {
	attach(g *GpuState, s *EmitterState) error
	Update(g *GpuState, clock *Clock)
	Compute(s *EmitterState, pass *wgpu.ComputePassEncoder, clock *Clock)
	Release()
}

// LifeCycle schedules an animation within a repeating window: the animation
// is active while the cycle position lies in [FromSec, UntilSec], and the
// cycle position wraps every LifetimeSec.
type LifeCycle struct {
	FromSec     float32 `json:"from_sec"`
	UntilSec    float32 `json:"until_sec"`
	LifetimeSec float32 `json:"lifetime_sec"`
}

// CurrentSec is the position within the current cycle.
func (lc LifeCycle) CurrentSec(elapsedSec float32) float32 {
	return float32(math.Mod(float64(elapsedSec), float64(lc.LifetimeSec)))
}

// Active reports whether the cycle position is inside the animation window.
func (lc LifeCycle) Active(currentSec float32) bool {
	return lc.FromSec <= currentSec && currentSec <= lc.UntilSec
}

// Fraction is the progress through the window, 0 at FromSec and 1 at
// UntilSec.
func (lc LifeCycle) Fraction(currentSec float32) float32 {
	return (currentSec - lc.FromSec) / (lc.UntilSec - lc.FromSec)
}

// GravityAnimation pulls live particles toward a point mass. The well
// travels from StartPos to EndPos over its life cycle window; outside the
// window the pass dispatches nothing.
type GravityAnimation struct {
	GravitationalForce float32    `json:"gravitational_force"`
	DeadZone           float32    `json:"dead_zone"`
	Mass               float32    `json:"mass"`
	LifeCycle          LifeCycle  `json:"life_cycle"`
	StartPos           mgl32.Vec3 `json:"start_pos"`
	EndPos             mgl32.Vec3 `json:"end_pos"`

	pipeline  *wgpu.ComputePipeline
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup

	active     bool
	currentPos mgl32.Vec3
}

// NewGravityAnimation returns a gravity well with workable defaults: a heavy
// point mass sweeping left to right above the emitter for half of each
// cycle.
func NewGravityAnimation() *GravityAnimation {
	return &GravityAnimation{
		GravitationalForce: 0.01,
		DeadZone:           4,
		Mass:               1_000_000,
		LifeCycle:          LifeCycle{FromSec: 0, UntilSec: 6, LifetimeSec: 12},
		StartPos:           mgl32.Vec3{-25, 8, 0},
		EndPos:             mgl32.Vec3{25, 8, 0},
	}
}

// advance recomputes the frame's well snapshot from the elapsed clock.
func (a *GravityAnimation) advance(elapsedSec float32) {
	current := a.LifeCycle.CurrentSec(elapsedSec)
	a.active = a.LifeCycle.Active(current)
	if a.active {
		fraction := a.LifeCycle.Fraction(current)
		a.currentPos = a.StartPos.Add(a.EndPos.Sub(a.StartPos).Mul(fraction))
	}
}

// well packs the frame's snapshot.
func (a *GravityAnimation) well() sim.GravityWell {
	return sim.GravityWell{
		GravitationalForce: a.GravitationalForce,
		DeadZone:           a.DeadZone,
		Mass:               a.Mass,
		Position:           a.currentPos,
	}
}

func (a *GravityAnimation) attach(g *GpuState, s *EmitterState) error {
	w := a.well()
	var err error
	a.buffer, err = createUniformBuffer(
		fmt.Sprintf("Gravity Buffer (%s)", s.Emitter.ID), sim.EncodeGravityWell(&w), g)
	if err != nil {
		return err
	}

	wellLayout, err := g.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Gravity BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: sim.GravityStride,
				},
			},
		},
	})
	if err != nil {
		a.Release()
		return fmt.Errorf("create gravity bind group layout: %w", err)
	}
	defer wellLayout.Release()

	a.bindGroup, err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("Gravity Bind Group (%s)", s.Emitter.ID),
		Layout: wellLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: a.buffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		a.Release()
		return fmt.Errorf("create gravity bind group: %w", err)
	}

	pipelineLayout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Gravity pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.bindGroupLayout, wellLayout},
	})
	if err != nil {
		a.Release()
		return fmt.Errorf("create gravity pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	a.pipeline, err = createComputePipeline("Gravity animation", shaders.GravityWGSL, "main", pipelineLayout, g)
	if err != nil {
		a.Release()
		return err
	}
	return nil
}

// Update advances the well along its path and re-uploads the snapshot while
// the animation window is open.
func (a *GravityAnimation) Update(g *GpuState, clock *Clock) {
	a.advance(clock.ElapsedSec())
	if !a.active {
		return
	}
	w := a.well()
	g.queue.WriteBuffer(a.buffer, 0, sim.EncodeGravityWell(&w))
}

// Compute records the gravity dispatch over the emitter's write side.
func (a *GravityAnimation) Compute(s *EmitterState, pass *wgpu.ComputePassEncoder, clock *Clock) {
	if !a.active {
		return
	}
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, s.bindGroups[clock.BindGroupNr()], nil)
	pass.SetBindGroup(1, a.bindGroup, nil)
	pass.DispatchWorkgroups(s.dispatchXCount, 1, 1)
}

func (a *GravityAnimation) Release() {
	if a.bindGroup != nil {
		a.bindGroup.Release()
		a.bindGroup = nil
	}
	if a.pipeline != nil {
		a.pipeline.Release()
		a.pipeline = nil
	}
	if a.buffer != nil {
		a.buffer.Release()
		a.buffer = nil
	}
}
