package ember

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/emberfx/ember/shaders"
	"github.com/emberfx/ember/sim"
)

// EmitterState owns the GPU resources for one emitter: the ping-pong pair of
// particle buffers, the per-frame uniform, and the compute pipeline. Bind
// group 0 reads buffer 0 and writes buffer 1; bind group 1 is the mirror.
// The clock's frame parity picks which one a dispatch uses, so the
// destination of frame N is the source of frame N+1.
//
// Animation passes attached to the emitter run after the step dispatch in
// the same compute pass, sharing its bind group layout; they read and
// rewrite the write side in place.
type EmitterState struct {
	Emitter *Emitter

	pipeline        *wgpu.ComputePipeline
	bindGroupLayout *wgpu.BindGroupLayout
	particleBuffers [2]*wgpu.Buffer
	emitterBuffer   *wgpu.Buffer
	bindGroups      [2]*wgpu.BindGroup

	animations []ParticleAnimation

	particleCount  uint32
	dispatchXCount uint32
}

// NewEmitterState allocates buffers sized for the emitter's slot capacity.
// Capacity and layout are fixed here for the lifetime of the state; this is
// the only place a size mismatch can be introduced, so it is the place it
// gets caught.
func NewEmitterState(g *GpuState, em *Emitter) (*EmitterState, error) {
	if err := em.Validate(); err != nil {
		return nil, err
	}

	count := em.ParticleCount()
	bufferSize := uint64(count) * sim.ParticleStride

	s := &EmitterState{
		Emitter:        em,
		particleCount:  count,
		dispatchXCount: (count + sim.WorkgroupSize - 1) / sim.WorkgroupSize,
	}

	var err error
	for i := 0; i < 2; i++ {
		s.particleBuffers[i], err = createStorageBuffer(
			fmt.Sprintf("Particle Buffer %d (%s)", i, em.ID), bufferSize, g)
		if err != nil {
			s.Release()
			return nil, err
		}
	}

	u := em.ToUniform()
	s.emitterBuffer, err = createUniformBuffer(
		fmt.Sprintf("Emitter Buffer (%s)", em.ID), sim.EncodeUniform(&u), g)
	if err != nil {
		s.Release()
		return nil, err
	}

	// The layout is explicit so animation pipelines can share group 0 with
	// the step pipeline.
	s.bindGroupLayout, err = g.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: fmt.Sprintf("Emitter BGL (%s)", em.ID),
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeStorage,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: sim.UniformStride,
				},
			},
		},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create emitter bind group layout: %w", err)
	}

	pipelineLayout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Emitter pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.bindGroupLayout},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create emitter pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	s.pipeline, err = createComputePipeline("Emitter compute", shaders.EmitterWGSL, "main", pipelineLayout, g)
	if err != nil {
		s.Release()
		return nil, err
	}

	for i := 0; i < 2; i++ {
		s.bindGroups[i], err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Emitter Bind Group %d (%s)", i, em.ID),
			Layout: s.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.particleBuffers[i], Size: wgpu.WholeSize},
				// opposite buffer is the write side
				{Binding: 1, Buffer: s.particleBuffers[(i+1)%2], Size: wgpu.WholeSize},
				{Binding: 2, Buffer: s.emitterBuffer, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("create emitter bind group %d: %w", i, err)
		}
	}

	return s, nil
}

// AddAnimation attaches a per-particle animation pass to the emitter. The
// pass runs every frame after the step dispatch, in attachment order.
func (s *EmitterState) AddAnimation(g *GpuState, anim ParticleAnimation) error {
	if err := anim.attach(g, s); err != nil {
		return err
	}
	s.animations = append(s.animations, anim)
	return nil
}

// Update advances the emitter's spawn window and uploads the new uniform
// snapshot. Must run before this frame's Compute; the upload is ordered
// ahead of the dispatch on the queue, so no invocation observes a partial
// config.
func (s *EmitterState) Update(g *GpuState, clock *Clock) {
	s.Emitter.Update(clock)
	u := s.Emitter.ToUniform()
	g.queue.WriteBuffer(s.emitterBuffer, 0, sim.EncodeUniform(&u))

	for _, anim := range s.animations {
		anim.Update(g, clock)
	}
}

// Compute records this emitter's simulation dispatch into the pass, followed
// by its animation passes. The frame parity selects which buffer is read and
// which is written.
func (s *EmitterState) Compute(pass *wgpu.ComputePassEncoder, clock *Clock) {
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, s.bindGroups[clock.BindGroupNr()], nil)
	pass.DispatchWorkgroups(s.dispatchXCount, 1, 1)

	for _, anim := range s.animations {
		anim.Compute(s, pass, clock)
	}
}

func (s *EmitterState) ParticleCount() uint32 {
	return s.particleCount
}

// RenderSourceBuffer is the buffer the most recent dispatch wrote; the
// render pass may read it only after the dispatch's completion signal.
func (s *EmitterState) RenderSourceBuffer(clock *Clock) *wgpu.Buffer {
	return s.particleBuffers[clock.AltBindGroupNr()]
}

func (s *EmitterState) Release() {
	for _, anim := range s.animations {
		anim.Release()
	}
	s.animations = nil
	for _, bg := range s.bindGroups {
		if bg != nil {
			bg.Release()
		}
	}
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.bindGroupLayout != nil {
		s.bindGroupLayout.Release()
	}
	if s.emitterBuffer != nil {
		s.emitterBuffer.Release()
	}
	for _, buf := range s.particleBuffers {
		if buf != nil {
			buf.Release()
		}
	}
}
