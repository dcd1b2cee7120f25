package ember

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/emberfx/ember/sim"
)

// Scene ties the clock, emitters and render consumer into the per-frame
// pipeline: update uniforms, one compute dispatch per emitter, render, swap
// roles via frame parity. Two dispatches never run against the same buffer
// pair concurrently because frames are strictly sequential on the queue.
type Scene struct {
	log      Logger
	gpu      *GpuState
	clock    *Clock
	camera   *Camera
	renderer *ParticleRenderer
	emitters []*EmitterState
}

func NewScene(g *GpuState, log Logger) (*Scene, error) {
	if log == nil {
		log = NewNopLogger()
	}
	renderer, err := NewParticleRenderer(g)
	if err != nil {
		return nil, err
	}
	return &Scene{
		log:      log,
		gpu:      g,
		clock:    NewClock(),
		camera:   NewCamera(),
		renderer: renderer,
	}, nil
}

func (s *Scene) Clock() *Clock   { return s.clock }
func (s *Scene) Camera() *Camera { return s.camera }

// AddEmitter allocates GPU state for the emitter and registers it with the
// renderer.
func (s *Scene) AddEmitter(em *Emitter) (*EmitterState, error) {
	state, err := NewEmitterState(s.gpu, em)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.AddEmitter(s.gpu, state); err != nil {
		state.Release()
		return nil, err
	}
	s.emitters = append(s.emitters, state)
	s.log.Infof("emitter %s: %d slots, %d workgroups",
		em.ID, state.ParticleCount(), state.dispatchXCount)
	return state, nil
}

// RemoveEmitter releases an emitter's GPU state and drops it from the frame.
func (s *Scene) RemoveEmitter(state *EmitterState) {
	for i, e := range s.emitters {
		if e == state {
			s.emitters = append(s.emitters[:i], s.emitters[i+1:]...)
			s.renderer.RemoveEmitter(state)
			state.Release()
			return
		}
	}
}

// Frame runs one simulation and render frame.
func (s *Scene) Frame() error {
	s.clock.Update()

	for _, e := range s.emitters {
		e.Update(s.gpu, s.clock)
	}
	s.renderer.UpdateCamera(s.gpu, s.camera)

	view, release, err := s.gpu.CurrentTextureView()
	if err != nil {
		return err
	}
	defer release()

	encoder, err := s.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	computePass := encoder.BeginComputePass(nil)
	for _, e := range s.emitters {
		e.Compute(computePass, s.clock)
	}
	computePass.End()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	s.renderer.Render(renderPass, s.clock, s.emitters)
	renderPass.End()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer cmdBuf.Release()

	s.gpu.queue.Submit(cmdBuf)
	return nil
}

// ReadParticles copies the most recently written particle buffer back to the
// host and decodes it. It blocks on the device until the copy's completion
// signal fires; the destination buffer is never read before that.
func (s *Scene) ReadParticles(state *EmitterState) ([]sim.Particle, error) {
	src := state.RenderSourceBuffer(s.clock)
	size := uint64(state.ParticleCount()) * sim.ParticleStride

	staging, err := s.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Particle Readback",
		Size:  size,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := s.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create readback encoder: %w", err)
	}
	defer encoder.Release()

	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish readback encoder: %w", err)
	}
	defer cmdBuf.Release()
	s.gpu.queue.Submit(cmdBuf)

	mapped := false
	staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		mapped = status == wgpu.BufferMapAsyncStatusSuccess
	})
	s.gpu.device.Poll(true, nil)
	if !mapped {
		return nil, fmt.Errorf("map readback buffer for emitter %s failed", state.Emitter.ID)
	}
	defer staging.Unmap()

	data := staging.GetMappedRange(0, uint(size))
	return sim.DecodeParticles(data), nil
}

func (s *Scene) Release() {
	for _, e := range s.emitters {
		e.Release()
	}
	s.emitters = nil
	if s.renderer != nil {
		s.renderer.Release()
	}
}
