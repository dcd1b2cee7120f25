package ember

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/emberfx/ember/shaders"
)

// ParticleRenderer draws every live particle as a camera-facing quad. It
// reads the buffer the most recent dispatch wrote; decayed slots collapse to
// zero size in the vertex stage, so nothing is ever compacted on the CPU.
type ParticleRenderer struct {
	pipeline        *wgpu.RenderPipeline
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	particleBindGroups map[*EmitterState][2]*wgpu.BindGroup
}

func NewParticleRenderer(g *GpuState) (*ParticleRenderer, error) {
	shader, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Particle render",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticleWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("create particle shader module: %w", err)
	}
	defer shader.Release()

	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	pipeline, err := g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Particle render pipeline",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    g.surfaceConfig.Format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create particle render pipeline: %w", err)
	}

	r := &ParticleRenderer{
		pipeline:           pipeline,
		particleBindGroups: make(map[*EmitterState][2]*wgpu.BindGroup),
	}

	camera := NewCamera()
	aspect := float32(g.surfaceConfig.Width) / float32(g.surfaceConfig.Height)
	r.cameraBuffer, err = createUniformBuffer("Camera Buffer", encodeCamera(camera, aspect), g)
	if err != nil {
		r.Release()
		return nil, err
	}

	cameraLayout := pipeline.GetBindGroupLayout(0)
	defer cameraLayout.Release()

	r.cameraBindGroup, err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("create camera bind group: %w", err)
	}

	return r, nil
}

// AddEmitter prepares the per-parity bind groups reading the emitter's
// particle buffers.
func (r *ParticleRenderer) AddEmitter(g *GpuState, s *EmitterState) error {
	layout := r.pipeline.GetBindGroupLayout(1)
	defer layout.Release()

	var groups [2]*wgpu.BindGroup
	for i := 0; i < 2; i++ {
		bg, err := g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Particle Render Bind Group %d (%s)", i, s.Emitter.ID),
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.particleBuffers[i], Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("create particle render bind group %d: %w", i, err)
		}
		groups[i] = bg
	}
	r.particleBindGroups[s] = groups
	return nil
}

// RemoveEmitter releases the emitter's render bind groups and drops its
// registry entry. The bind groups pin the particle buffers, so this must run
// before the emitter state itself is released.
func (r *ParticleRenderer) RemoveEmitter(s *EmitterState) {
	groups, ok := r.particleBindGroups[s]
	if !ok {
		return
	}
	for _, bg := range groups {
		if bg != nil {
			bg.Release()
		}
	}
	delete(r.particleBindGroups, s)
}

// UpdateCamera re-uploads the camera uniform.
func (r *ParticleRenderer) UpdateCamera(g *GpuState, camera *Camera) {
	aspect := float32(g.surfaceConfig.Width) / float32(g.surfaceConfig.Height)
	g.queue.WriteBuffer(r.cameraBuffer, 0, encodeCamera(camera, aspect))
}

// Render draws all registered emitters, one instanced quad strip each,
// reading the buffer the frame's dispatch finished writing.
func (r *ParticleRenderer) Render(pass *wgpu.RenderPassEncoder, clock *Clock, emitters []*EmitterState) {
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.cameraBindGroup, nil)

	nr := clock.AltBindGroupNr()
	for _, s := range emitters {
		groups, ok := r.particleBindGroups[s]
		if !ok {
			continue
		}
		pass.SetBindGroup(1, groups[nr], nil)
		pass.Draw(4, s.ParticleCount(), 0, 0)
	}
}

func (r *ParticleRenderer) Release() {
	for _, groups := range r.particleBindGroups {
		for _, bg := range groups {
			if bg != nil {
				bg.Release()
			}
		}
	}
	if r.cameraBindGroup != nil {
		r.cameraBindGroup.Release()
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
}
