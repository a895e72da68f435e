package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/blit.wgsl
var blitShaderSource string

// blitPipeline owns the GPU objects for copying a sampled source texture
// onto a render target with a single fullscreen-triangle draw.
type blitPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

// compileToSPIRV compiles WGSL source to little-endian SPIR-V words.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

func newBlitPipeline(dev hal.Device, label string) (*blitPipeline, error) {
	spirv, err := compileToSPIRV(blitShaderSource)
	if err != nil {
		return nil, fmt.Errorf("blit shader: %w", err)
	}

	p := &blitPipeline{}
	shader, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_blit_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create blit shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroy(dev)
		return nil, fmt.Errorf("create blit bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(dev)
		return nil, fmt.Errorf("create blit pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
	})
	if err != nil {
		p.destroy(dev)
		return nil, fmt.Errorf("create blit sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_blit_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy(dev)
		return nil, fmt.Errorf("create blit pipeline: %w", err)
	}
	p.pipeline = pipeline

	return p, nil
}

// bindGroup builds the per-source bind group referencing view.
func (p *blitPipeline) bindGroup(dev hal.Device, label string, view hal.TextureView) (hal.BindGroup, error) {
	return dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_blit_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
}

// destroy releases pipeline objects in reverse creation order. Partial
// construction is tolerated.
func (p *blitPipeline) destroy(dev hal.Device) {
	if dev == nil {
		return
	}
	if p.pipeline != nil {
		dev.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		dev.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		dev.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
