//go:build !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/internal/cache"
)

// Bind group slots used by every program: a 2D float texture and its
// filtering sampler.
const (
	textureBinding = 0
	samplerBinding = 1
)

// program is a compiled render pipeline and the layouts it was built with.
type program struct {
	src        gpucore.ProgramSource
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// modules caches SPIR-V by WGSL source across contexts.
var modules = cache.New[string, []uint32](16)

// compileSPIRV compiles WGSL source to a SPIR-V word slice. Results are
// shared; callers must not modify the returned slice.
func compileSPIRV(wgsl string) ([]uint32, error) {
	return modules.GetOrCreate(wgsl, func() ([]uint32, error) {
		return translate(wgsl)
	})
}

func translate(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// vertexFormat maps a float component count to a vertex format.
func vertexFormat(components int) (gputypes.VertexFormat, bool) {
	switch components {
	case 1:
		return gputypes.VertexFormatFloat32, true
	case 2:
		return gputypes.VertexFormatFloat32x2, true
	case 3:
		return gputypes.VertexFormatFloat32x3, true
	case 4:
		return gputypes.VertexFormatFloat32x4, true
	default:
		return 0, false
	}
}

// vertexLayout describes the single interleaved vertex buffer of src.
func vertexLayout(src *gpucore.ProgramSource) ([]gputypes.VertexBufferLayout, error) {
	if src.Stride <= 0 {
		return nil, fmt.Errorf("invalid vertex stride %d", src.Stride)
	}
	attrs := make([]gputypes.VertexAttribute, 0, len(src.Attributes))
	for _, a := range src.Attributes {
		format, ok := vertexFormat(a.Components)
		if !ok {
			return nil, fmt.Errorf("attribute %q: unsupported component count %d", a.Name, a.Components)
		}
		if a.Offset < 0 || a.Offset+a.Components*4 > src.Stride {
			return nil, fmt.Errorf("attribute %q: offset %d outside stride %d", a.Name, a.Offset, src.Stride)
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
		})
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(src.Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}, nil
}

// buildProgram compiles src and creates its render pipeline for the
// current attachment configuration. Compilation failures are reported as
// vertex-stage ShaderErrors since both entry points share one module;
// layout and pipeline failures are link errors.
func (c *Context) buildProgram(src gpucore.ProgramSource) (*program, error) {
	compileErr := func(err error) error {
		return &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageVertex, Log: err.Error()}
	}
	linkErr := func(err error) error {
		return &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageLink, Log: err.Error()}
	}

	if src.WGSL == "" {
		return nil, compileErr(ErrEmptyShader)
	}
	code, err := compileSPIRV(src.WGSL)
	if err != nil {
		return nil, compileErr(err)
	}

	dev := c.dev.device
	p := &program{src: src}
	ok := false
	defer func() {
		if !ok {
			c.destroyProgram(p)
		}
	}()

	p.shader, err = dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  src.Label + "_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, compileErr(err)
	}

	buffers, err := vertexLayout(&src)
	if err != nil {
		return nil, linkErr(err)
	}

	p.bindLayout, err = dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: src.Label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    textureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    samplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, linkErr(fmt.Errorf("create bind group layout: %w", err))
	}

	p.pipeLayout, err = dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            src.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return nil, linkErr(fmt.Errorf("create pipeline layout: %w", err))
	}

	p.pipeline, err = dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  src.Label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: src.VertexEntry,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: src.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		DepthStencil: c.depthStencilState(),
		Multisample: gputypes.MultisampleState{
			Count: c.sampleCount(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, linkErr(fmt.Errorf("create render pipeline: %w", err))
	}

	ok = true
	return p, nil
}

// depthStencilState passes every fragment and leaves the buffers untouched.
// The image quad never uses depth or stencil, but pipelines must match the
// attachments of the pass they are drawn in.
func (c *Context) depthStencilState() *hal.DepthStencilState {
	if !c.hasDepthStencil() {
		return nil
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0xFF,
		StencilWriteMask:  0,
	}
}

// destroyProgram releases p's GPU objects in reverse creation order.
func (c *Context) destroyProgram(p *program) {
	dev := c.dev.device
	if p.pipeline != nil {
		dev.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
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
