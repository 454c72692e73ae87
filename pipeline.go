package imageview

import (
	_ "embed"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

//go:embed shaders/quad.vert.glsl
var quadVertexGLSL string

//go:embed shaders/quad.frag.glsl
var quadFragmentGLSL string

//go:embed shaders/quad.wgsl
var quadWGSL string

// samplerUnit is the texture unit the frame texture is bound to.
const samplerUnit = 0

// quadPipeline is the only program a session ever builds: a pass-through
// vertex stage and a fragment stage that outputs the sampled texel.
var quadPipeline = gpucore.ProgramSource{
	Label:         "imageview_quad",
	GLSLVertex:    quadVertexGLSL,
	GLSLFragment:  quadFragmentGLSL,
	WGSL:          quadWGSL,
	VertexEntry:   "vs_main",
	FragmentEntry: "fs_main",
	Stride:        layout.VertexStride,
	Attributes: []gpucore.VertexAttribute{
		{Name: "position", Location: 0, Components: 2, Offset: layout.PositionOffset},
		{Name: "texCoord", Location: 1, Components: 2, Offset: layout.TexCoordOffset},
	},
	Sampler: "uTexture",
}

// Pipeline returns a copy of the program description used by sessions.
// Providers can use it to precompile or validate the pipeline.
func Pipeline() gpucore.ProgramSource {
	p := quadPipeline
	p.Attributes = append([]gpucore.VertexAttribute(nil), quadPipeline.Attributes...)
	return p
}
