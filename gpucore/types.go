package gpucore

import "fmt"

// Resource IDs
//
// These opaque IDs represent GPU resources. Each context implementation
// maintains a mapping between IDs and actual backend resources.

// TextureID is an opaque handle to a texture.
type TextureID uint64

// ProgramID is an opaque handle to a linked shader program.
type ProgramID uint64

// BufferID is an opaque handle to a vertex buffer.
type BufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// Color is a clear color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Black is opaque black.
var Black = Color{A: 1}

// Primitive is the topology used by DrawArrays.
type Primitive uint8

const (
	// TriangleStrip forms a triangle from each vertex and the two before it.
	TriangleStrip Primitive = iota + 1

	// Triangles forms a triangle from each group of three vertices.
	Triangles
)

func (p Primitive) String() string {
	switch p {
	case TriangleStrip:
		return "TriangleStrip"
	case Triangles:
		return "Triangles"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(p))
	}
}

// WrapMode is the texture addressing mode outside [0, 1].
type WrapMode uint8

const (
	// WrapClampToEdge repeats the edge texel.
	WrapClampToEdge WrapMode = iota

	// WrapRepeat tiles the texture.
	WrapRepeat
)

func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "clamp-to-edge"
	case WrapRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("WrapMode(%d)", uint8(w))
	}
}

// FilterMode is the texture minification and magnification filter.
type FilterMode uint8

const (
	// FilterLinear interpolates between neighbouring texels.
	FilterLinear FilterMode = iota

	// FilterNearest picks the closest texel.
	FilterNearest
)

func (f FilterMode) String() string {
	switch f {
	case FilterLinear:
		return "linear"
	case FilterNearest:
		return "nearest"
	default:
		return fmt.Sprintf("FilterMode(%d)", uint8(f))
	}
}

// TextureParams describes sampling state fixed at texture creation.
type TextureParams struct {
	Label  string
	Wrap   WrapMode
	Filter FilterMode
}

// VertexAttribute binds a named shader input to a slice of each vertex.
type VertexAttribute struct {
	// Name is the attribute name in the GLSL vertex shader.
	Name string

	// Location is the shader location used by WGSL pipelines.
	Location uint32

	// Components is the number of float32 components (2 for vec2).
	Components int

	// Offset is the byte offset within one vertex.
	Offset int
}

// ProgramSource is the complete description of a shader program: the
// sources for each shading language a backend may consume, the vertex
// layout and the name of the sampler uniform.
type ProgramSource struct {
	Label string

	// GLSLVertex and GLSLFragment are GLSL ES 1.00 sources.
	GLSLVertex   string
	GLSLFragment string

	// WGSL holds both entry points.
	WGSL          string
	VertexEntry   string
	FragmentEntry string

	// Stride is the byte size of one interleaved vertex.
	Stride     int
	Attributes []VertexAttribute

	// Sampler is the name of the sampler uniform.
	Sampler string
}

// Attribute returns the attribute with the given name.
func (s *ProgramSource) Attribute(name string) (VertexAttribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return VertexAttribute{}, false
}
