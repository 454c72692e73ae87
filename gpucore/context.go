package gpucore

import (
	"fmt"
	"image"
)

// PowerPreference hints which adapter a provider should pick.
type PowerPreference uint8

const (
	// PowerDefault lets the implementation choose.
	PowerDefault PowerPreference = iota

	// PowerLowPower prefers integrated or otherwise power-efficient adapters.
	PowerLowPower

	// PowerHighPerformance prefers discrete adapters.
	PowerHighPerformance
)

// String returns the WebGL spelling of the preference.
func (p PowerPreference) String() string {
	switch p {
	case PowerDefault:
		return "default"
	case PowerLowPower:
		return "low-power"
	case PowerHighPerformance:
		return "high-performance"
	default:
		return fmt.Sprintf("PowerPreference(%d)", uint8(p))
	}
}

// ContextOptions toggles fixed-function aspects of the drawing surface.
type ContextOptions struct {
	// Alpha requests an alpha channel in the drawing buffer.
	Alpha bool

	// Depth requests a depth buffer.
	Depth bool

	// Stencil requests a stencil buffer.
	Stencil bool

	// Antialias requests multisampled rendering.
	Antialias bool

	// PremultipliedAlpha tells the compositor the drawing buffer holds
	// premultiplied colors. Only meaningful for on-screen targets.
	PremultipliedAlpha bool

	// PreserveDrawingBuffer keeps the previous frame's contents instead of
	// discarding them after presentation.
	PreserveDrawingBuffer bool

	// PowerPreference selects the adapter class.
	PowerPreference PowerPreference

	// FailOnPerformanceCaveat makes context creation fail when only a
	// slow (software) implementation is available.
	FailOnPerformanceCaveat bool
}

// DefaultContextOptions returns the defaults: alpha, depth, stencil,
// antialiasing and premultiplied alpha on; the drawing buffer is not
// preserved; default power preference; software implementations accepted.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		Alpha:              true,
		Depth:              true,
		Stencil:            true,
		Antialias:          true,
		PremultipliedAlpha: true,
	}
}

// Provider creates graphics contexts.
type Provider interface {
	// Name returns the provider identifier (e.g. "wgpu", "software").
	Name() string

	// CreateContext creates a context rendering into target. The meaning of
	// target depends on the provider: a canvas element id for WebGL, a label
	// for offscreen providers. Failures wrap ErrContextCreationFailed.
	CreateContext(target string, opts ContextOptions) (Context, error)
}

// Context is one graphics context and the resources created through it.
//
// Per-frame methods do not return errors. Failures are recorded and
// reported, oldest first, by Error.
type Context interface {
	// MakeCurrent binds the context to the calling thread.
	MakeCurrent() error

	// Viewport sets the drawable region in pixels. Offscreen
	// implementations (re)allocate their render target to width x height.
	Viewport(x, y, width, height int)

	// CreateTexture allocates a texture name with fixed sampling state.
	// Storage is defined by TexImage2D.
	CreateTexture(params TextureParams) (TextureID, error)

	// CreateProgram compiles and links src. Compile failures wrap
	// ErrShaderCompileFailed, link failures ErrShaderLinkFailed.
	CreateProgram(src ProgramSource) (ProgramID, error)

	// CreateBuffer allocates a vertex buffer of size bytes.
	CreateBuffer(size int) (BufferID, error)

	DeleteTexture(id TextureID)
	DeleteProgram(id ProgramID)
	DeleteBuffer(id BufferID)

	// BufferData replaces the buffer contents starting at offset zero.
	BufferData(id BufferID, data []byte)

	// TexImage2D binds the texture to unit and defines its storage as
	// width x height RGBA8 texels from pix. unpackAlignment is the row
	// alignment of pix in bytes.
	TexImage2D(unit int, id TextureID, width, height int, pix []byte, unpackAlignment int)

	// Clear fills the render target with c.
	Clear(c Color)

	// UseProgram selects the program for subsequent draws.
	UseProgram(id ProgramID)

	// Uniform1i sets an integer uniform, typically a sampler unit.
	Uniform1i(program ProgramID, name string, v int)

	// BindAttributes enables the attributes and points them at buffer with
	// the given stride.
	BindAttributes(program ProgramID, buffer BufferID, stride int, attrs []VertexAttribute)

	// DisableAttributes disables attribute arrays enabled by BindAttributes.
	DisableAttributes(program ProgramID, attrs []VertexAttribute)

	// DrawArrays draws count vertices starting at first.
	DrawArrays(mode Primitive, first, count int)

	// Error returns and clears the oldest recorded error, or NoError.
	Error() ErrorCode

	// Release destroys the context. Resources still alive are freed.
	Release()
}

// PixelReader is implemented by contexts whose render target can be read
// back to host memory.
type PixelReader interface {
	// ReadPixels returns the render target, top row first.
	ReadPixels() (*image.NRGBA, error)
}
