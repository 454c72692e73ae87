package imageview

import (
	"fmt"
	"image"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateUninitialized holds no GPU resources.
	StateUninitialized State = iota

	// StateReady holds a context, a texture, a program and a vertex buffer.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// maxStaleErrors bounds how many leftover error codes are discarded at the
// start of a frame.
const maxStaleErrors = 16

// Session draws frames into one render target.
//
// Lifecycle:
//  1. NewSession(provider, opts...)
//  2. Initialize(target, width, height)
//  3. Present(...) any number of times
//  4. Close()
//
// Initialize may be called again at any time; the previous resources are
// released first. A Session is not safe for concurrent use.
type Session struct {
	provider gpucore.Provider
	opts     options
	res      resources
	viewport Viewport
	target   string

	// geometry is reused for every vertex upload.
	geometry [layout.ByteSize]byte
}

// NewSession returns an uninitialized session that creates its context
// through p.
func NewSession(p gpucore.Provider, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{provider: p, opts: o}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	if s.res.valid() {
		return StateReady
	}
	return StateUninitialized
}

// Viewport returns the viewport set by the last successful Initialize, or
// the zero value when uninitialized.
func (s *Session) Viewport() Viewport { return s.viewport }

// FitMode returns the fit mode used by Present.
func (s *Session) FitMode() layout.FitMode { return s.opts.fitMode }

// Context returns the live graphics context, or nil when uninitialized.
func (s *Session) Context() gpucore.Context { return s.res.ctx }

// Initialize creates the graphics context for target and allocates the
// texture, the program and the vertex buffer for a width x height viewport.
//
// A ready session is torn down first, so calling Initialize repeatedly does
// not leak. On error the session is left uninitialized with nothing
// allocated; errors match ErrInvalidDimensions, ErrContextCreationFailed,
// ErrShaderCompileFailed, ErrShaderLinkFailed or ErrGPUOperationFailed.
func (s *Session) Initialize(target string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidDimensions, width, height)
	}
	if !s.opts.fitMode.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidFitMode, s.opts.fitMode)
	}
	if s.provider == nil {
		return fmt.Errorf("%w: no provider", ErrContextCreationFailed)
	}
	if s.res.valid() {
		Logger().Debug("imageview: re-initializing session", "target", s.target)
		s.teardown()
	}

	vp := Viewport{Width: width, Height: height}
	res, err := acquireResources(s.provider, target, vp, &s.opts)
	if err != nil {
		Logger().Warn("imageview: initialize failed", "target", target, "provider", s.provider.Name(), "err", err)
		return err
	}

	s.res = res
	s.viewport = vp
	s.target = target
	Logger().Info("imageview: session ready",
		"target", target,
		"provider", s.provider.Name(),
		"width", width,
		"height", height,
		"fit", s.opts.fitMode.String())
	return nil
}

// Present draws pix, a width x height RGBA8 frame, using the session's fit
// mode. The frame is not retained.
func (s *Session) Present(pix []byte, width, height int) error {
	return s.present(Frame{Width: width, Height: height, Pix: pix}, s.opts.fitMode)
}

// PresentFrame draws f using the session's fit mode.
func (s *Session) PresentFrame(f Frame) error {
	return s.present(f, s.opts.fitMode)
}

// PresentViewport draws pix as a frame of exactly the viewport size,
// stretched over the whole target.
func (s *Session) PresentViewport(pix []byte) error {
	return s.present(Frame{Width: s.viewport.Width, Height: s.viewport.Height, Pix: pix}, layout.FitStretch)
}

func (s *Session) present(f Frame, mode layout.FitMode) error {
	if !s.res.valid() {
		return ErrSessionNotInitialized
	}
	if err := f.Validate(); err != nil {
		return err
	}
	quad, err := f.Layout(s.viewport, mode)
	if err != nil {
		return err
	}

	ctx := s.res.ctx
	if err := ctx.MakeCurrent(); err != nil {
		return fmt.Errorf("imageview: make context current: %w", err)
	}
	s.drainErrors()

	ctx.BufferData(s.res.buffer, quad.AppendBytes(s.geometry[:0]))
	if err := s.check("upload geometry"); err != nil {
		return err
	}

	ctx.TexImage2D(samplerUnit, s.res.texture, f.Width, f.Height, f.Pix, 1)
	if err := s.check("upload texture"); err != nil {
		return err
	}

	ctx.Clear(gpucore.Black)
	if err := s.check("clear"); err != nil {
		return err
	}

	ctx.UseProgram(s.res.program)
	if err := s.check("use program"); err != nil {
		return err
	}
	ctx.Uniform1i(s.res.program, quadPipeline.Sampler, samplerUnit)
	if err := s.check("bind sampler"); err != nil {
		return err
	}

	ctx.BindAttributes(s.res.program, s.res.buffer, quadPipeline.Stride, quadPipeline.Attributes)
	err = s.check("bind attributes")
	if err == nil {
		ctx.DrawArrays(gpucore.TriangleStrip, 0, layout.VertexCount)
		err = s.check("draw")
	}
	ctx.DisableAttributes(s.res.program, quadPipeline.Attributes)
	if err != nil {
		return err
	}
	if err := s.check("disable attributes"); err != nil {
		return err
	}

	Logger().Debug("imageview: frame presented",
		"frame_w", f.Width,
		"frame_h", f.Height,
		"fit", mode.String(),
		"scale_x", quad.ScaleX,
		"scale_y", quad.ScaleY)
	return nil
}

// check polls the context for an error raised by the step named op.
func (s *Session) check(op string) error {
	code := s.res.ctx.Error()
	if code == gpucore.NoError {
		return nil
	}
	Logger().Warn("imageview: GPU operation failed", "op", op, "code", code.String())
	return &GPUOperationError{Op: op, Code: code}
}

// drainErrors discards codes left over from an aborted frame so they are
// not attributed to this one.
func (s *Session) drainErrors() {
	for i := 0; i < maxStaleErrors; i++ {
		code := s.res.ctx.Error()
		if code == gpucore.NoError {
			return
		}
		Logger().Debug("imageview: discarding stale GPU error", "code", code.String())
	}
}

// ReadPixels returns a copy of the render target when the context supports
// readback.
func (s *Session) ReadPixels() (*image.NRGBA, error) {
	if !s.res.valid() {
		return nil, ErrSessionNotInitialized
	}
	r, ok := s.res.ctx.(gpucore.PixelReader)
	if !ok {
		return nil, fmt.Errorf("%w: provider %s", ErrReadbackUnsupported, s.provider.Name())
	}
	return r.ReadPixels()
}

// Close releases the texture, program, vertex buffer and context. Calling
// Close on an uninitialized session is a no-op.
func (s *Session) Close() error {
	if !s.res.valid() {
		return nil
	}
	s.teardown()
	Logger().Debug("imageview: session closed")
	return nil
}

func (s *Session) teardown() {
	s.res.release()
	s.viewport = Viewport{}
	s.target = ""
}
