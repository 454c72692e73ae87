//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/imageview/backend"
	"github.com/gogpu/imageview/gpucore"
)

// Package errors for the WebGL provider.
var (
	// ErrCanvasNotFound is returned when no element has the target id.
	ErrCanvasNotFound = errors.New("webgl: canvas not found")

	// ErrUnsupported is returned when the canvas refuses every WebGL
	// version.
	ErrUnsupported = errors.New("webgl: not supported by the canvas")
)

// contextNames lists the context types requested from the canvas, most
// capable first.
var contextNames = []string{"webgl2", "webgl", "experimental-webgl"}

// init registers the WebGL provider on package import.
func init() {
	backend.Register(backend.NameWebGL, func() gpucore.Provider {
		return New()
	})
}

// Provider creates WebGL contexts on canvases of the current document.
type Provider struct {
	document js.Value
}

// New returns a provider bound to the global document.
func New() *Provider {
	return &Provider{document: js.Global().Get("document")}
}

// Name returns backend.NameWebGL.
func (p *Provider) Name() string { return backend.NameWebGL }

// CreateContext creates a WebGL context on the canvas with id target.
func (p *Provider) CreateContext(target string, opts gpucore.ContextOptions) (gpucore.Context, error) {
	if !p.document.Truthy() {
		return nil, fmt.Errorf("%w: no document", gpucore.ErrContextCreationFailed)
	}
	canvas := p.document.Call("getElementById", target)
	if !canvas.Truthy() {
		return nil, fmt.Errorf("%w: %w: %q", gpucore.ErrContextCreationFailed, ErrCanvasNotFound, target)
	}

	attrs := js.ValueOf(map[string]any{
		"alpha":                        opts.Alpha,
		"depth":                        opts.Depth,
		"stencil":                      opts.Stencil,
		"antialias":                    opts.Antialias,
		"premultipliedAlpha":           opts.PremultipliedAlpha,
		"preserveDrawingBuffer":        opts.PreserveDrawingBuffer,
		"powerPreference":              opts.PowerPreference.String(),
		"failIfMajorPerformanceCaveat": opts.FailOnPerformanceCaveat,
	})

	for _, name := range contextNames {
		gl := canvas.Call("getContext", name, attrs)
		if gl.Truthy() {
			gpucore.Logger().Info("webgl: context created", "target", target, "version", name)
			return newContext(target, canvas, gl, opts), nil
		}
	}
	gpucore.Logger().Warn("webgl: context creation failed", "target", target)
	return nil, fmt.Errorf("%w: %w: %q", gpucore.ErrContextCreationFailed, ErrUnsupported, target)
}
