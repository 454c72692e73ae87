package imageview

import (
	"errors"
	"fmt"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

// Errors re-exported from the packages that produce them.
var (
	// ErrInvalidDimensions is returned for a zero or negative frame or
	// viewport dimension.
	ErrInvalidDimensions = layout.ErrInvalidDimensions

	// ErrInvalidFitMode is returned for an unknown fit mode.
	ErrInvalidFitMode = layout.ErrInvalidFitMode

	// ErrContextCreationFailed is returned when the provider cannot create a
	// graphics context for the target.
	ErrContextCreationFailed = gpucore.ErrContextCreationFailed

	// ErrShaderCompileFailed is returned when a stage of the quad program
	// fails to compile.
	ErrShaderCompileFailed = gpucore.ErrShaderCompileFailed

	// ErrShaderLinkFailed is returned when the quad program fails to link.
	ErrShaderLinkFailed = gpucore.ErrShaderLinkFailed
)

var (
	// ErrSessionNotInitialized is returned by Present before Initialize or
	// after Close.
	ErrSessionNotInitialized = errors.New("imageview: session not initialized")

	// ErrInvalidFrame is returned when the pixel buffer length is not
	// width*height*4.
	ErrInvalidFrame = errors.New("imageview: invalid frame")

	// ErrGPUOperationFailed matches every GPUOperationError.
	ErrGPUOperationFailed = errors.New("imageview: GPU operation failed")

	// ErrReadbackUnsupported is returned by ReadPixels when the context
	// cannot read its render target back.
	ErrReadbackUnsupported = errors.New("imageview: readback not supported")
)

// GPUOperationError reports a graphics API error raised by one step of a
// frame. The session stays ready; the next Present is attempted normally.
type GPUOperationError struct {
	// Op names the step that failed, e.g. "upload texture".
	Op string

	// Code is the error reported by the context.
	Code gpucore.ErrorCode
}

func (e *GPUOperationError) Error() string {
	return fmt.Sprintf("imageview: %s: GPU error %s", e.Op, e.Code)
}

// Unwrap returns ErrGPUOperationFailed.
func (e *GPUOperationError) Unwrap() error { return ErrGPUOperationFailed }
