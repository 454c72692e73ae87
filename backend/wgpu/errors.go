//go:build !(js && wasm)

package wgpu

import (
	"errors"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/gpucore"
)

// Package errors for the wgpu provider.
var (
	// ErrNoAdapter is returned when the HAL backend exposes no adapters.
	ErrNoAdapter = errors.New("wgpu: no adapter available")

	// ErrPerformanceCaveat is returned when FailOnPerformanceCaveat is set
	// and only a CPU adapter is available.
	ErrPerformanceCaveat = errors.New("wgpu: major performance caveat")

	// ErrInvalidDeviceProvider is returned when a gpucontext.DeviceProvider
	// does not hold a HAL device and queue.
	ErrInvalidDeviceProvider = errors.New("wgpu: device provider does not expose a hal device")

	// ErrEmptyShader is returned by CreateProgram when the program has no
	// WGSL source.
	ErrEmptyShader = errors.New("wgpu: program has no WGSL source")

	// ErrInvalidBufferSize is returned by CreateBuffer for a size <= 0.
	ErrInvalidBufferSize = errors.New("wgpu: invalid buffer size")

	// ErrNoRenderTarget is returned by ReadPixels before Viewport has
	// allocated a render target.
	ErrNoRenderTarget = errors.New("wgpu: no render target")
)

// errorCode maps a HAL error to the code recorded by Context.Error.
func errorCode(err error) gpucore.ErrorCode {
	switch {
	case err == nil:
		return gpucore.NoError
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return gpucore.OutOfMemory
	case errors.Is(err, hal.ErrDeviceLost):
		return gpucore.ContextLost
	default:
		return gpucore.InvalidOperation
	}
}
