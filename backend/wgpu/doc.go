//go:build !(js && wasm)

// Package wgpu provides a gpucore.Provider backed by the gogpu/wgpu HAL.
//
// Contexts render offscreen into an RGBA8 texture sized by Viewport, with a
// 4x multisampled color attachment when antialiasing is requested and a
// depth/stencil attachment when either buffer is requested. WGSL programs
// are compiled to SPIR-V with naga before they reach the device.
//
// # Device selection
//
// By default the provider asks the HAL for the best backend (Vulkan, Metal,
// DX12, GL, then noop) and picks an adapter matching the requested power
// preference:
//
//	p := wgpu.New()
//
// A specific HAL backend can be pinned:
//
//	import _ "github.com/gogpu/wgpu/hal/noop"
//
//	p := wgpu.New(wgpu.WithBackend(gputypes.BackendEmpty))
//
// Applications that already own a device share it instead of opening a new
// one. Contexts created this way never destroy the shared device:
//
//	p := wgpu.New(wgpu.WithDeviceProvider(host))
//
// # Registration
//
// Importing the package registers the provider under backend.NameWGPU:
//
//	import _ "github.com/gogpu/imageview/backend/wgpu"
//
// # Errors
//
// Per-frame HAL failures are recorded as gpucore error codes:
// hal.ErrDeviceOutOfMemory as OutOfMemory, hal.ErrDeviceLost as
// ContextLost and anything else as InvalidOperation.
package wgpu
