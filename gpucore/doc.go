// Package gpucore defines the graphics context provider contract used by the
// imageview render session.
//
// A [Provider] creates a [Context] for a named target (a canvas element id,
// an offscreen label). A Context exposes the small, GL-shaped set of
// operations needed to draw one textured quad: create and delete textures,
// programs and buffers, upload data, clear, bind, draw. Resources are
// referred to by opaque IDs ([TextureID], [ProgramID], [BufferID]); each
// implementation keeps the mapping to its native objects.
//
// # Error reporting
//
// Creation calls return Go errors. Per-frame calls do not; like a GL
// context, an implementation records failures and the caller polls
// [Context.Error] after each call that can fail. This lets the session
// attribute an [ErrorCode] to the exact step that produced it.
//
// # Implementations
//
//	backend/wgpu      gogpu/wgpu HAL (Vulkan, Metal, DX12, GLES, software, noop)
//	backend/software  CPU rasterizer on golang.org/x/image/draw
//	backend/webgl     WebGL2 through syscall/js (js/wasm only)
package gpucore
