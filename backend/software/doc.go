// Package software implements a gpucore provider that rasterizes on the CPU.
//
// Textures and the render target are *image.NRGBA values. DrawArrays
// supports the axis-aligned textured quads imageview draws and scales the
// texture into place with golang.org/x/image/draw (bilinear or
// nearest-neighbour, following the texture's filter). Programs are checked,
// not executed: compilation verifies that the GLSL sources declare the
// attributes and the sampler uniform the program description names, and
// linking verifies that every varying read by the fragment stage is written
// by the vertex stage.
//
// Output is deterministic, which makes this provider the reference for
// pixel tests and headless rendering.
//
// Import for side effects to register it with package backend:
//
//	import _ "github.com/gogpu/imageview/backend/software"
package software
