// Package webgl provides a gpucore.Provider for browsers, rendering into an
// HTML canvas through WebGL.
//
// The provider is only built for GOOS=js GOARCH=wasm. Importing the package
// registers it under backend.NameWebGL, ahead of every other provider:
//
//	import _ "github.com/gogpu/imageview/backend/webgl"
//
// The CreateContext target is the id of the canvas element. A WebGL 2
// context is requested first, falling back to WebGL 1. ContextOptions map
// one to one onto WebGLContextAttributes.
package webgl
