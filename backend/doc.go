// Package backend is the registry of graphics context providers.
//
// Provider packages register themselves from init() functions, so importing
// a backend for its side effect makes it selectable by name:
//
//	import _ "github.com/gogpu/imageview/backend/software"
//	import _ "github.com/gogpu/imageview/backend/wgpu"
//
// # Provider Selection
//
// Use Default() to get the best registered provider, or Get() to request
// a specific one:
//
//	p, err := backend.Default()
//
//	p, err := backend.Get(backend.NameSoftware)
//
// Priority order is webgl > wgpu > software: a browser build prefers the
// canvas it runs in, a native build prefers the GPU, and the CPU provider
// is always the fallback.
package backend
