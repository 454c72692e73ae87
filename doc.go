// Package imageview draws a single RGBA image into a viewport with a GPU
// pipeline made of one shader program, one texture and one vertex buffer.
//
// # Overview
//
// A [Session] owns the GPU resources for one render target. Initialize
// creates a graphics context through a [gpucore.Provider] and allocates the
// resources; every Present call lays the frame out with package layout,
// uploads geometry and pixels and draws one textured quad on an opaque black
// background. Close releases everything.
//
//	p, err := backend.Get(backend.NameSoftware)
//	if err != nil {
//		log.Fatal(err)
//	}
//	s := imageview.NewSession(p, imageview.WithFitMode(layout.FitContain))
//	if err := s.Initialize("preview", 800, 600); err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.Present(pix, 400, 300); err != nil {
//		log.Print(err)
//	}
//
// # Frames
//
// A frame is exactly width*height*4 bytes of non-premultiplied RGBA8, row
// major, top row first. [FrameFromImage] converts any [image.Image].
//
// # Errors
//
// Caller errors ([ErrInvalidDimensions], [ErrInvalidFrame],
// [ErrSessionNotInitialized]) are returned before any GPU work. Initialize
// failures ([ErrContextCreationFailed], [ErrShaderCompileFailed],
// [ErrShaderLinkFailed]) leave the session uninitialized with nothing
// leaked. A [GPUOperationError] from Present aborts that frame only.
//
// # Concurrency
//
// A Session must be driven from one goroutine at a time.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package imageview
