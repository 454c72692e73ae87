package imageview

import (
	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

// Option configures a Session during creation.
// Use functional options to customize Session behavior.
//
// Example:
//
//	// Defaults: contain fit, clamp-to-edge, linear filtering, antialiasing
//	s := imageview.NewSession(p)
//
//	// Stretch to the viewport with nearest-neighbour sampling
//	s := imageview.NewSession(p,
//		imageview.WithFitMode(layout.FitStretch),
//		imageview.WithFilter(gpucore.FilterNearest),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	fitMode layout.FitMode
	texture gpucore.TextureParams
	context gpucore.ContextOptions
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		fitMode: layout.FitContain,
		texture: gpucore.TextureParams{
			Label:  "imageview_frame",
			Wrap:   gpucore.WrapClampToEdge,
			Filter: gpucore.FilterLinear,
		},
		context: gpucore.DefaultContextOptions(),
	}
}

// WithFitMode sets how frames passed to Present are mapped onto the
// viewport. PresentViewport always stretches.
func WithFitMode(m layout.FitMode) Option {
	return func(o *options) {
		o.fitMode = m
	}
}

// WithWrap sets the texture addressing mode.
func WithWrap(w gpucore.WrapMode) Option {
	return func(o *options) {
		o.texture.Wrap = w
	}
}

// WithFilter sets the texture minification and magnification filter.
func WithFilter(f gpucore.FilterMode) Option {
	return func(o *options) {
		o.texture.Filter = f
	}
}

// WithContextOptions replaces the options passed to the provider when the
// context is created.
func WithContextOptions(c gpucore.ContextOptions) Option {
	return func(o *options) {
		o.context = c
	}
}

// WithAntialias toggles multisampling on the drawing buffer.
func WithAntialias(on bool) Option {
	return func(o *options) {
		o.context.Antialias = on
	}
}

// WithPowerPreference sets the adapter class hint.
func WithPowerPreference(p gpucore.PowerPreference) Option {
	return func(o *options) {
		o.context.PowerPreference = p
	}
}
