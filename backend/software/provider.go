package software

import (
	"fmt"

	"github.com/gogpu/imageview/backend"
	"github.com/gogpu/imageview/gpucore"
)

// DefaultMaxTextureSize is the largest texture edge accepted by default.
const DefaultMaxTextureSize = 16384

// init registers the software provider on package import.
func init() {
	backend.Register(backend.NameSoftware, func() gpucore.Provider {
		return New()
	})
}

// Provider creates CPU contexts.
type Provider struct {
	maxTextureSize int
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxTextureSize limits texture width and height.
func WithMaxTextureSize(n int) Option {
	return func(p *Provider) {
		p.maxTextureSize = n
	}
}

// New returns a software provider.
func New(opts ...Option) *Provider {
	p := &Provider{maxTextureSize: DefaultMaxTextureSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns backend.NameSoftware.
func (p *Provider) Name() string { return backend.NameSoftware }

// CreateContext returns an offscreen CPU context. target is only used as a
// label.
func (p *Provider) CreateContext(target string, opts gpucore.ContextOptions) (gpucore.Context, error) {
	if opts.FailOnPerformanceCaveat {
		return nil, fmt.Errorf("%w: %w", gpucore.ErrContextCreationFailed, ErrPerformanceCaveat)
	}
	gpucore.Logger().Info("software: context created", "target", target)
	return newContext(target, opts, p.maxTextureSize), nil
}
