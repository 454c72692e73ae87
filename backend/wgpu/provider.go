//go:build !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/backend"
	"github.com/gogpu/imageview/gpucore"
)

// init registers the wgpu provider on package import.
func init() {
	backend.Register(backend.NameWGPU, func() gpucore.Provider {
		return New()
	})
}

// Provider creates contexts on a HAL device.
type Provider struct {
	variant gputypes.Backend
	pinned  bool

	device hal.Device
	queue  hal.Queue
	host   gpucontext.DeviceProvider
}

// Option configures a Provider.
type Option func(*Provider)

// WithBackend pins the HAL backend instead of selecting the best one. The
// backend package must be imported so that it registers itself.
func WithBackend(variant gputypes.Backend) Option {
	return func(p *Provider) {
		p.variant = variant
		p.pinned = true
	}
}

// WithDevice makes contexts render on an existing device and queue.
func WithDevice(device hal.Device, queue hal.Queue) Option {
	return func(p *Provider) {
		p.device = device
		p.queue = queue
	}
}

// WithDeviceProvider makes contexts render on the device of a host
// application. The provider's Device and Queue must be HAL objects.
func WithDeviceProvider(host gpucontext.DeviceProvider) Option {
	return func(p *Provider) {
		p.host = host
	}
}

// New returns a wgpu provider.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns backend.NameWGPU.
func (p *Provider) Name() string { return backend.NameWGPU }

// CreateContext opens (or borrows) a device and returns an offscreen
// context on it. target is only used as a label.
func (p *Provider) CreateContext(target string, opts gpucore.ContextOptions) (gpucore.Context, error) {
	dev, err := p.acquireDevice(opts)
	if err != nil {
		gpucore.Logger().Warn("wgpu: context creation failed", "target", target, "err", err)
		return nil, fmt.Errorf("%w: %w", gpucore.ErrContextCreationFailed, err)
	}
	gpucore.Logger().Info("wgpu: context created", "target", target, "gpu", dev.info.String())
	return newContext(target, opts, dev), nil
}

func (p *Provider) acquireDevice(opts gpucore.ContextOptions) (*device, error) {
	switch {
	case p.device != nil:
		if p.queue == nil {
			return nil, ErrInvalidDeviceProvider
		}
		return &device{device: p.device, queue: p.queue, info: GPUInfo{Name: "shared"}}, nil

	case p.host != nil:
		d, okDev := p.host.Device().(hal.Device)
		q, okQueue := p.host.Queue().(hal.Queue)
		if !okDev || !okQueue || d == nil || q == nil {
			return nil, ErrInvalidDeviceProvider
		}
		info := sharedInfo(p.host.AdapterInfo())
		if opts.FailOnPerformanceCaveat && info.software() {
			return nil, fmt.Errorf("%w: %s", ErrPerformanceCaveat, info.Name)
		}
		return &device{device: d, queue: q, info: info}, nil
	}

	b, err := p.halBackend()
	if err != nil {
		return nil, err
	}
	return openDevice(b, opts.PowerPreference, opts.FailOnPerformanceCaveat)
}

func (p *Provider) halBackend() (hal.Backend, error) {
	if !p.pinned {
		return hal.SelectBestBackend()
	}
	if b, ok := hal.GetBackend(p.variant); ok {
		return b, nil
	}
	return hal.CreateBackend(p.variant)
}
