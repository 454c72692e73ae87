//go:build !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/gpucore"
)

// GPUInfo contains information about the selected GPU.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend gputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// software reports whether the adapter rasterizes on the CPU.
func (g *GPUInfo) software() bool {
	return g.DeviceType == gputypes.DeviceTypeCPU
}

func gpuInfo(info gputypes.AdapterInfo) GPUInfo {
	return GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

// sharedInfo converts the adapter description of a host device.
func sharedInfo(info gpucontext.AdapterInfo) GPUInfo {
	g := GPUInfo{Name: info.Name}
	switch info.Type {
	case gpucontext.AdapterTypeDiscrete:
		g.DeviceType = gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		g.DeviceType = gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		g.DeviceType = gputypes.DeviceTypeCPU
	default:
		g.DeviceType = gputypes.DeviceTypeOther
	}
	return g
}

// logGPUInfo logs information about the selected GPU.
func logGPUInfo(info *GPUInfo) {
	log := gpucore.Logger()
	log.Info("wgpu: GPU selected", "gpu", info.String())
	if info.Driver != "" {
		log.Debug("wgpu: driver", "driver", info.Driver)
	}
}

// device is an open HAL device. Owned devices are destroyed with the
// context; shared ones are left to their owner.
type device struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	info     GPUInfo
	owned    bool
}

// openDevice creates an instance on b, picks an adapter for pref and opens
// a logical device on it.
func openDevice(b hal.Backend, pref gpucore.PowerPreference, rejectSoftware bool) (*device, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	exposed, ok := selectAdapter(instance.EnumerateAdapters(nil), pref)
	if !ok {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	info := gpuInfo(exposed.Info)
	if rejectSoftware && info.software() {
		exposed.Adapter.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("%w: %s", ErrPerformanceCaveat, info.Name)
	}

	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		exposed.Adapter.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	logGPUInfo(&info)
	return &device{
		instance: instance,
		adapter:  exposed.Adapter,
		device:   open.Device,
		queue:    open.Queue,
		info:     info,
		owned:    true,
	}, nil
}

// selectAdapter returns the adapter best matching pref. Low power favours
// integrated GPUs, high performance and the default favour discrete ones.
// CPU adapters rank last either way.
func selectAdapter(adapters []hal.ExposedAdapter, pref gpucore.PowerPreference) (hal.ExposedAdapter, bool) {
	best, bestRank := -1, 0
	for i := range adapters {
		r := adapterRank(adapters[i].Info.DeviceType, pref)
		if best < 0 || r < bestRank {
			best, bestRank = i, r
		}
	}
	if best < 0 {
		return hal.ExposedAdapter{}, false
	}
	return adapters[best], true
}

func adapterRank(t gputypes.DeviceType, pref gpucore.PowerPreference) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		if pref == gpucore.PowerLowPower {
			return 1
		}
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		if pref == gpucore.PowerLowPower {
			return 0
		}
		return 1
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeCPU:
		return 4
	default:
		return 3
	}
}

func (d *device) destroy() {
	if !d.owned {
		return
	}
	if d.device != nil {
		if err := d.device.WaitIdle(); err != nil {
			gpucore.Logger().Warn("wgpu: wait idle before destroy", "err", err)
		}
		d.device.Destroy()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Destroy()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
