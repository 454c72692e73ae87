//go:build !(js && wasm)

package wgpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/imageview/gpucore"
)

// countingDevice wraps a noop device and tracks live objects so tests can
// assert that contexts free everything they create.
type countingDevice struct {
	hal.Device

	live         map[string]int
	failPipeline bool
	failTexture  bool
}

func newCountingDevice() *countingDevice {
	return &countingDevice{Device: &noop.Device{}, live: make(map[string]int)}
}

func (d *countingDevice) total() int {
	n := 0
	for _, v := range d.live {
		n += v
	}
	return n
}

func (d *countingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	b, err := d.Device.CreateBuffer(desc)
	if err == nil {
		d.live["buffer"]++
	}
	return b, err
}

func (d *countingDevice) DestroyBuffer(b hal.Buffer) {
	d.live["buffer"]--
	d.Device.DestroyBuffer(b)
}

func (d *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failTexture {
		return nil, hal.ErrDeviceOutOfMemory
	}
	t, err := d.Device.CreateTexture(desc)
	if err == nil {
		d.live["texture"]++
	}
	return t, err
}

func (d *countingDevice) DestroyTexture(t hal.Texture) {
	d.live["texture"]--
	d.Device.DestroyTexture(t)
}

func (d *countingDevice) CreateTextureView(t hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	v, err := d.Device.CreateTextureView(t, desc)
	if err == nil {
		d.live["view"]++
	}
	return v, err
}

func (d *countingDevice) DestroyTextureView(v hal.TextureView) {
	d.live["view"]--
	d.Device.DestroyTextureView(v)
}

func (d *countingDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	s, err := d.Device.CreateSampler(desc)
	if err == nil {
		d.live["sampler"]++
	}
	return s, err
}

func (d *countingDevice) DestroySampler(s hal.Sampler) {
	d.live["sampler"]--
	d.Device.DestroySampler(s)
}

func (d *countingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	m, err := d.Device.CreateShaderModule(desc)
	if err == nil {
		d.live["shader"]++
	}
	return m, err
}

func (d *countingDevice) DestroyShaderModule(m hal.ShaderModule) {
	d.live["shader"]--
	d.Device.DestroyShaderModule(m)
}

func (d *countingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	l, err := d.Device.CreateBindGroupLayout(desc)
	if err == nil {
		d.live["bind_layout"]++
	}
	return l, err
}

func (d *countingDevice) DestroyBindGroupLayout(l hal.BindGroupLayout) {
	d.live["bind_layout"]--
	d.Device.DestroyBindGroupLayout(l)
}

func (d *countingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	g, err := d.Device.CreateBindGroup(desc)
	if err == nil {
		d.live["bind_group"]++
	}
	return g, err
}

func (d *countingDevice) DestroyBindGroup(g hal.BindGroup) {
	d.live["bind_group"]--
	d.Device.DestroyBindGroup(g)
}

func (d *countingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	l, err := d.Device.CreatePipelineLayout(desc)
	if err == nil {
		d.live["pipe_layout"]++
	}
	return l, err
}

func (d *countingDevice) DestroyPipelineLayout(l hal.PipelineLayout) {
	d.live["pipe_layout"]--
	d.Device.DestroyPipelineLayout(l)
}

func (d *countingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.failPipeline {
		return nil, fmt.Errorf("entry point %q not found", desc.Vertex.EntryPoint)
	}
	p, err := d.Device.CreateRenderPipeline(desc)
	if err == nil {
		d.live["pipeline"]++
	}
	return p, err
}

func (d *countingDevice) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.live["pipeline"]--
	d.Device.DestroyRenderPipeline(p)
}

func TestGPUInfoString(t *testing.T) {
	info := GPUInfo{Name: "Test GPU", DeviceType: gputypes.DeviceTypeDiscreteGPU, Backend: gputypes.BackendVulkan}
	s := info.String()
	if s == "" {
		t.Fatal("empty String()")
	}
	want := fmt.Sprintf("Test GPU (%s, %s)", gputypes.DeviceTypeDiscreteGPU, gputypes.BackendVulkan)
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestSelectAdapter(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "cpu", DeviceType: gputypes.DeviceTypeCPU}},
		{Info: gputypes.AdapterInfo{Name: "integrated", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "discrete", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}

	tests := []struct {
		pref gpucore.PowerPreference
		want string
	}{
		{gpucore.PowerDefault, "discrete"},
		{gpucore.PowerHighPerformance, "discrete"},
		{gpucore.PowerLowPower, "integrated"},
	}
	for _, tt := range tests {
		t.Run(tt.pref.String(), func(t *testing.T) {
			got, ok := selectAdapter(adapters, tt.pref)
			if !ok {
				t.Fatal("no adapter selected")
			}
			if got.Info.Name != tt.want {
				t.Errorf("selected %q, want %q", got.Info.Name, tt.want)
			}
		})
	}
}

func TestSelectAdapterCPUOnly(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "cpu", DeviceType: gputypes.DeviceTypeCPU}},
	}
	got, ok := selectAdapter(adapters, gpucore.PowerHighPerformance)
	if !ok || got.Info.Name != "cpu" {
		t.Errorf("selectAdapter = %q, %v; want cpu, true", got.Info.Name, ok)
	}
}

func TestSelectAdapterEmpty(t *testing.T) {
	if _, ok := selectAdapter(nil, gpucore.PowerDefault); ok {
		t.Error("selectAdapter(nil) should fail")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want gpucore.ErrorCode
	}{
		{nil, gpucore.NoError},
		{hal.ErrDeviceOutOfMemory, gpucore.OutOfMemory},
		{fmt.Errorf("write: %w", hal.ErrDeviceOutOfMemory), gpucore.OutOfMemory},
		{hal.ErrDeviceLost, gpucore.ContextLost},
		{errors.New("validation"), gpucore.InvalidOperation},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
