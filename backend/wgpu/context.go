//go:build !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/gpucore"
)

type texture struct {
	params  gpucore.TextureParams
	sampler hal.Sampler
	tex     hal.Texture
	view    hal.TextureView

	width, height int
}

type buffer struct {
	buf  hal.Buffer
	size int
}

type attribBinding struct {
	buffer gpucore.BufferID
	stride int
}

// Context is an offscreen rendering context on a HAL device. It implements
// gpucore.Context and gpucore.PixelReader.
//
// Draw state (bound program, texture units, attributes) is tracked on the
// host and turned into a render pass by DrawArrays. A pending Clear is
// folded into the next pass as its load operation.
type Context struct {
	label  string
	opts   gpucore.ContextOptions
	dev    *device
	nextID uint64
	dead   bool
	errors gpucore.ErrorQueue

	target   renderTarget
	viewport [4]int

	textures map[gpucore.TextureID]*texture
	programs map[gpucore.ProgramID]*program
	buffers  map[gpucore.BufferID]*buffer

	current    gpucore.ProgramID
	units      map[int]gpucore.TextureID
	samplers   map[gpucore.ProgramID]int
	binding    *attribBinding
	clearColor *gputypes.Color
}

var (
	_ gpucore.Context     = (*Context)(nil)
	_ gpucore.PixelReader = (*Context)(nil)
)

func newContext(label string, opts gpucore.ContextOptions, dev *device) *Context {
	return &Context{
		label:    label,
		opts:     opts,
		dev:      dev,
		textures: make(map[gpucore.TextureID]*texture),
		programs: make(map[gpucore.ProgramID]*program),
		buffers:  make(map[gpucore.BufferID]*buffer),
		units:    make(map[int]gpucore.TextureID),
		samplers: make(map[gpucore.ProgramID]int),
	}
}

// Info describes the GPU the context renders on.
func (c *Context) Info() GPUInfo { return c.dev.info }

// live reports whether the context can accept calls, recording
// ContextLost when it cannot.
func (c *Context) live() bool {
	if c.dead {
		c.errors.Record(gpucore.ContextLost)
		return false
	}
	return true
}

// fail records the code for a HAL error. A lost device kills the context.
func (c *Context) fail(op string, err error) {
	code := errorCode(err)
	gpucore.Logger().Warn("wgpu: operation failed", "op", op, "code", code, "err", err)
	c.errors.Record(code)
	if code == gpucore.ContextLost {
		c.teardown()
	}
}

func (c *Context) id() uint64 {
	c.nextID++
	return c.nextID
}

// MakeCurrent reports whether the context is still usable. HAL devices
// are not bound to threads, so there is nothing else to do.
func (c *Context) MakeCurrent() error {
	if c.dead {
		return gpucore.ErrContextReleased
	}
	return nil
}

// Viewport sets the drawing rectangle and sizes the render target to hold
// it.
func (c *Context) Viewport(x, y, width, height int) {
	if !c.live() {
		return
	}
	if width < 0 || height < 0 || x < 0 || y < 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	w, h := x+width, y+height
	if w == 0 || h == 0 {
		c.destroyTarget()
	} else if err := c.ensureTarget(uint32(w), uint32(h)); err != nil { //nolint:gosec // non-negative
		c.fail("viewport", err)
		return
	}
	c.viewport = [4]int{x, y, width, height}
}

func addressMode(w gpucore.WrapMode) gputypes.AddressMode {
	if w == gpucore.WrapRepeat {
		return gputypes.AddressModeRepeat
	}
	return gputypes.AddressModeClampToEdge
}

func filterMode(f gpucore.FilterMode) gputypes.FilterMode {
	if f == gpucore.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// CreateTexture creates the sampler for params. Storage is allocated by
// TexImage2D.
func (c *Context) CreateTexture(params gpucore.TextureParams) (gpucore.TextureID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	sampler, err := c.dev.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        params.Label + "_sampler",
		AddressModeU: addressMode(params.Wrap),
		AddressModeV: addressMode(params.Wrap),
		AddressModeW: addressMode(params.Wrap),
		MagFilter:    filterMode(params.Filter),
		MinFilter:    filterMode(params.Filter),
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	id := gpucore.TextureID(c.id())
	c.textures[id] = &texture{params: params, sampler: sampler}
	return id, nil
}

// CreateProgram compiles src.WGSL with naga and builds a render pipeline
// with the vertex layout of src baked in.
func (c *Context) CreateProgram(src gpucore.ProgramSource) (gpucore.ProgramID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	p, err := c.buildProgram(src)
	if err != nil {
		gpucore.Logger().Warn("wgpu: program rejected", "label", src.Label, "err", err)
		return gpucore.InvalidID, err
	}
	id := gpucore.ProgramID(c.id())
	c.programs[id] = p
	return id, nil
}

// CreateBuffer allocates a vertex buffer of size bytes.
func (c *Context) CreateBuffer(size int) (gpucore.BufferID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: %d", ErrInvalidBufferSize, size)
	}
	buf, err := c.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: c.label + "_vertices",
		Size:  uint64(size),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	id := gpucore.BufferID(c.id())
	c.buffers[id] = &buffer{buf: buf, size: size}
	return id, nil
}

// DeleteTexture destroys the texture, its view and its sampler, and unbinds
// it from every unit.
func (c *Context) DeleteTexture(id gpucore.TextureID) {
	if !c.live() {
		return
	}
	t, ok := c.textures[id]
	if !ok {
		return
	}
	c.destroyTexture(t)
	delete(c.textures, id)
	for unit, bound := range c.units {
		if bound == id {
			delete(c.units, unit)
		}
	}
}

// DeleteProgram destroys the pipeline and its layouts.
func (c *Context) DeleteProgram(id gpucore.ProgramID) {
	if !c.live() {
		return
	}
	p, ok := c.programs[id]
	if !ok {
		return
	}
	c.destroyProgram(p)
	delete(c.programs, id)
	delete(c.samplers, id)
	if c.current == id {
		c.current = gpucore.InvalidID
	}
}

// DeleteBuffer destroys the buffer and drops an attribute binding that
// uses it.
func (c *Context) DeleteBuffer(id gpucore.BufferID) {
	if !c.live() {
		return
	}
	b, ok := c.buffers[id]
	if !ok {
		return
	}
	c.dev.device.DestroyBuffer(b.buf)
	delete(c.buffers, id)
	if c.binding != nil && c.binding.buffer == id {
		c.binding = nil
	}
}

// BufferData writes data at offset 0. The length must fit the buffer and be
// a multiple of 4, a queue write restriction GL does not have.
func (c *Context) BufferData(id gpucore.BufferID, data []byte) {
	if !c.live() {
		return
	}
	b, ok := c.buffers[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if len(data) > b.size || len(data)%4 != 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	if err := c.dev.queue.WriteBuffer(b.buf, 0, data); err != nil {
		c.fail("buffer data", err)
	}
}

// TexImage2D (re)allocates the texture storage when its size changes and
// uploads pix. Rows in pix are padded to unpackAlignment bytes.
func (c *Context) TexImage2D(unit int, id gpucore.TextureID, width, height int, pix []byte, unpackAlignment int) {
	if !c.live() {
		return
	}
	t, ok := c.textures[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	switch unpackAlignment {
	case 1, 2, 4, 8:
	default:
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	maxDim := int(gputypes.DefaultLimits().MaxTextureDimension2D)
	if unit < 0 || width <= 0 || height <= 0 || width > maxDim || height > maxDim {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	row := width * 4
	stride := (row + unpackAlignment - 1) / unpackAlignment * unpackAlignment
	if len(pix) < stride*(height-1)+row {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}

	if t.tex == nil || t.width != width || t.height != height {
		if err := c.allocTexture(t, width, height); err != nil {
			c.fail("tex image", err)
			return
		}
	}

	size := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1} //nolint:gosec // validated above
	err := c.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		pix[:stride*(height-1)+row],
		&hal.ImageDataLayout{BytesPerRow: uint32(stride), RowsPerImage: uint32(height)}, //nolint:gosec // validated above
		&size,
	)
	if err != nil {
		c.fail("tex image", err)
		return
	}
	c.units[unit] = id
}

func (c *Context) allocTexture(t *texture, width, height int) error {
	c.releaseStorage(t)
	tex, view, err := c.createAttachment(t.params.Label,
		hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated by caller
		1, gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	t.tex, t.view, t.width, t.height = tex, view, width, height
	return nil
}

func (c *Context) releaseStorage(t *texture) {
	if t.view != nil {
		c.dev.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		c.dev.device.DestroyTexture(t.tex)
		t.tex = nil
	}
	t.width, t.height = 0, 0
}

func (c *Context) destroyTexture(t *texture) {
	c.releaseStorage(t)
	if t.sampler != nil {
		c.dev.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
}

// Clear schedules the render target to be filled with col by the next
// render pass.
func (c *Context) Clear(col gpucore.Color) {
	if !c.live() {
		return
	}
	a := col.A
	if !c.opts.Alpha {
		a = 1
	}
	c.clearColor = &gputypes.Color{R: float64(col.R), G: float64(col.G), B: float64(col.B), A: float64(a)}
}

// UseProgram selects the pipeline for the next DrawArrays.
func (c *Context) UseProgram(id gpucore.ProgramID) {
	if !c.live() {
		return
	}
	if _, ok := c.programs[id]; !ok {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	c.current = id
}

// Uniform1i sets the texture unit sampled by program. Only the sampler
// uniform named in the program source is recognized.
func (c *Context) Uniform1i(program gpucore.ProgramID, name string, v int) {
	if !c.live() {
		return
	}
	p, ok := c.programs[program]
	if !ok || program != c.current {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if name != p.src.Sampler {
		// Unknown uniform locations are ignored, as in GL.
		return
	}
	c.samplers[program] = v
}

// BindAttributes selects the vertex buffer for the next draw. The layout is
// baked into the pipeline, so stride and attrs must match the program
// source; anything else records InvalidValue or InvalidOperation.
func (c *Context) BindAttributes(program gpucore.ProgramID, buffer gpucore.BufferID, stride int, attrs []gpucore.VertexAttribute) {
	if !c.live() {
		return
	}
	p, ok := c.programs[program]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if _, ok := c.buffers[buffer]; !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if stride != p.src.Stride {
		// The vertex layout is baked into the pipeline.
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	for _, a := range attrs {
		declared, ok := p.src.Attribute(a.Name)
		if !ok || declared.Offset != a.Offset || declared.Components != a.Components {
			c.errors.Record(gpucore.InvalidOperation)
			return
		}
	}
	c.binding = &attribBinding{buffer: buffer, stride: stride}
}

// DisableAttributes drops the vertex buffer binding.
func (c *Context) DisableAttributes(gpucore.ProgramID, []gpucore.VertexAttribute) {
	if !c.live() {
		return
	}
	c.binding = nil
}

// DrawArrays encodes one render pass drawing count vertices of the bound
// buffer with the current program, then submits it and waits for the
// device.
func (c *Context) DrawArrays(mode gpucore.Primitive, first, count int) {
	if !c.live() {
		return
	}
	if mode != gpucore.TriangleStrip {
		c.errors.Record(gpucore.InvalidEnum)
		return
	}
	if first < 0 || count < 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	p, ok := c.programs[c.current]
	if !ok || c.binding == nil || c.target.color == nil {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	b := c.buffers[c.binding.buffer]
	if (first+count)*c.binding.stride > b.size {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	tex, ok := c.textures[c.units[c.samplers[c.current]]]
	if !ok || tex.view == nil {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}

	dev := c.dev.device
	group, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.src.Label + "_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: textureBinding, Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()}},
			{Binding: samplerBinding, Resource: gputypes.SamplerBinding{Sampler: tex.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		c.fail("draw", fmt.Errorf("create bind group: %w", err))
		return
	}
	defer dev.DestroyBindGroup(group)

	err = c.submitPass("imageview_draw", func(pass hal.RenderPassEncoder) {
		x, y, w, h := c.viewport[0], c.viewport[1], c.viewport[2], c.viewport[3]
		pass.SetViewport(float32(x), float32(y), float32(w), float32(h), 0, 1)
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(0, group, nil)
		pass.SetVertexBuffer(0, b.buf, 0)
		pass.Draw(uint32(count), 1, uint32(first), 0) //nolint:gosec // validated above
	})
	if err != nil {
		c.fail("draw", err)
	}
}

// submitPass encodes a render pass over the target, consuming any pending
// clear, and waits for it to complete. record may be nil for a clear-only
// pass.
func (c *Context) submitPass(label string, record func(hal.RenderPassEncoder)) error {
	dev := c.dev.device
	encoder, err := dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	load, value := gputypes.LoadOpLoad, gputypes.Color{}
	if c.clearColor != nil {
		load, value = gputypes.LoadOpClear, *c.clearColor
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:                  label,
		ColorAttachments:       []hal.RenderPassColorAttachment{c.colorAttachment(load, value)},
		DepthStencilAttachment: c.depthAttachment(load),
	})
	if record != nil {
		record(pass)
	}
	pass.End()

	cmds, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer dev.FreeCommandBuffer(cmds)

	if _, err := c.dev.queue.Submit([]hal.CommandBuffer{cmds}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := dev.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	c.clearColor = nil
	return nil
}

// Error returns and clears the oldest recorded error.
func (c *Context) Error() gpucore.ErrorCode {
	return c.errors.Pop()
}

// Release destroys every resource still alive and, for owned devices, the
// device itself. Release is idempotent.
func (c *Context) Release() {
	if c.dead {
		return
	}
	c.teardown()
	c.errors.Reset()
	gpucore.Logger().Debug("wgpu: context released", "target", c.label)
}

func (c *Context) teardown() {
	if c.dead {
		return
	}
	c.dead = true
	for id, t := range c.textures {
		c.destroyTexture(t)
		delete(c.textures, id)
	}
	for id, p := range c.programs {
		c.destroyProgram(p)
		delete(c.programs, id)
	}
	for id, b := range c.buffers {
		c.dev.device.DestroyBuffer(b.buf)
		delete(c.buffers, id)
	}
	c.destroyTarget()
	clear(c.units)
	clear(c.samplers)
	c.binding = nil
	c.clearColor = nil
	c.dev.destroy()
}
