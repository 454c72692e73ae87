//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"image"
	"syscall/js"

	"github.com/gogpu/imageview/gpucore"
)

// ErrAllocationFailed is returned when WebGL returns null for a new object,
// which happens once the context is lost.
var ErrAllocationFailed = errors.New("webgl: object allocation failed")

type program struct {
	handle   js.Value
	src      gpucore.ProgramSource
	attribs  map[string]int
	uniforms map[string]js.Value
}

// Context is a WebGL rendering context on one canvas.
type Context struct {
	target string
	canvas js.Value
	gl     js.Value
	consts glConsts
	opts   gpucore.ContextOptions
	nextID uint64
	dead   bool
	errors gpucore.ErrorQueue

	textures map[gpucore.TextureID]js.Value
	programs map[gpucore.ProgramID]*program
	buffers  map[gpucore.BufferID]js.Value
}

var (
	_ gpucore.Context     = (*Context)(nil)
	_ gpucore.PixelReader = (*Context)(nil)
)

func newContext(target string, canvas, gl js.Value, opts gpucore.ContextOptions) *Context {
	return &Context{
		target:   target,
		canvas:   canvas,
		gl:       gl,
		consts:   loadConsts(gl),
		opts:     opts,
		textures: make(map[gpucore.TextureID]js.Value),
		programs: make(map[gpucore.ProgramID]*program),
		buffers:  make(map[gpucore.BufferID]js.Value),
	}
}

func (c *Context) id() uint64 {
	c.nextID++
	return c.nextID
}

func (c *Context) live() bool {
	if c.dead {
		c.errors.Record(gpucore.ContextLost)
		return false
	}
	return true
}

// MakeCurrent fails once the context is released or lost. WebGL has no
// notion of a current context otherwise.
func (c *Context) MakeCurrent() error {
	if c.dead {
		return gpucore.ErrContextReleased
	}
	if c.gl.Call("isContextLost").Bool() {
		return fmt.Errorf("%w: context lost", gpucore.ErrContextReleased)
	}
	return nil
}

// Viewport calls gl.viewport.
func (c *Context) Viewport(x, y, width, height int) {
	if !c.live() {
		return
	}
	c.gl.Call("viewport", x, y, width, height)
}

// CreateTexture creates a texture object with the wrap and filter
// parameters set.
func (c *Context) CreateTexture(params gpucore.TextureParams) (gpucore.TextureID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	tex := c.gl.Call("createTexture")
	if !tex.Truthy() {
		return gpucore.InvalidID, ErrAllocationFailed
	}
	k := &c.consts
	c.gl.Call("bindTexture", k.texture2D, tex)
	c.gl.Call("texParameteri", k.texture2D, k.textureWrapS, k.wrap(params.Wrap))
	c.gl.Call("texParameteri", k.texture2D, k.textureWrapT, k.wrap(params.Wrap))
	c.gl.Call("texParameteri", k.texture2D, k.textureMinFilter, k.filter(params.Filter))
	c.gl.Call("texParameteri", k.texture2D, k.textureMagFilter, k.filter(params.Filter))

	id := gpucore.TextureID(c.id())
	c.textures[id] = tex
	return id, nil
}

func (c *Context) compileShader(label string, stage gpucore.ShaderStage, kind int, source string) (js.Value, error) {
	shader := c.gl.Call("createShader", kind)
	if !shader.Truthy() {
		return js.Null(), ErrAllocationFailed
	}
	c.gl.Call("shaderSource", shader, source)
	c.gl.Call("compileShader", shader)
	if !c.gl.Call("getShaderParameter", shader, c.consts.compileStatus).Bool() {
		log := c.gl.Call("getShaderInfoLog", shader).String()
		c.gl.Call("deleteShader", shader)
		return js.Null(), &gpucore.ShaderError{Program: label, Stage: stage, Log: log}
	}
	return shader, nil
}

// CreateProgram compiles and links the GLSL sources. Compile and link
// failures carry the WebGL info log.
func (c *Context) CreateProgram(src gpucore.ProgramSource) (gpucore.ProgramID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	vs, err := c.compileShader(src.Label, gpucore.StageVertex, c.consts.vertexShader, src.GLSLVertex)
	if err != nil {
		return gpucore.InvalidID, err
	}
	defer c.gl.Call("deleteShader", vs)
	fs, err := c.compileShader(src.Label, gpucore.StageFragment, c.consts.fragmentShader, src.GLSLFragment)
	if err != nil {
		return gpucore.InvalidID, err
	}
	defer c.gl.Call("deleteShader", fs)

	handle := c.gl.Call("createProgram")
	if !handle.Truthy() {
		return gpucore.InvalidID, ErrAllocationFailed
	}
	c.gl.Call("attachShader", handle, vs)
	c.gl.Call("attachShader", handle, fs)
	c.gl.Call("linkProgram", handle)
	if !c.gl.Call("getProgramParameter", handle, c.consts.linkStatus).Bool() {
		log := c.gl.Call("getProgramInfoLog", handle).String()
		c.gl.Call("deleteProgram", handle)
		gpucore.Logger().Warn("webgl: program link failed", "label", src.Label, "log", log)
		return gpucore.InvalidID, &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageLink, Log: log}
	}

	p := &program{
		handle:   handle,
		src:      src,
		attribs:  make(map[string]int, len(src.Attributes)),
		uniforms: make(map[string]js.Value),
	}
	for _, a := range src.Attributes {
		p.attribs[a.Name] = c.gl.Call("getAttribLocation", handle, a.Name).Int()
	}
	id := gpucore.ProgramID(c.id())
	c.programs[id] = p
	return id, nil
}

// CreateBuffer allocates a DYNAMIC_DRAW array buffer of size bytes.
func (c *Context) CreateBuffer(size int) (gpucore.BufferID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	buf := c.gl.Call("createBuffer")
	if !buf.Truthy() {
		return gpucore.InvalidID, ErrAllocationFailed
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, buf)
	c.gl.Call("bufferData", c.consts.arrayBuffer, size, c.consts.dynamicDraw)
	id := gpucore.BufferID(c.id())
	c.buffers[id] = buf
	return id, nil
}

// DeleteTexture deletes the texture object.
func (c *Context) DeleteTexture(id gpucore.TextureID) {
	if !c.live() {
		return
	}
	if tex, ok := c.textures[id]; ok {
		c.gl.Call("deleteTexture", tex)
		delete(c.textures, id)
	}
}

// DeleteProgram deletes the program object.
func (c *Context) DeleteProgram(id gpucore.ProgramID) {
	if !c.live() {
		return
	}
	if p, ok := c.programs[id]; ok {
		c.gl.Call("deleteProgram", p.handle)
		delete(c.programs, id)
	}
}

// DeleteBuffer deletes the buffer object.
func (c *Context) DeleteBuffer(id gpucore.BufferID) {
	if !c.live() {
		return
	}
	if buf, ok := c.buffers[id]; ok {
		c.gl.Call("deleteBuffer", buf)
		delete(c.buffers, id)
	}
}

// BufferData replaces the start of the buffer with bufferSubData.
func (c *Context) BufferData(id gpucore.BufferID, data []byte) {
	if !c.live() {
		return
	}
	buf, ok := c.buffers[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, buf)
	c.gl.Call("bufferSubData", c.consts.arrayBuffer, 0, uint8Array(data))
}

// TexImage2D uploads pix to the texture on the given unit with the given
// UNPACK_ALIGNMENT.
func (c *Context) TexImage2D(unit int, id gpucore.TextureID, width, height int, pix []byte, unpackAlignment int) {
	if !c.live() {
		return
	}
	tex, ok := c.textures[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	k := &c.consts
	c.gl.Call("activeTexture", k.texture0+unit)
	c.gl.Call("bindTexture", k.texture2D, tex)
	c.gl.Call("pixelStorei", k.unpackAlignment, unpackAlignment)
	c.gl.Call("texImage2D", k.texture2D, 0, k.rgba, width, height, 0, k.rgba, k.unsignedByte, uint8Array(pix))
}

// Clear clears color and, when the context has them, depth and stencil.
func (c *Context) Clear(col gpucore.Color) {
	if !c.live() {
		return
	}
	mask := c.consts.colorBufferBit
	if c.opts.Depth {
		mask |= c.consts.depthBufferBit
	}
	if c.opts.Stencil {
		mask |= c.consts.stencilBufferBit
	}
	c.gl.Call("clearColor", col.R, col.G, col.B, col.A)
	c.gl.Call("clear", mask)
}

// UseProgram calls gl.useProgram. An unknown id records InvalidValue.
func (c *Context) UseProgram(id gpucore.ProgramID) {
	if !c.live() {
		return
	}
	p, ok := c.programs[id]
	if !ok {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	c.gl.Call("useProgram", p.handle)
}

// Uniform1i sets an integer uniform. Locations are cached per program.
func (c *Context) Uniform1i(id gpucore.ProgramID, name string, v int) {
	if !c.live() {
		return
	}
	p, ok := c.programs[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	loc, ok := p.uniforms[name]
	if !ok {
		loc = c.gl.Call("getUniformLocation", p.handle, name)
		p.uniforms[name] = loc
	}
	c.gl.Call("uniform1i", loc, v)
}

// BindAttributes enables and points every active attribute at buffer.
// Attributes the linker dropped are skipped.
func (c *Context) BindAttributes(id gpucore.ProgramID, buffer gpucore.BufferID, stride int, attrs []gpucore.VertexAttribute) {
	if !c.live() {
		return
	}
	p, okProgram := c.programs[id]
	buf, okBuffer := c.buffers[buffer]
	if !okProgram || !okBuffer {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, buf)
	for _, a := range attrs {
		loc, ok := p.attribs[a.Name]
		if !ok || loc < 0 {
			// Inactive attributes have no location.
			continue
		}
		c.gl.Call("enableVertexAttribArray", loc)
		c.gl.Call("vertexAttribPointer", loc, a.Components, c.consts.floatType, false, stride, a.Offset)
	}
}

// DisableAttributes disables the active attributes of attrs.
func (c *Context) DisableAttributes(id gpucore.ProgramID, attrs []gpucore.VertexAttribute) {
	if !c.live() {
		return
	}
	p, ok := c.programs[id]
	if !ok {
		return
	}
	for _, a := range attrs {
		if loc, ok := p.attribs[a.Name]; ok && loc >= 0 {
			c.gl.Call("disableVertexAttribArray", loc)
		}
	}
}

// DrawArrays draws with the current program and attribute state.
func (c *Context) DrawArrays(mode gpucore.Primitive, first, count int) {
	if !c.live() {
		return
	}
	glMode, ok := c.consts.primitive(mode)
	if !ok {
		c.errors.Record(gpucore.InvalidEnum)
		return
	}
	c.gl.Call("drawArrays", glMode, first, count)
}

// Error returns host-side errors first, then the WebGL error flag.
func (c *Context) Error() gpucore.ErrorCode {
	if c.errors.Len() > 0 {
		return c.errors.Pop()
	}
	if c.dead {
		return gpucore.NoError
	}
	return gpucore.ErrorCode(c.gl.Call("getError").Int()) //nolint:gosec // GL enums fit uint32
}

// ReadPixels reads the drawing buffer, flipping it to top row first. With
// PreserveDrawingBuffer off the buffer is only defined until the browser
// composites the canvas.
func (c *Context) ReadPixels() (*image.NRGBA, error) {
	if c.dead {
		return nil, gpucore.ErrContextReleased
	}
	w := c.gl.Get("drawingBufferWidth").Int()
	h := c.gl.Get("drawingBufferHeight").Int()
	arr := js.Global().Get("Uint8Array").New(w * h * 4)
	c.gl.Call("readPixels", 0, 0, w, h, c.consts.rgba, c.consts.unsignedByte, arr)

	raw := make([]byte, w*h*4)
	js.CopyBytesToGo(raw, arr)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	row := w * 4
	for y := 0; y < h; y++ {
		src := raw[(h-1-y)*row : (h-y)*row]
		copy(img.Pix[y*img.Stride:y*img.Stride+row], src)
	}
	return img, nil
}

// Release deletes every object created through the context. The canvas
// keeps its WebGL context so a later CreateContext on it succeeds.
func (c *Context) Release() {
	if c.dead {
		return
	}
	for id, tex := range c.textures {
		c.gl.Call("deleteTexture", tex)
		delete(c.textures, id)
	}
	for id, p := range c.programs {
		c.gl.Call("deleteProgram", p.handle)
		delete(c.programs, id)
	}
	for id, buf := range c.buffers {
		c.gl.Call("deleteBuffer", buf)
		delete(c.buffers, id)
	}
	c.dead = true
	c.errors.Reset()
	gpucore.Logger().Debug("webgl: context released", "target", c.target)
}
