// Package gputest provides an in-memory gpucore provider that records every
// call, tracks live handles and can be told to fail.
package gputest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/imageview/gpucore"
)

// Provider creates recording contexts. Set the *Err fields to make the
// corresponding creation step fail.
type Provider struct {
	ContextErr     error
	MakeCurrentErr error
	TextureErr     error
	ProgramErr     error
	BufferErr      error

	// OnCreate, when set, is called with every new context before it is
	// returned.
	OnCreate func(*Context)

	mu       sync.Mutex
	contexts []*Context
	leaked   int
}

// Name returns "gputest".
func (p *Provider) Name() string { return "gputest" }

// CreateContext returns a new recording context, or ContextErr.
func (p *Provider) CreateContext(target string, opts gpucore.ContextOptions) (gpucore.Context, error) {
	if p.ContextErr != nil {
		return nil, p.ContextErr
	}
	c := &Context{
		Target:   target,
		Options:  opts,
		provider: p,
		textures: make(map[gpucore.TextureID]*Texture),
		programs: make(map[gpucore.ProgramID]gpucore.ProgramSource),
		buffers:  make(map[gpucore.BufferID][]byte),
		enabled:  make(map[string]bool),
		inject:   make(map[string][]gpucore.ErrorCode),
	}
	if p.OnCreate != nil {
		p.OnCreate(c)
	}
	p.mu.Lock()
	p.contexts = append(p.contexts, c)
	p.mu.Unlock()
	return c, nil
}

// Contexts returns every context created so far, released or not.
func (p *Provider) Contexts() []*Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.contexts)
}

// Last returns the most recently created context, or nil.
func (p *Provider) Last() *Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.contexts) == 0 {
		return nil
	}
	return p.contexts[len(p.contexts)-1]
}

// LiveContexts counts contexts that have not been released.
func (p *Provider) LiveContexts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.contexts {
		if !c.released {
			n++
		}
	}
	return n
}

// LiveHandles counts textures, programs and buffers alive in unreleased
// contexts.
func (p *Provider) LiveHandles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.contexts {
		if !c.released {
			n += c.LiveHandles()
		}
	}
	return n
}

// Leaked counts handles that were still alive when their context was
// released.
func (p *Provider) Leaked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leaked
}

// Texture is the recorded state of one texture.
type Texture struct {
	Params          gpucore.TextureParams
	Unit            int
	Width, Height   int
	UnpackAlignment int
	Pix             []byte
}

// Context records calls and keeps resource contents in memory.
type Context struct {
	Target  string
	Options gpucore.ContextOptions

	// Calls lists method names in call order.
	Calls []string

	// Viewport as last set.
	ViewportRect [4]int

	// ClearColor as last cleared, Draws counts successful draws.
	ClearColor gpucore.Color
	Draws      int

	provider *Provider
	released bool
	nextID   uint64

	textures map[gpucore.TextureID]*Texture
	programs map[gpucore.ProgramID]gpucore.ProgramSource
	buffers  map[gpucore.BufferID][]byte

	current      gpucore.ProgramID
	boundBuffer  gpucore.BufferID
	enabled      map[string]bool
	samplerUnits map[string]int

	errors gpucore.ErrorQueue
	inject map[string][]gpucore.ErrorCode
}

// InjectError makes the next call to method record code instead of taking
// effect. Method is the Context method name, e.g. "TexImage2D".
func (c *Context) InjectError(method string, code gpucore.ErrorCode) {
	c.inject[method] = append(c.inject[method], code)
}

// Released reports whether Release was called.
func (c *Context) Released() bool { return c.released }

// LiveHandles counts live textures, programs and buffers.
func (c *Context) LiveHandles() int {
	return len(c.textures) + len(c.programs) + len(c.buffers)
}

// TextureState returns a copy of the texture with id.
func (c *Context) TextureState(id gpucore.TextureID) (Texture, bool) {
	t, ok := c.textures[id]
	if !ok {
		return Texture{}, false
	}
	cp := *t
	cp.Pix = slices.Clone(t.Pix)
	return cp, true
}

// BufferContents returns a copy of the buffer with id.
func (c *Context) BufferContents(id gpucore.BufferID) ([]byte, bool) {
	b, ok := c.buffers[id]
	return slices.Clone(b), ok
}

// Program returns the source the program with id was created from.
func (c *Context) Program(id gpucore.ProgramID) (gpucore.ProgramSource, bool) {
	p, ok := c.programs[id]
	return p, ok
}

// EnabledAttributes lists enabled attribute names, sorted.
func (c *Context) EnabledAttributes() []string {
	var names []string
	for n, on := range c.enabled {
		if on {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// CallCount counts calls to method.
func (c *Context) CallCount(method string) int {
	n := 0
	for _, m := range c.Calls {
		if m == method {
			n++
		}
	}
	return n
}

// enter records the call and reports whether it should take effect.
func (c *Context) enter(method string) bool {
	c.Calls = append(c.Calls, method)
	if c.released {
		c.errors.Record(gpucore.ContextLost)
		return false
	}
	if q := c.inject[method]; len(q) > 0 {
		c.errors.Record(q[0])
		c.inject[method] = q[1:]
		return false
	}
	return true
}

func (c *Context) id() uint64 {
	c.nextID++
	return c.nextID
}

func (c *Context) MakeCurrent() error {
	c.Calls = append(c.Calls, "MakeCurrent")
	if c.released {
		return gpucore.ErrContextReleased
	}
	return c.provider.MakeCurrentErr
}

func (c *Context) Viewport(x, y, width, height int) {
	if !c.enter("Viewport") {
		return
	}
	if width < 0 || height < 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	c.ViewportRect = [4]int{x, y, width, height}
}

func (c *Context) CreateTexture(params gpucore.TextureParams) (gpucore.TextureID, error) {
	c.Calls = append(c.Calls, "CreateTexture")
	if c.provider.TextureErr != nil {
		return gpucore.InvalidID, c.provider.TextureErr
	}
	id := gpucore.TextureID(c.id())
	c.textures[id] = &Texture{Params: params}
	return id, nil
}

func (c *Context) CreateProgram(src gpucore.ProgramSource) (gpucore.ProgramID, error) {
	c.Calls = append(c.Calls, "CreateProgram")
	if c.provider.ProgramErr != nil {
		return gpucore.InvalidID, c.provider.ProgramErr
	}
	if src.GLSLVertex == "" || src.GLSLFragment == "" || src.WGSL == "" {
		return gpucore.InvalidID, &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageVertex, Log: "empty source"}
	}
	id := gpucore.ProgramID(c.id())
	c.programs[id] = src
	return id, nil
}

func (c *Context) CreateBuffer(size int) (gpucore.BufferID, error) {
	c.Calls = append(c.Calls, "CreateBuffer")
	if c.provider.BufferErr != nil {
		return gpucore.InvalidID, c.provider.BufferErr
	}
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("gputest: buffer size %d", size)
	}
	id := gpucore.BufferID(c.id())
	c.buffers[id] = make([]byte, size)
	return id, nil
}

func (c *Context) DeleteTexture(id gpucore.TextureID) {
	if !c.enter("DeleteTexture") {
		return
	}
	delete(c.textures, id)
}

func (c *Context) DeleteProgram(id gpucore.ProgramID) {
	if !c.enter("DeleteProgram") {
		return
	}
	if c.current == id {
		c.current = gpucore.InvalidID
	}
	delete(c.programs, id)
}

func (c *Context) DeleteBuffer(id gpucore.BufferID) {
	if !c.enter("DeleteBuffer") {
		return
	}
	delete(c.buffers, id)
}

func (c *Context) BufferData(id gpucore.BufferID, data []byte) {
	if !c.enter("BufferData") {
		return
	}
	b, ok := c.buffers[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if len(data) > len(b) {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	copy(b, data)
}

func (c *Context) TexImage2D(unit int, id gpucore.TextureID, width, height int, pix []byte, unpackAlignment int) {
	if !c.enter("TexImage2D") {
		return
	}
	t, ok := c.textures[id]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if width <= 0 || height <= 0 || unit < 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	row := width * 4
	if unpackAlignment > 1 {
		row = (row + unpackAlignment - 1) / unpackAlignment * unpackAlignment
	}
	if len(pix) < row*(height-1)+width*4 {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	t.Unit = unit
	t.Width, t.Height = width, height
	t.UnpackAlignment = unpackAlignment
	t.Pix = slices.Clone(pix)
}

func (c *Context) Clear(col gpucore.Color) {
	if !c.enter("Clear") {
		return
	}
	c.ClearColor = col
}

func (c *Context) UseProgram(id gpucore.ProgramID) {
	if !c.enter("UseProgram") {
		return
	}
	if _, ok := c.programs[id]; !ok {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	c.current = id
}

func (c *Context) Uniform1i(program gpucore.ProgramID, name string, v int) {
	if !c.enter("Uniform1i") {
		return
	}
	src, ok := c.programs[program]
	if !ok || program != c.current || src.Sampler != name {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if c.samplerUnits == nil {
		c.samplerUnits = make(map[string]int)
	}
	c.samplerUnits[name] = v
}

func (c *Context) BindAttributes(program gpucore.ProgramID, buffer gpucore.BufferID, stride int, attrs []gpucore.VertexAttribute) {
	if !c.enter("BindAttributes") {
		return
	}
	src, ok := c.programs[program]
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if _, ok := c.buffers[buffer]; !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	for _, a := range attrs {
		if _, ok := src.Attribute(a.Name); !ok || a.Offset+a.Components*4 > stride {
			c.errors.Record(gpucore.InvalidValue)
			return
		}
	}
	for _, a := range attrs {
		c.enabled[a.Name] = true
	}
	c.boundBuffer = buffer
}

func (c *Context) DisableAttributes(_ gpucore.ProgramID, attrs []gpucore.VertexAttribute) {
	if !c.enter("DisableAttributes") {
		return
	}
	for _, a := range attrs {
		c.enabled[a.Name] = false
	}
}

func (c *Context) DrawArrays(mode gpucore.Primitive, first, count int) {
	if !c.enter("DrawArrays") {
		return
	}
	if mode != gpucore.TriangleStrip && mode != gpucore.Triangles {
		c.errors.Record(gpucore.InvalidEnum)
		return
	}
	if c.current == gpucore.InvalidID || len(c.EnabledAttributes()) == 0 || first < 0 || count < 0 {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	c.Draws++
}

func (c *Context) Error() gpucore.ErrorCode {
	return c.errors.Pop()
}

// SamplerUnit returns the unit last assigned to the sampler uniform name.
func (c *Context) SamplerUnit(name string) (int, bool) {
	u, ok := c.samplerUnits[name]
	return u, ok
}

func (c *Context) Release() {
	c.Calls = append(c.Calls, "Release")
	if c.released {
		return
	}
	c.provider.mu.Lock()
	c.provider.leaked += c.LiveHandles()
	c.provider.mu.Unlock()
	c.released = true
	clear(c.textures)
	clear(c.programs)
	clear(c.buffers)
}
