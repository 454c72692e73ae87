package software

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

type texture struct {
	params gpucore.TextureParams
	img    *image.NRGBA
}

type attribBinding struct {
	buffer gpucore.BufferID
	stride int
	attrs  []gpucore.VertexAttribute
}

// Context is a CPU rendering context. It implements gpucore.Context and
// gpucore.PixelReader.
type Context struct {
	target  string
	opts    gpucore.ContextOptions
	maxTex  int
	nextID  uint64
	dead    bool
	errors  gpucore.ErrorQueue
	vp      image.Rectangle
	surface *image.NRGBA

	textures map[gpucore.TextureID]*texture
	programs map[gpucore.ProgramID]*program
	buffers  map[gpucore.BufferID][]byte

	current  gpucore.ProgramID
	units    map[int]gpucore.TextureID
	samplers map[gpucore.ProgramID]int
	binding  *attribBinding
}

var (
	_ gpucore.Context     = (*Context)(nil)
	_ gpucore.PixelReader = (*Context)(nil)
)

func newContext(target string, opts gpucore.ContextOptions, maxTex int) *Context {
	return &Context{
		target:   target,
		opts:     opts,
		maxTex:   maxTex,
		surface:  image.NewNRGBA(image.Rectangle{}),
		textures: make(map[gpucore.TextureID]*texture),
		programs: make(map[gpucore.ProgramID]*program),
		buffers:  make(map[gpucore.BufferID][]byte),
		units:    make(map[int]gpucore.TextureID),
		samplers: make(map[gpucore.ProgramID]int),
	}
}

// live reports whether the context can accept calls, recording
// ContextLost when it cannot.
func (c *Context) live() bool {
	if c.dead {
		c.errors.Record(gpucore.ContextLost)
		return false
	}
	return true
}

func (c *Context) id() uint64 {
	c.nextID++
	return c.nextID
}

// MakeCurrent fails only after Release.
func (c *Context) MakeCurrent() error {
	if c.dead {
		return gpucore.ErrContextReleased
	}
	return nil
}

// Viewport sets the drawing rectangle. The surface grows to contain it.
func (c *Context) Viewport(x, y, width, height int) {
	if !c.live() {
		return
	}
	if width < 0 || height < 0 || x < 0 || y < 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	c.vp = image.Rect(x, y, x+width, y+height)
	size := image.Rect(0, 0, x+width, y+height)
	if c.surface.Bounds() != size {
		c.surface = image.NewNRGBA(size)
	}
}

// CreateTexture records params. Pixels arrive with TexImage2D.
func (c *Context) CreateTexture(params gpucore.TextureParams) (gpucore.TextureID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	id := gpucore.TextureID(c.id())
	c.textures[id] = &texture{params: params}
	return id, nil
}

// CreateProgram checks the GLSL sources for the declared entry point and
// attributes. Nothing is executed; rasterization is fixed.
func (c *Context) CreateProgram(src gpucore.ProgramSource) (gpucore.ProgramID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	p, err := compileProgram(src)
	if err != nil {
		gpucore.Logger().Warn("software: program rejected", "label", src.Label, "err", err)
		return gpucore.InvalidID, err
	}
	id := gpucore.ProgramID(c.id())
	c.programs[id] = p
	return id, nil
}

// CreateBuffer allocates a zeroed host buffer of size bytes.
func (c *Context) CreateBuffer(size int) (gpucore.BufferID, error) {
	if c.dead {
		return gpucore.InvalidID, gpucore.ErrContextReleased
	}
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: %d", ErrInvalidBufferSize, size)
	}
	id := gpucore.BufferID(c.id())
	c.buffers[id] = make([]byte, size)
	return id, nil
}

// DeleteTexture forgets the texture and unbinds it from every unit.
func (c *Context) DeleteTexture(id gpucore.TextureID) {
	if !c.live() {
		return
	}
	delete(c.textures, id)
	for unit, t := range c.units {
		if t == id {
			delete(c.units, unit)
		}
	}
}

// DeleteProgram forgets the program and its sampler unit.
func (c *Context) DeleteProgram(id gpucore.ProgramID) {
	if !c.live() {
		return
	}
	delete(c.programs, id)
	delete(c.samplers, id)
	if c.current == id {
		c.current = gpucore.InvalidID
	}
}

// DeleteBuffer forgets the buffer and drops an attribute binding that
// uses it.
func (c *Context) DeleteBuffer(id gpucore.BufferID) {
	if !c.live() {
		return
	}
	delete(c.buffers, id)
	if c.binding != nil && c.binding.buffer == id {
		c.binding = nil
	}
}

// BufferData copies data to the start of the buffer.
func (c *Context) BufferData(id gpucore.BufferID, data []byte) {
	if !c.live() {
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

// TexImage2D copies pix into a new texture image. Rows in pix are padded to
// unpackAlignment bytes.
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
	if unit < 0 || width <= 0 || height <= 0 || width > c.maxTex || height > c.maxTex {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	row := width * 4
	stride := (row + unpackAlignment - 1) / unpackAlignment * unpackAlignment
	if len(pix) < stride*(height-1)+row {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}

	img := t.img
	if img == nil || img.Rect.Dx() != width || img.Rect.Dy() != height {
		img = image.NewNRGBA(image.Rect(0, 0, width, height))
	}
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pix[y*stride:y*stride+row])
	}
	t.img = img
	c.units[unit] = id
}

// Clear fills the viewport rectangle with col. Without an alpha channel
// the result is opaque.
func (c *Context) Clear(col gpucore.Color) {
	if !c.live() {
		return
	}
	a := col.A
	if !c.opts.Alpha {
		a = 1
	}
	fill := color.NRGBA{R: unorm8(col.R), G: unorm8(col.G), B: unorm8(col.B), A: unorm8(a)}
	draw.Draw(c.surface, c.vp, image.NewUniform(fill), image.Point{}, draw.Src)
}

// UseProgram selects the program for the next DrawArrays.
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

// Uniform1i sets the texture unit sampled by program. Unknown names are
// ignored.
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

// BindAttributes records the buffer and layout read by DrawArrays.
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
	if stride <= 0 {
		c.errors.Record(gpucore.InvalidValue)
		return
	}
	for _, a := range attrs {
		if _, ok := p.src.Attribute(a.Name); !ok {
			c.errors.Record(gpucore.InvalidOperation)
			return
		}
	}
	c.binding = &attribBinding{buffer: buffer, stride: stride, attrs: append([]gpucore.VertexAttribute(nil), attrs...)}
}

// DisableAttributes drops the attribute binding.
func (c *Context) DisableAttributes(gpucore.ProgramID, []gpucore.VertexAttribute) {
	if !c.live() {
		return
	}
	c.binding = nil
}

// DrawArrays rasterizes a 4-vertex triangle strip forming an axis-aligned
// rectangle. Other geometry records InvalidOperation.
func (c *Context) DrawArrays(mode gpucore.Primitive, first, count int) {
	if !c.live() {
		return
	}
	if mode != gpucore.TriangleStrip {
		c.errors.Record(gpucore.InvalidEnum)
		return
	}
	p, ok := c.programs[c.current]
	if !ok || c.binding == nil || first != 0 || count != layout.VertexCount {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	pos, okPos := attributeNamed(c.binding.attrs, p.src.Attributes, 0)
	uv, okUV := attributeNamed(c.binding.attrs, p.src.Attributes, 1)
	if !okPos || !okUV {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	verts, ok := layout.DecodeVertices(c.buffers[c.binding.buffer], c.binding.stride, pos.Offset, uv.Offset)
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	tex, ok := c.textures[c.units[c.samplers[c.current]]]
	if !ok || tex.img == nil {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}

	dst, src, ok := c.quadRects(verts, tex.img.Bounds())
	if !ok {
		c.errors.Record(gpucore.InvalidOperation)
		return
	}
	if dst.Empty() || src.Empty() {
		return
	}
	scaler(tex.params.Filter).Scale(c.surface, dst, tex.img, src, draw.Src, nil)
}

// quadRects maps an axis-aligned strip to its destination rectangle on the
// surface and the texel rectangle it samples.
func (c *Context) quadRects(v [layout.VertexCount]layout.Vertex, texBounds image.Rectangle) (dst, src image.Rectangle, ok bool) {
	tl, bl, tr, br := v[layout.TopLeft], v[layout.BottomLeft], v[layout.TopRight], v[layout.BottomRight]
	if tl.X != bl.X || tr.X != br.X || tl.Y != tr.Y || bl.Y != br.Y {
		return dst, src, false
	}
	if tl.U != bl.U || tr.U != br.U || tl.V != tr.V || bl.V != br.V {
		return dst, src, false
	}
	if tl.X > tr.X || tl.Y < bl.Y || tl.U > tr.U || tl.V > bl.V {
		return dst, src, false
	}

	vw, vh := float64(c.vp.Dx()), float64(c.vp.Dy())
	dst = image.Rect(
		c.vp.Min.X+round((float64(tl.X)+1)/2*vw),
		c.vp.Min.Y+round((1-float64(tl.Y))/2*vh),
		c.vp.Min.X+round((float64(tr.X)+1)/2*vw),
		c.vp.Min.Y+round((1-float64(bl.Y))/2*vh),
	).Intersect(c.vp)

	tw, th := float64(texBounds.Dx()), float64(texBounds.Dy())
	src = image.Rect(
		round(clamp01(float64(tl.U))*tw),
		round(clamp01(float64(tl.V))*th),
		round(clamp01(float64(tr.U))*tw),
		round(clamp01(float64(bl.V))*th),
	)
	return dst, src, true
}

// ReadPixels returns a copy of the surface.
func (c *Context) ReadPixels() (*image.NRGBA, error) {
	if c.dead {
		return nil, gpucore.ErrContextReleased
	}
	out := image.NewNRGBA(c.surface.Bounds())
	copy(out.Pix, c.surface.Pix)
	return out, nil
}

// Error returns and clears the oldest recorded error.
func (c *Context) Error() gpucore.ErrorCode {
	return c.errors.Pop()
}

// Release forgets every object. Later calls record ContextLost.
func (c *Context) Release() {
	if c.dead {
		return
	}
	c.dead = true
	clear(c.textures)
	clear(c.programs)
	clear(c.buffers)
	clear(c.units)
	c.binding = nil
	c.errors.Reset()
	gpucore.Logger().Debug("software: context released", "target", c.target)
}

// attributeNamed returns the bound attribute matching the program attribute
// at index i.
func attributeNamed(bound, declared []gpucore.VertexAttribute, i int) (gpucore.VertexAttribute, bool) {
	if i >= len(declared) {
		return gpucore.VertexAttribute{}, false
	}
	for _, a := range bound {
		if a.Name == declared[i].Name {
			return a, true
		}
	}
	return gpucore.VertexAttribute{}, false
}

func scaler(f gpucore.FilterMode) draw.Scaler {
	if f == gpucore.FilterNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

func unorm8(v float32) uint8 {
	return uint8(math.Round(clamp01(float64(v)) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
