package imageview

import (
	"errors"
	"fmt"

	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

// resources is every GPU object a session owns. Either all fields are set
// or the value is zero; release returns it to zero.
type resources struct {
	ctx     gpucore.Context
	texture gpucore.TextureID
	program gpucore.ProgramID
	buffer  gpucore.BufferID
}

// acquireResources creates a context on target and the texture, program and
// vertex buffer of the quad pipeline. On failure everything created so far
// is released and the zero value is returned.
func acquireResources(p gpucore.Provider, target string, vp Viewport, o *options) (res resources, err error) {
	defer func() {
		if err != nil {
			res.release()
			res = resources{}
		}
	}()

	ctx, err := p.CreateContext(target, o.context)
	if err != nil {
		if !errors.Is(err, gpucore.ErrContextCreationFailed) {
			err = fmt.Errorf("%w: %w", gpucore.ErrContextCreationFailed, err)
		}
		return res, fmt.Errorf("imageview: create context on %q: %w", target, err)
	}
	res.ctx = ctx
	if err = res.ctx.MakeCurrent(); err != nil {
		return res, fmt.Errorf("imageview: make context current: %w: %w", gpucore.ErrContextCreationFailed, err)
	}
	res.ctx.Viewport(0, 0, vp.Width, vp.Height)

	if res.texture, err = res.ctx.CreateTexture(o.texture); err != nil {
		return res, fmt.Errorf("imageview: create texture: %w", err)
	}
	if res.program, err = res.ctx.CreateProgram(quadPipeline); err != nil {
		return res, fmt.Errorf("imageview: create program: %w", err)
	}
	if res.buffer, err = res.ctx.CreateBuffer(layout.ByteSize); err != nil {
		return res, fmt.Errorf("imageview: create vertex buffer: %w", err)
	}
	res.ctx.BufferData(res.buffer, layout.FullViewport().Bytes())

	if code := res.ctx.Error(); code != gpucore.NoError {
		return res, &GPUOperationError{Op: "initialize", Code: code}
	}
	return res, nil
}

// valid reports whether the resources are live.
func (r *resources) valid() bool {
	return r.ctx != nil
}

// release deletes the owned objects in reverse creation order and the
// context last. Safe to call on the zero value.
func (r *resources) release() {
	if r.ctx == nil {
		return
	}
	if r.buffer != gpucore.InvalidID {
		r.ctx.DeleteBuffer(r.buffer)
	}
	if r.program != gpucore.InvalidID {
		r.ctx.DeleteProgram(r.program)
	}
	if r.texture != gpucore.InvalidID {
		r.ctx.DeleteTexture(r.texture)
	}
	r.ctx.Release()
	*r = resources{}
}
