//go:build !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	// msaaSampleCount is the sample count used when antialiasing.
	msaaSampleCount = 4

	colorFormat = gputypes.TextureFormatRGBA8Unorm
	depthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// renderTarget holds the attachments of the offscreen drawing buffer.
// color is always single-sampled and is the texture read back; msaa is
// rendered into and resolved to color when antialiasing.
type renderTarget struct {
	color     hal.Texture
	colorView hal.TextureView
	msaa      hal.Texture
	msaaView  hal.TextureView
	depth     hal.Texture
	depthView hal.TextureView

	width, height uint32
}

// sampleCount returns the sample count of pipelines and the drawn-to
// attachment.
func (c *Context) sampleCount() uint32 {
	if c.opts.Antialias {
		return msaaSampleCount
	}
	return 1
}

// hasDepthStencil reports whether a depth/stencil attachment is allocated.
func (c *Context) hasDepthStencil() bool {
	return c.opts.Depth || c.opts.Stencil
}

// ensureTarget creates or recreates the attachments if the requested
// dimensions differ from the current size.
func (c *Context) ensureTarget(w, h uint32) error {
	t := &c.target
	if t.width == w && t.height == h && t.color != nil {
		return nil
	}
	c.destroyTarget()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	color, view, err := c.createAttachment("imageview_color", size, 1, colorFormat,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return fmt.Errorf("create color target: %w", err)
	}
	t.color, t.colorView = color, view

	if c.sampleCount() > 1 {
		msaa, msaaView, err := c.createAttachment("imageview_msaa", size, c.sampleCount(), colorFormat,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			c.destroyTarget()
			return fmt.Errorf("create MSAA target: %w", err)
		}
		t.msaa, t.msaaView = msaa, msaaView
	}

	if c.hasDepthStencil() {
		depth, depthView, err := c.createAttachment("imageview_depth", size, c.sampleCount(), depthFormat,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			c.destroyTarget()
			return fmt.Errorf("create depth/stencil target: %w", err)
		}
		t.depth, t.depthView = depth, depthView
	}

	t.width, t.height = w, h
	return nil
}

func (c *Context) createAttachment(label string, size hal.Extent3D, samples uint32,
	format gputypes.TextureFormat, usage gputypes.TextureUsage,
) (hal.Texture, hal.TextureView, error) {
	dev := c.dev.device
	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dev.DestroyTexture(tex)
		return nil, nil, err
	}
	return tex, view, nil
}

// destroyTarget releases all attachments and resets dimensions.
func (c *Context) destroyTarget() {
	t := &c.target
	dev := c.dev.device
	for _, v := range []*hal.TextureView{&t.depthView, &t.msaaView, &t.colorView} {
		if *v != nil {
			dev.DestroyTextureView(*v)
			*v = nil
		}
	}
	for _, tex := range []*hal.Texture{&t.depth, &t.msaa, &t.color} {
		if *tex != nil {
			dev.DestroyTexture(*tex)
			*tex = nil
		}
	}
	t.width, t.height = 0, 0
}

// colorAttachment returns the attachment the render pass draws into.
func (c *Context) colorAttachment(load gputypes.LoadOp, value gputypes.Color) hal.RenderPassColorAttachment {
	t := &c.target
	if t.msaaView != nil {
		return hal.RenderPassColorAttachment{
			View:          t.msaaView,
			ResolveTarget: t.colorView,
			LoadOp:        load,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    value,
		}
	}
	return hal.RenderPassColorAttachment{
		View:       t.colorView,
		LoadOp:     load,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: value,
	}
}

func (c *Context) depthAttachment(load gputypes.LoadOp) *hal.RenderPassDepthStencilAttachment {
	if c.target.depthView == nil {
		return nil
	}
	return &hal.RenderPassDepthStencilAttachment{
		View:              c.target.depthView,
		DepthLoadOp:       load,
		DepthStoreOp:      gputypes.StoreOpStore,
		DepthClearValue:   1,
		StencilLoadOp:     load,
		StencilStoreOp:    gputypes.StoreOpStore,
		StencilClearValue: 0,
	}
}
