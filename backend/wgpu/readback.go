//go:build !(js && wasm)

package wgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imageview/gpucore"
)

// copyPitchAlignment is the row alignment required by texture-to-buffer
// copies.
const copyPitchAlignment = 256

func alignedBytesPerRow(width uint32) uint32 {
	row := width * 4
	return (row + copyPitchAlignment - 1) / copyPitchAlignment * copyPitchAlignment
}

// ReadPixels copies the resolved render target into host memory. A
// pending Clear is executed first.
func (c *Context) ReadPixels() (*image.NRGBA, error) {
	if c.dead {
		return nil, gpucore.ErrContextReleased
	}
	t := &c.target
	if t.color == nil {
		return nil, ErrNoRenderTarget
	}
	if c.clearColor != nil {
		if err := c.submitPass("imageview_clear", nil); err != nil {
			return nil, fmt.Errorf("wgpu: clear before readback: %w", err)
		}
	}

	w, h := t.width, t.height
	pitch := alignedBytesPerRow(w)
	size := uint64(pitch) * uint64(h)

	dev := c.dev.device
	staging, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "imageview_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer dev.DestroyBuffer(staging)

	encoder, err := dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "imageview_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("imageview_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.CopyTextureToBuffer(t.color, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.color, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	cmds, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer dev.FreeCommandBuffer(cmds)

	if _, err := c.dev.queue.Submit([]hal.CommandBuffer{cmds}); err != nil {
		return nil, fmt.Errorf("wgpu: submit readback: %w", err)
	}
	if err := dev.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wgpu: wait idle: %w", err)
	}

	mapping, err := dev.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	defer func() {
		if err := dev.UnmapBuffer(staging); err != nil {
			gpucore.Logger().Warn("wgpu: unmap staging buffer", "err", err)
		}
	}()
	if mapping.Ptr == nil {
		return nil, fmt.Errorf("wgpu: map staging buffer: nil mapping")
	}

	data := unsafe.Slice((*byte)(mapping.Ptr), size)
	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	row := int(w) * 4
	for y := 0; y < int(h); y++ {
		off := y * int(pitch)
		copy(img.Pix[y*img.Stride:y*img.Stride+row], data[off:off+row])
	}
	return img, nil
}
