package imageview

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/imageview/layout"
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Viewport is the pixel size of a render target.
type Viewport struct {
	Width, Height int
}

// Frame is one RGBA8 image: Width*Height*4 bytes of non-premultiplied
// color, row major, top row first.
type Frame struct {
	Width, Height int
	Pix           []byte
}

// Validate checks the dimensions and the pixel buffer length.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame %dx%d", ErrInvalidDimensions, f.Width, f.Height)
	}
	if f.Width > math.MaxInt/BytesPerPixel/f.Height {
		return fmt.Errorf("%w: frame %dx%d overflows the pixel buffer size", ErrInvalidDimensions, f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidFrame, f.Width, f.Height, want, len(f.Pix))
	}
	return nil
}

// FrameFromImage converts img to a Frame. A tightly packed *image.NRGBA
// anchored at the origin is used without copying; anything else is
// converted.
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*BytesPerPixel {
		return Frame{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix[:b.Dx()*b.Dy()*BytesPerPixel]}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Frame{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// Image wraps the frame pixels in an *image.NRGBA without copying.
func (f Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Layout returns the quad the frame would be drawn with in vp.
func (f Frame) Layout(vp Viewport, mode layout.FitMode) (layout.Quad, error) {
	return layout.Compute(f.Width, f.Height, vp.Width, vp.Height, mode)
}
