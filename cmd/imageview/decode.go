//go:build !(js && wasm)

package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/imageview"
)

// decodeFrame decodes the image at path into an RGBA8 frame.
func decodeFrame(path string) (imageview.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return imageview.Frame{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return imageview.Frame{}, fmt.Errorf("decode %s: %w", path, err)
	}
	frame := imageview.FrameFromImage(img)
	imageview.Logger().Debug("imageview: decoded input", "path", path, "format", format,
		"width", frame.Width, "height", frame.Height)
	return frame, nil
}
