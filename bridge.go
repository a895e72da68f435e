package camview

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ImageBridge converts a locked frame into a draw-ready image. The input is
// whatever pixel layout the frame source produces (YCbCr from a camera, BGRA
// from a decoder, RGBA from a synthetic source); the output must be
// addressable by the canvas for the duration of one render pass.
//
// Bridges may perform format and colorspace conversion. They must not retain
// the locked frame beyond the call.
type ImageBridge func(frame image.Image) (image.Image, error)

// defaultBridge converts camera-typical pixel layouts to RGBA.
//
// *image.RGBA frames pass through untouched; everything else (YCbCr 4:2:0
// camera planes, NRGBA, CMYK, ...) is converted through the color model by
// x/image's copier. The conversion allocates one RGBA frame per pass; hosts
// with tighter budgets can install a pooling bridge via WithImageBridge.
func defaultBridge(frame image.Image) (image.Image, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, fmt.Errorf("bridge frame: %w", ErrEmptyFrame)
	}
	if rgba, ok := frame.(*image.RGBA); ok {
		return rgba, nil
	}

	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(out, image.Point{}, frame, b, xdraw.Src, nil)
	return out, nil
}
