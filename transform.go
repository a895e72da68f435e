package camview

// CoverFit describes how a source image is mapped onto a destination surface
// so that the destination is fully covered with no letterboxing. The image is
// scaled uniformly by Scale and the centered crop rectangle (whose aspect
// ratio equals the destination's) is shifted to the origin by OffsetX/OffsetY,
// both expressed in source-image pixels.
//
// Applying Scale then Translate(OffsetX, OffsetY) to a canvas remaps
// image-pixel coordinates onto the destination surface: drawing code keeps
// addressing frame-native coordinates regardless of the output size.
type CoverFit struct {
	// Scale is the uniform scale factor, max(dstW/srcW, dstH/srcH).
	Scale float64

	// OffsetX and OffsetY are the negated top-left corner of the centered
	// crop rectangle, in source-image pixels. At most one is non-zero.
	OffsetX float64
	OffsetY float64

	// CropW and CropH are the dimensions of the crop rectangle, in
	// source-image pixels.
	CropW float64
	CropH float64
}

// coverFit computes the cover-fit mapping of a srcW x srcH image onto a
// dstW x dstH surface. The larger of the two axis ratios wins, so the image
// may be cropped on one axis but the destination never shows a gap.
//
// Degenerate inputs (a zero or negative dimension) yield the identity
// mapping; the caller rejects empty frames before reaching this point.
func coverFit(srcW, srcH, dstW, dstH float64) CoverFit {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return CoverFit{Scale: 1, CropW: srcW, CropH: srcH}
	}

	scale := dstW / srcW
	if s := dstH / srcH; s > scale {
		scale = s
	}

	// Centered crop with the destination's aspect ratio.
	cropW := dstW / scale
	cropH := dstH / scale
	offsetX := -(srcW - cropW) / 2
	offsetY := -(srcH - cropH) / 2

	return CoverFit{
		Scale:   scale,
		OffsetX: offsetX,
		OffsetY: offsetY,
		CropW:   cropW,
		CropH:   cropH,
	}
}

// Matrix returns the canvas transform for this mapping: scale first, then
// translate by the crop offset.
func (cf CoverFit) Matrix() Matrix {
	return Scale(cf.Scale, cf.Scale).Multiply(Translate(cf.OffsetX, cf.OffsetY))
}
