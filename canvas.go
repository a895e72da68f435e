package camview

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Canvas is the transient drawing surface handed to a RenderFrame callback.
// It wraps the current drawable's backing store for exactly one render pass
// and must not be retained after the callback returns.
//
// Canvas maintains a transformation stack in the usual Push/Pop discipline.
// The provider pre-applies the cover-fit transform before invoking the
// callback, so drawing coordinates address source-image pixels.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	target *image.RGBA

	matrix Matrix
	stack  []Matrix

	paint color.RGBA
}

// newCanvas constructs a drawing surface over the given backing store.
// The backing store must be non-nil and non-empty.
func newCanvas(target *image.RGBA) (*Canvas, error) {
	if target == nil || target.Bounds().Empty() {
		return nil, ErrSurfaceCreation
	}
	return &Canvas{
		target: target,
		matrix: Identity(),
		stack:  make([]Matrix, 0, 4),
		paint:  color.RGBA{A: 0xff},
	}, nil
}

// Width returns the destination surface width in pixels.
func (c *Canvas) Width() int { return c.target.Bounds().Dx() }

// Height returns the destination surface height in pixels.
func (c *Canvas) Height() int { return c.target.Bounds().Dy() }

// Push saves the current transformation state.
func (c *Canvas) Push() {
	c.stack = append(c.stack, c.matrix)
}

// Pop restores the most recently saved transformation state.
// Popping an empty stack is a no-op.
func (c *Canvas) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.matrix = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// SaveCount returns the current depth of the transformation stack.
func (c *Canvas) SaveCount() int { return len(c.stack) }

// popTo unwinds the transformation stack to the given depth. Used by the
// provider to guarantee restoration even when a callback pushes without
// popping or fails partway through.
func (c *Canvas) popTo(depth int) {
	for len(c.stack) > depth {
		c.Pop()
	}
}

// Translate applies a translation to the current transformation.
func (c *Canvas) Translate(x, y float64) {
	c.matrix = c.matrix.Multiply(Translate(x, y))
}

// Scale applies a scaling transformation.
func (c *Canvas) Scale(x, y float64) {
	c.matrix = c.matrix.Multiply(Scale(x, y))
}

// Transform multiplies the current transformation matrix by m.
func (c *Canvas) Transform(m Matrix) {
	c.matrix = c.matrix.Multiply(m)
}

// CurrentTransform returns a copy of the current transformation matrix.
func (c *Canvas) CurrentTransform() Matrix { return c.matrix }

// SetRGBA sets the paint color from float components in [0, 1].
func (c *Canvas) SetRGBA(r, g, b, a float64) {
	c.paint = color.RGBA{
		R: clampByte(r * 255),
		G: clampByte(g * 255),
		B: clampByte(b * 255),
		A: clampByte(a * 255),
	}
}

// DrawImage draws img with its top-left corner at (x, y) in the current
// coordinate space. Drawing is eager: pixels land in the backing store
// immediately, sampled bilinearly when the transform scales or shears.
func (c *Canvas) DrawImage(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	m := c.matrix.Multiply(Translate(x, y))
	sb := img.Bounds()

	// Fast path: pure integer translation copies rows directly.
	if m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1 &&
		m.C == float64(int(m.C)) && m.F == float64(int(m.F)) {
		r := sb.Sub(sb.Min).Add(image.Pt(int(m.C), int(m.F)))
		xdraw.Draw(c.target, r, img, sb.Min, xdraw.Over)
		return
	}

	// The affine maps source pixels to device pixels. Transform works in the
	// source image's own coordinate space, so fold a non-zero bounds origin
	// into the translation.
	m = m.Multiply(Translate(float64(-sb.Min.X), float64(-sb.Min.Y)))
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	xdraw.ApproxBiLinear.Transform(c.target, aff, img, sb, xdraw.Over, nil)
}

// FillRect fills the rectangle (x, y, w, h) with the paint color in the
// current coordinate space.
func (c *Canvas) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	src := &image.Uniform{C: c.paint}

	if c.matrix.IsScaleTranslate() {
		x0, y0 := c.matrix.TransformPoint(x, y)
		x1, y1 := c.matrix.TransformPoint(x+w, y+h)
		r := image.Rect(round(x0), round(y0), round(x1), round(y1)).Canon()
		xdraw.Draw(c.target, r, src, image.Point{}, xdraw.Over)
		return
	}

	// Rotation or shear: map the unit square through the full transform.
	m := c.matrix.Multiply(Translate(x, y)).Multiply(Scale(w, h))
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	solid := image.NewRGBA(image.Rect(0, 0, 1, 1))
	solid.SetRGBA(0, 0, c.paint)
	xdraw.NearestNeighbor.Transform(c.target, aff, solid, solid.Bounds(), xdraw.Over, nil)
}

// StrokeRect strokes the rectangle (x, y, w, h) with line width lw, all in
// the current coordinate space.
func (c *Canvas) StrokeRect(x, y, w, h, lw float64) {
	if w <= 0 || h <= 0 || lw <= 0 {
		return
	}
	c.FillRect(x-lw/2, y-lw/2, w+lw, lw)      // top
	c.FillRect(x-lw/2, y+h-lw/2, w+lw, lw)    // bottom
	c.FillRect(x-lw/2, y+lw/2, lw, h-lw)      // left
	c.FillRect(x+w-lw/2, y+lw/2, lw, h-lw)    // right
}

// Clear fills the entire backing store with the paint color, ignoring the
// current transform.
func (c *Canvas) Clear() {
	xdraw.Draw(c.target, c.target.Bounds(), &image.Uniform{C: c.paint}, image.Point{}, xdraw.Src)
}

// Flush completes all recorded drawing. Canvas draws eagerly into the
// drawable's backing store, so Flush is the synchronization point before the
// drawable is submitted for presentation.
func (c *Canvas) Flush() error { return nil }

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
