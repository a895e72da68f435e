package camview

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// diagnosticsOverlay renders a small frame-rate readout in the top-left
// corner of the drawable. It draws in device pixels with an identity
// transform so the readout stays put regardless of the content transform.
type diagnosticsOverlay struct {
	face font.Face
}

func newDiagnosticsOverlay() *diagnosticsOverlay {
	return &diagnosticsOverlay{face: basicfont.Face7x13}
}

const (
	overlayPadX = 6
	overlayPadY = 4
)

func (o *diagnosticsOverlay) draw(canvas *Canvas, current, target float64) {
	text := fmt.Sprintf("%.1f / %.0f fps", current, target)

	d := font.Drawer{
		Dst:  canvas.target,
		Src:  image.NewUniform(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		Face: o.face,
	}
	w := d.MeasureString(text).Ceil()

	m := o.face.Metrics()
	lineH := m.Ascent.Ceil() + m.Descent.Ceil()

	depth := canvas.SaveCount()
	canvas.Push()
	canvas.matrix = Identity()
	canvas.SetRGBA(0, 0, 0, 0.6)
	canvas.FillRect(0, 0, float64(w+2*overlayPadX), float64(lineH+2*overlayPadY))
	canvas.popTo(depth)

	origin := canvas.target.Bounds().Min
	d.Dot = fixed.P(origin.X+overlayPadX, origin.Y+overlayPadY+m.Ascent.Ceil())
	d.DrawString(text)
}
