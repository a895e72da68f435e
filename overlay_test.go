package camview

import (
	"bytes"
	"image"
	"testing"
)

func TestOverlayDrawsReadout(t *testing.T) {
	c := newTestCanvas(t, 200, 50)
	o := newDiagnosticsOverlay()

	o.draw(c, 59.7, 60)

	// The backdrop and text must have touched the top-left corner region.
	touched := false
	for y := 0; y < 20 && !touched; y++ {
		for x := 0; x < 100; x++ {
			if c.target.RGBAAt(x, y).A != 0 {
				touched = true
				break
			}
		}
	}
	if !touched {
		t.Error("overlay drew nothing in the top-left corner")
	}
}

func TestOverlayIgnoresCanvasTransform(t *testing.T) {
	plain := newTestCanvas(t, 200, 50)
	newDiagnosticsOverlay().draw(plain, 30, 60)

	transformed := newTestCanvas(t, 200, 50)
	transformed.Translate(500, 500) // would push content off-surface
	transformed.Scale(10, 10)
	newDiagnosticsOverlay().draw(transformed, 30, 60)

	if !bytes.Equal(plain.target.Pix, transformed.target.Pix) {
		t.Error("overlay output depends on the canvas transform")
	}
}

func TestOverlayRestoresTransformStack(t *testing.T) {
	c := newTestCanvas(t, 100, 100)
	c.Translate(7, 7)
	before := c.CurrentTransform()
	depth := c.SaveCount()

	newDiagnosticsOverlay().draw(c, 42, 60)

	if got := c.SaveCount(); got != depth {
		t.Errorf("SaveCount after overlay = %d, want %d", got, depth)
	}
	if got := c.CurrentTransform(); got != before {
		t.Errorf("transform after overlay = %+v, want %+v", got, before)
	}
}

func TestOverlayOnTinySurface(t *testing.T) {
	// The readout may be clipped but must not panic.
	c, err := newCanvas(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("newCanvas: %v", err)
	}
	newDiagnosticsOverlay().draw(c, 60, 60)
}
