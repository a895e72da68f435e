package camview

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDefaultBridgeRGBAPassthrough(t *testing.T) {
	src := solidFrame(4, 4, color.RGBA{R: 255, A: 255})
	out, err := defaultBridge(src)
	if err != nil {
		t.Fatalf("defaultBridge: %v", err)
	}
	if out != image.Image(src) {
		t.Error("RGBA frame was copied instead of passed through")
	}
}

func TestDefaultBridgeConvertsYCbCr(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)
	// Mid-gray: luma 128, neutral chroma.
	for i := range src.Y {
		src.Y[i] = 128
	}
	for i := range src.Cb {
		src.Cb[i] = 128
		src.Cr[i] = 128
	}

	out, err := defaultBridge(src)
	if err != nil {
		t.Fatalf("defaultBridge: %v", err)
	}
	rgba, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("bridge output is %T, want *image.RGBA", out)
	}
	if got := rgba.Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Errorf("bounds = %v, want (0,0)-(8,8)", got)
	}
	px := rgba.RGBAAt(4, 4)
	if px.A != 255 {
		t.Errorf("alpha = %d, want 255", px.A)
	}
	// Neutral chroma converts to equal channels near the luma value.
	if px.R != px.G || px.G != px.B {
		t.Errorf("gray pixel = %v, want equal channels", px)
	}
}

func TestDefaultBridgeConvertsNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	out, err := defaultBridge(src)
	if err != nil {
		t.Fatalf("defaultBridge: %v", err)
	}
	rgba := out.(*image.RGBA)
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("converted pixel = %v", got)
	}
}

func TestDefaultBridgeRejectsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		frame image.Image
	}{
		{"nil frame", nil},
		{"empty bounds", image.NewRGBA(image.Rectangle{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := defaultBridge(tt.frame)
			if !errors.Is(err, ErrEmptyFrame) {
				t.Errorf("defaultBridge error = %v, want ErrEmptyFrame", err)
			}
		})
	}
}
