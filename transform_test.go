package camview

import (
	"math"
	"testing"
)

const coverFitEpsilon = 1e-9

func TestCoverFit(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
		want                   CoverFit
	}{
		{
			name: "landscape into square crops width",
			srcW: 1920, srcH: 1080, dstW: 400, dstH: 400,
			want: CoverFit{
				Scale:   400.0 / 1080.0,
				OffsetX: -420, OffsetY: 0,
				CropW: 1080, CropH: 1080,
			},
		},
		{
			name: "portrait into square crops height",
			srcW: 1080, srcH: 1920, dstW: 400, dstH: 400,
			want: CoverFit{
				Scale:   400.0 / 1080.0,
				OffsetX: 0, OffsetY: -420,
				CropW: 1080, CropH: 1080,
			},
		},
		{
			name: "matching aspect keeps everything",
			srcW: 1920, srcH: 1080, dstW: 960, dstH: 540,
			want: CoverFit{
				Scale:   0.5,
				OffsetX: 0, OffsetY: 0,
				CropW: 1920, CropH: 1080,
			},
		},
		{
			name: "same size is identity",
			srcW: 640, srcH: 480, dstW: 640, dstH: 480,
			want: CoverFit{
				Scale:   1,
				OffsetX: 0, OffsetY: 0,
				CropW: 640, CropH: 480,
			},
		},
		{
			name: "upscale small source",
			srcW: 320, srcH: 240, dstW: 1280, dstH: 720,
			want: CoverFit{
				Scale:   4,
				OffsetX: 0, OffsetY: -30,
				CropW: 320, CropH: 180,
			},
		},
		{
			name: "wide destination crops height",
			srcW: 1000, srcH: 1000, dstW: 200, dstH: 100,
			want: CoverFit{
				Scale:   0.2,
				OffsetX: 0, OffsetY: -250,
				CropW: 1000, CropH: 500,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coverFit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			checkCoverFit(t, got, tt.want)
		})
	}
}

func TestCoverFitDegenerate(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
	}{
		{"zero source width", 0, 1080, 400, 400},
		{"zero source height", 1920, 0, 400, 400},
		{"zero destination width", 1920, 1080, 0, 400},
		{"zero destination height", 1920, 1080, 400, 0},
		{"negative source", -10, 1080, 400, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coverFit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if got.Scale != 1 || got.OffsetX != 0 || got.OffsetY != 0 {
				t.Errorf("coverFit(%v, %v, %v, %v) = %+v, want identity mapping",
					tt.srcW, tt.srcH, tt.dstW, tt.dstH, got)
			}
		})
	}
}

// The crop is centered, so at most one offset may be non-zero and both are
// always non-positive.
func TestCoverFitOffsetInvariant(t *testing.T) {
	sizes := []struct{ srcW, srcH, dstW, dstH float64 }{
		{1920, 1080, 400, 400},
		{1280, 720, 300, 500},
		{640, 480, 1920, 1080},
		{100, 100, 16, 9},
	}
	for _, s := range sizes {
		cf := coverFit(s.srcW, s.srcH, s.dstW, s.dstH)
		if cf.OffsetX > 0 || cf.OffsetY > 0 {
			t.Errorf("coverFit(%v, %v, %v, %v): positive offset %+v",
				s.srcW, s.srcH, s.dstW, s.dstH, cf)
		}
		if cf.OffsetX != 0 && cf.OffsetY != 0 {
			t.Errorf("coverFit(%v, %v, %v, %v): both offsets non-zero %+v",
				s.srcW, s.srcH, s.dstW, s.dstH, cf)
		}
	}
}

// The matrix must map the crop rectangle's corners onto the destination's
// corners.
func TestCoverFitMatrixCoversDestination(t *testing.T) {
	const srcW, srcH, dstW, dstH = 1920, 1080, 400, 400

	cf := coverFit(srcW, srcH, dstW, dstH)
	m := cf.Matrix()

	x0, y0 := m.TransformPoint(-cf.OffsetX, -cf.OffsetY)
	if math.Abs(x0) > coverFitEpsilon || math.Abs(y0) > coverFitEpsilon {
		t.Errorf("crop top-left maps to (%v, %v), want (0, 0)", x0, y0)
	}

	x1, y1 := m.TransformPoint(-cf.OffsetX+cf.CropW, -cf.OffsetY+cf.CropH)
	if math.Abs(x1-dstW) > coverFitEpsilon || math.Abs(y1-dstH) > coverFitEpsilon {
		t.Errorf("crop bottom-right maps to (%v, %v), want (%v, %v)", x1, y1, float64(dstW), float64(dstH))
	}
}

func checkCoverFit(t *testing.T, got, want CoverFit) {
	t.Helper()
	if math.Abs(got.Scale-want.Scale) > coverFitEpsilon {
		t.Errorf("Scale = %v, want %v", got.Scale, want.Scale)
	}
	if math.Abs(got.OffsetX-want.OffsetX) > coverFitEpsilon {
		t.Errorf("OffsetX = %v, want %v", got.OffsetX, want.OffsetX)
	}
	if math.Abs(got.OffsetY-want.OffsetY) > coverFitEpsilon {
		t.Errorf("OffsetY = %v, want %v", got.OffsetY, want.OffsetY)
	}
	if math.Abs(got.CropW-want.CropW) > coverFitEpsilon {
		t.Errorf("CropW = %v, want %v", got.CropW, want.CropW)
	}
	if math.Abs(got.CropH-want.CropH) > coverFitEpsilon {
		t.Errorf("CropH = %v, want %v", got.CropH, want.CropH)
	}
}
