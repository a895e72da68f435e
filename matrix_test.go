package camview

import (
	"math"
	"testing"
)

func TestIsScaleTranslate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"pure translation", Translate(10, 20), true},
		{"uniform scale", Scale(2, 2), true},
		{"non-uniform scale", Scale(3, 0.5), true},
		{"scale + translate", Scale(2, 3).Multiply(Translate(10, 20)), true},
		{"negative scale", Scale(-1, 1), true},
		{"shear x", Matrix{A: 1, B: 0.5, E: 1}, false},
		{"shear y", Matrix{A: 1, D: 0.5, E: 1}, false},
		{"zero matrix", Matrix{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsScaleTranslate(); got != tt.want {
				t.Errorf("Matrix%+v.IsScaleTranslate() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale then translate: the translation is applied in scaled space.
	m := Scale(2, 2).Multiply(Translate(10, 0))
	x, y := m.TransformPoint(0, 0)
	if x != 20 || y != 0 {
		t.Errorf("TransformPoint(0, 0) = (%v, %v), want (20, 0)", x, y)
	}

	// Translate then scale: the translation stays in device space.
	m = Translate(10, 0).Multiply(Scale(2, 2))
	x, y = m.TransformPoint(0, 0)
	if x != 10 || y != 0 {
		t.Errorf("TransformPoint(0, 0) = (%v, %v), want (10, 0)", x, y)
	}
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name         string
		m            Matrix
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -5), 3, 4, 13, -1},
		{"scale", Scale(2, 3), 3, 4, 6, 12},
		{"scale then translate", Scale(2, 2).Multiply(Translate(1, 1)), 0, 0, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := tt.m.TransformPoint(tt.x, tt.y)
			if gotX != tt.wantX || gotY != tt.wantY {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMatrixInvert(t *testing.T) {
	const epsilon = 1e-10

	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translation", Translate(15, -7)},
		{"scale", Scale(2, 0.5)},
		{"scale + translate", Scale(3, 3).Multiply(Translate(-4, 9))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.m.Invert()
			x, y := inv.TransformPoint(tt.m.TransformPoint(12, 34))
			if math.Abs(x-12) > epsilon || math.Abs(y-34) > epsilon {
				t.Errorf("round trip through Invert = (%v, %v), want (12, 34)", x, y)
			}
		})
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if got := (Matrix{}).Invert(); !got.IsIdentity() {
		t.Errorf("Invert of singular matrix = %+v, want identity", got)
	}
}
