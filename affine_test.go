package rastershade

import (
	"math"
	"testing"
)

func TestAffineApply(t *testing.T) {
	tests := []struct {
		name     string
		a        Affine
		col, row float64
		wantX    float64
		wantY    float64
	}{
		{"identity", IdentityAffine, 3, 4, 3, 4},
		{"north up", NorthUp(100, 200, 10, 10), 2, 3, 120, 170},
		{"rotated", Affine{1, 0, 1, 2, 1, 0}, 5, 7, 8, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.a.Apply(tt.col, tt.row)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.col, tt.row, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAffineIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a    Affine
		want bool
	}{
		{"identity", IdentityAffine, false},
		{"north up", NorthUp(0, 0, 30, 30), false},
		{"rotated", Affine{0, 0, 1, 0, 1, 0}, false},
		{"zero", Affine{}, true},
		{"collinear axes", Affine{0, 1, 1, 0, 1, 1}, true},
		{"zero cell height", NorthUp(0, 0, 30, 0), true},
		{"nan cell", Affine{0, math.NaN(), 0, 0, 0, 1}, true},
		{"overflow", Affine{0, math.MaxFloat64, 0, 0, 0, -math.MaxFloat64}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsDegenerate(); got != tt.want {
				t.Errorf("IsDegenerate(%v) = %v, want %v", [6]float64(tt.a), got, tt.want)
			}
		})
	}
}
