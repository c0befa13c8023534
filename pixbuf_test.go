package rastershade

import (
	"errors"
	"image"
	"testing"
)

func TestNewPixelBufferStride(t *testing.T) {
	tests := []struct {
		width, align int
		wantStride   int
	}{
		{3, 0, 12},
		{3, 1, 12},
		{3, 16, 16},
		{5, 16, 32},
		{4, 16, 16},
	}
	for _, tt := range tests {
		b := NewPixelBufferStride(tt.width, 2, tt.align)
		if b.Stride != tt.wantStride {
			t.Errorf("width %d align %d: stride = %d, want %d", tt.width, tt.align, b.Stride, tt.wantStride)
		}
		if len(b.Pix) != b.Stride*2 {
			t.Errorf("len(Pix) = %d, want %d", len(b.Pix), b.Stride*2)
		}
		if err := b.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	}
}

func TestPixelBufferValidate(t *testing.T) {
	tests := []struct {
		name string
		buf  *PixelBuffer
	}{
		{"nil", nil},
		{"zero width", &PixelBuffer{Pix: make([]byte, 16), Stride: 16, Width: 0, Height: 1}},
		{"short stride", &PixelBuffer{Pix: make([]byte, 64), Stride: 7, Width: 2, Height: 2}},
		{"short pix", &PixelBuffer{Pix: make([]byte, 15), Stride: 8, Width: 2, Height: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.buf.Validate(); !errors.Is(err, ErrInvalidBuffer) {
				t.Errorf("Validate = %v, want ErrInvalidBuffer", err)
			}
		})
	}

	// The last row may omit its padding.
	ok := &PixelBuffer{Pix: make([]byte, 16+8), Stride: 16, Width: 2, Height: 2}
	if err := ok.Validate(); err != nil {
		t.Errorf("unpadded last row: %v", err)
	}
}

func TestPixelBufferSetColorAt(t *testing.T) {
	b := NewPixelBufferStride(3, 2, 16)
	c := ARGB(10, 20, 30, 40)
	b.SetColor(2, 1, c)

	off := b.PixOffset(2, 1)
	if off != 16+8 {
		t.Fatalf("PixOffset(2, 1) = %d, want 24", off)
	}
	if got := b.Pix[off : off+4]; got[0] != 40 || got[1] != 30 || got[2] != 20 || got[3] != 10 {
		t.Errorf("bytes = %v, want BGRA [40 30 20 10]", got)
	}
	if got := b.ColorAt(2, 1); got != c {
		t.Errorf("ColorAt = %v, want %v", got, c)
	}

	b.SetColor(-1, 0, c)
	b.SetColor(3, 0, c)
	if got := b.ColorAt(5, 5); got != Transparent {
		t.Errorf("out-of-bounds ColorAt = %v", got)
	}
}

func TestPixelBufferClearKeepsPadding(t *testing.T) {
	b := NewPixelBufferStride(3, 2, 16)
	for i := range b.Pix {
		b.Pix[i] = 0xAA
	}
	b.Clear(White)
	for y := range 2 {
		for i := 12; i < 16; i++ {
			if b.Pix[y*16+i] != 0xAA {
				t.Fatalf("padding byte %d of row %d overwritten", i, y)
			}
		}
		for x := range 3 {
			if b.ColorAt(x, y) != White {
				t.Fatalf("pixel (%d, %d) = %v", x, y, b.ColorAt(x, y))
			}
		}
	}
}

func TestPixelBufferToNRGBA(t *testing.T) {
	b := NewPixelBufferStride(2, 2, 16)
	b.SetColor(1, 0, ARGB(200, 1, 2, 3))
	img := b.ToNRGBA()
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	got := img.NRGBAAt(1, 0)
	if got.R != 1 || got.G != 2 || got.B != 3 || got.A != 200 {
		t.Errorf("NRGBAAt(1, 0) = %+v", got)
	}
	if FromColor(b.At(1, 0)) != ARGB(200, 1, 2, 3) {
		t.Errorf("At(1, 0) = %v", b.At(1, 0))
	}
	if b.Bounds() != img.Bounds() {
		t.Errorf("Bounds = %v", b.Bounds())
	}
}
