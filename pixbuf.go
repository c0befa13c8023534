package rastershade

import (
	"fmt"
	"image"
	"image/color"
)

// PixelBuffer is a caller-owned packed BGRA8888 pixel buffer.
//
// Rows are Stride bytes apart. Stride may exceed Width*4 when rows are
// padded for alignment; padding bytes are never written by this package.
type PixelBuffer struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// NewPixelBuffer allocates a tightly packed buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]byte, width*height*4),
		Stride: width * 4,
		Width:  width,
		Height: height,
	}
}

// NewPixelBufferStride allocates a buffer whose stride is width*4 rounded
// up to a multiple of align bytes, as bitmap APIs commonly require.
func NewPixelBufferStride(width, height, align int) *PixelBuffer {
	stride := width * 4
	if align > 1 {
		stride = (stride + align - 1) / align * align
	}
	return &PixelBuffer{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
	}
}

// Validate checks that the buffer can hold its declared dimensions.
// The last row may omit its padding.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil", ErrInvalidBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if b.Stride < b.Width*4 {
		return fmt.Errorf("%w: stride %d below row size %d", ErrInvalidBuffer, b.Stride, b.Width*4)
	}
	if need := (b.Height-1)*b.Stride + b.Width*4; len(b.Pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBuffer, len(b.Pix), need)
	}
	return nil
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (b *PixelBuffer) PixOffset(x, y int) int {
	return y*b.Stride + x*4
}

// RowBytes returns the pixel bytes of row y without padding.
func (b *PixelBuffer) RowBytes(y int) []byte {
	i := y * b.Stride
	return b.Pix[i : i+b.Width*4]
}

// SetColor writes one pixel. Out-of-bounds coordinates are ignored.
func (b *PixelBuffer) SetColor(x, y int, c Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	c.PutBGRA(b.Pix[b.PixOffset(x, y):])
}

// ColorAt reads one pixel. Out-of-bounds coordinates return Transparent.
func (b *PixelBuffer) ColorAt(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Transparent
	}
	return ColorFromBGRA(b.Pix[b.PixOffset(x, y):])
}

// Clear fills every pixel with c, leaving padding untouched.
func (b *PixelBuffer) Clear(c Color) {
	for y := range b.Height {
		row := b.RowBytes(y)
		for i := 0; i < len(row); i += 4 {
			c.PutBGRA(row[i:])
		}
	}
}

// ToNRGBA copies the buffer into a new image.NRGBA, reordering channels.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := range b.Height {
		src := b.RowBytes(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}

// At implements the image.Image interface.
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.ColorAt(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
