package rastershade

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"

	"github.com/gogpu/rastershade/internal/parallel"
)

// SmoothKernel selects the smoothing filter.
type SmoothKernel uint8

const (
	// SmoothEdgeAware replaces a pixel by the mean of its 3x3 neighborhood
	// only where some neighbor differs from it by more than the threshold
	// on any channel. Flat areas are left untouched.
	SmoothEdgeAware SmoothKernel = iota

	// SmoothBox applies a box blur of the configured radius to every pixel.
	SmoothBox
)

// String returns the kernel name.
func (k SmoothKernel) String() string {
	switch k {
	case SmoothEdgeAware:
		return "edge-aware"
	case SmoothBox:
		return "box"
	default:
		return fmt.Sprintf("SmoothKernel(%d)", uint8(k))
	}
}

// ParseSmoothKernel parses "edge-aware" or "box".
func ParseSmoothKernel(s string) (SmoothKernel, error) {
	switch s {
	case "", "edge-aware", "edge":
		return SmoothEdgeAware, nil
	case "box":
		return SmoothBox, nil
	}
	return 0, fmt.Errorf("rastershade: unknown smoothing kernel %q", s)
}

// SmoothOptions configures Smooth.
type SmoothOptions struct {
	Kernel SmoothKernel
	// Threshold is the largest per-channel difference SmoothEdgeAware
	// treats as equal.
	Threshold uint8
	// Radius of the SmoothBox kernel in pixels. Values below 1 use 1.
	Radius int
}

// DefaultSmoothOptions returns an edge-aware kernel with threshold 0.
func DefaultSmoothOptions() SmoothOptions {
	return SmoothOptions{Kernel: SmoothEdgeAware, Radius: 1}
}

// Smooth filters buf in place to soften hard edges between color bands.
// It reads only the written pixels, never touches row padding and gives the
// same output for the same input.
func Smooth(buf *PixelBuffer, opts SmoothOptions) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if opts.Kernel == SmoothBox {
		smoothBox(buf, opts.Radius)
		return nil
	}
	src := snapshot(buf)
	for y := range buf.Height {
		smoothEdgeRow(buf, src, y, opts.Threshold)
	}
	return nil
}

// smooth is Smooth with edge-aware rows spread over the pool.
func smooth(ctx context.Context, pool *parallel.WorkerPool, buf *PixelBuffer, opts SmoothOptions) error {
	if opts.Kernel == SmoothBox {
		smoothBox(buf, opts.Radius)
		return nil
	}
	src := snapshot(buf)
	_, err := pool.ForEachRow(ctx, buf.Height, func(y int) error {
		smoothEdgeRow(buf, src, y, opts.Threshold)
		return nil
	}, nil)
	return err
}

// snapshot copies the pixel rows of buf into a tightly packed slice.
func snapshot(buf *PixelBuffer) []byte {
	rowLen := buf.Width * 4
	out := make([]byte, rowLen*buf.Height)
	for y := range buf.Height {
		copy(out[y*rowLen:], buf.RowBytes(y))
	}
	return out
}

// smoothEdgeRow filters row y of buf from the packed snapshot src.
func smoothEdgeRow(buf *PixelBuffer, src []byte, y int, threshold uint8) {
	w, h := buf.Width, buf.Height
	rowLen := w * 4
	dst := buf.RowBytes(y)

	y0, y1 := max(y-1, 0), min(y+1, h-1)
	for x := range w {
		x0, x1 := max(x-1, 0), min(x+1, w-1)
		center := src[y*rowLen+x*4 : y*rowLen+x*4+4]

		var sum [4]int
		n := 0
		edge := false
		for ny := y0; ny <= y1; ny++ {
			for nx := x0; nx <= x1; nx++ {
				p := src[ny*rowLen+nx*4 : ny*rowLen+nx*4+4]
				for c := range 4 {
					sum[c] += int(p[c])
					if absDiff(p[c], center[c]) > threshold {
						edge = true
					}
				}
				n++
			}
		}
		if !edge {
			continue
		}
		for c := range 4 {
			dst[x*4+c] = uint8((sum[c] + n/2) / n)
		}
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// smoothBox blurs buf with a box kernel. The buffer is handed to the blur
// as an RGBA view; the filter treats the four channels alike, so the BGRA
// order passes through unchanged.
func smoothBox(buf *PixelBuffer, radius int) {
	radius = max(radius, 1)
	view := &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Stride,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
	out := blur.Box(view, float64(radius))
	rowLen := buf.Width * 4
	for y := range buf.Height {
		i := y * out.Stride
		copy(buf.RowBytes(y), out.Pix[i:i+rowLen])
	}
}
