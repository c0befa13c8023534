package rastershade

import (
	"context"
	"errors"
	"testing"
)

func TestShadeCacheHitAndMiss(t *testing.T) {
	g := flatGrid(t, 4, 4, 10, IdentityAffine)
	c := NewShadeCache(0)
	ctx := context.Background()

	first, err := c.Get(ctx, g, overheadRelief())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(ctx, g, overheadRelief())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second lookup with equal relief should return the cached grid")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats = %d hits, %d misses, want 1/1", hits, misses)
	}

	changed := overheadRelief()
	changed.Extrusion = 3
	third, err := c.Get(ctx, g, changed)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("changed relief must not reuse the cached grid")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len after Invalidate = %d", c.Len())
	}
	fourth, _ := c.Get(ctx, g, overheadRelief())
	if fourth == first {
		t.Error("Invalidate should force recomputation")
	}
}

func TestShadeCacheUsedFlagSharesEntry(t *testing.T) {
	g := flatGrid(t, 2, 2, 0, IdentityAffine)
	c := NewShadeCache(2)
	on := overheadRelief()
	off := on
	off.Used = false

	a, _ := c.Get(context.Background(), g, on)
	b, _ := c.Get(context.Background(), g, off)
	if a != b {
		t.Error("toggling Used should not invalidate the grid")
	}
}

func TestShadeCacheDimensionChange(t *testing.T) {
	c := NewShadeCache(2)
	small := flatGrid(t, 2, 2, 0, IdentityAffine)
	large := flatGrid(t, 3, 5, 0, IdentityAffine)

	if _, err := c.Get(context.Background(), small, overheadRelief()); err != nil {
		t.Fatal(err)
	}
	h, err := c.Get(context.Background(), large, overheadRelief())
	if err != nil {
		t.Fatal(err)
	}
	if h.Rows() != 3 || h.Cols() != 5 {
		t.Errorf("dims = %dx%d, want recomputed 3x5", h.Rows(), h.Cols())
	}
}

func TestShadeCacheErrorNotCached(t *testing.T) {
	c := NewShadeCache(2)
	bad := &boxedGrid{rows: 1, cols: 1, values: []any{"x"}}
	if _, err := c.Get(context.Background(), bad, overheadRelief()); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("err = %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed computation must not be cached")
	}
}
