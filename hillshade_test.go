package rastershade

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

const shadeEpsilon = 1e-5

func overheadRelief() Relief {
	return Relief{
		Extrusion:        1,
		ElevationFactor:  1,
		LightIntensity:   1,
		AmbientIntensity: 0,
		LightDirection:   V3(0, 0, 1),
		Used:             true,
	}
}

func flatGrid(t *testing.T, rows, cols int, z float32, aff Affine) *Grid[float32] {
	t.Helper()
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = z
	}
	g, err := NewGrid(rows, cols, data, -9999, aff)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestHillshadeFlatOverhead(t *testing.T) {
	g := flatGrid(t, 6, 7, 120, IdentityAffine)
	h, err := ComputeHillshade(context.Background(), g, overheadRelief())
	if err != nil {
		t.Fatalf("ComputeHillshade: %v", err)
	}
	if h.Rows() != 6 || h.Cols() != 7 {
		t.Fatalf("dims = %dx%d, want 6x7", h.Rows(), h.Cols())
	}
	for r := range 6 {
		for c := range 7 {
			if got := h.At(r, c); math.Abs(float64(got)-1) > shadeEpsilon {
				t.Errorf("At(%d, %d) = %v, want 1", r, c, got)
			}
		}
	}
}

func TestHillshadeAmbientAndIntensity(t *testing.T) {
	g := flatGrid(t, 3, 3, 0, IdentityAffine)
	relief := overheadRelief()
	relief.LightIntensity = 0.7
	relief.AmbientIntensity = 0.8
	h, err := ComputeHillshade(context.Background(), g, relief)
	if err != nil {
		t.Fatal(err)
	}
	// No clamping: 0.7 + 0.8 exceeds 1.
	if got := h.At(1, 1); math.Abs(float64(got)-1.5) > shadeEpsilon {
		t.Errorf("At(1, 1) = %v, want 1.5", got)
	}
}

func TestHillshadeNoDataPatch(t *testing.T) {
	data := make([]float32, 25)
	data[2*5+2] = -9999
	g, _ := NewGrid(5, 5, data, -9999, IdentityAffine)

	h, err := ComputeHillshade(context.Background(), g, overheadRelief())
	if err != nil {
		t.Fatal(err)
	}

	// Cell (2,2) samples itself; (3,1) and (3,2) reach up-right and up.
	unshaded := map[[2]int]bool{{2, 2}: true, {3, 1}: true, {3, 2}: true}
	for r := range 5 {
		for c := range 5 {
			got := h.At(r, c)
			if unshaded[[2]int{r, c}] {
				if got != NoShade {
					t.Errorf("At(%d, %d) = %v, want exactly -1", r, c, got)
				}
				if IsShaded(got) {
					t.Errorf("IsShaded(At(%d, %d)) = true", r, c)
				}
				continue
			}
			if got == NoShade || math.IsNaN(float64(got)) {
				t.Errorf("At(%d, %d) = %v, want a shaded value", r, c, got)
			}
		}
	}
}

func TestHillshadeNormalParallelToLight(t *testing.T) {
	// z = s*col: the exact normal is (-s, 0, 1)/sqrt(1+s^2).
	const rows, cols, s = 5, 6, 0.75
	data := make([]float64, rows*cols)
	for r := range rows {
		for c := range cols {
			data[r*cols+c] = s * float64(c)
		}
	}
	g, _ := NewGrid(rows, cols, data, -9999, IdentityAffine)

	relief := overheadRelief()
	relief.LightDirection = V3(-s, 0, 1).Normalize()
	// Same product as ElevationFactor = Extrusion = 1.
	relief.ElevationFactor = 0.5
	relief.Extrusion = 2

	h, err := ComputeHillshade(context.Background(), g, relief)
	if err != nil {
		t.Fatal(err)
	}
	for r := range rows {
		for c := range cols {
			if r == 0 && c == cols-1 {
				continue // flat corner triangle
			}
			if got := h.At(r, c); math.Abs(float64(got)-1) > shadeEpsilon {
				t.Errorf("At(%d, %d) = %v, want 1", r, c, got)
			}
		}
	}
	// The corner triangle is flat: dot((0,0,1), light).
	want := 1 / math.Sqrt(1+s*s)
	if got := h.At(0, cols-1); math.Abs(float64(got)-want) > shadeEpsilon {
		t.Errorf("corner = %v, want %v", got, want)
	}
}

func TestHillshadeNorthUp(t *testing.T) {
	aff := NorthUp(500000, 4100000, 30, 30)
	g := flatGrid(t, 4, 4, 900, aff)

	relief := overheadRelief()
	relief.LightDirection = V3(0, 0, 1)
	h, _ := ComputeHillshade(context.Background(), g, relief)
	// The mirrored winding points flat normals down.
	if got := h.At(1, 1); math.Abs(float64(got)+1) > shadeEpsilon {
		t.Errorf("raw north-up intensity = %v, want -1", got)
	}

	relief.LightDirection = LightForAffine(0, 90, aff)
	h, _ = ComputeHillshade(context.Background(), g, relief)
	if got := h.At(1, 1); math.Abs(float64(got)-1) > shadeEpsilon {
		t.Errorf("LightForAffine intensity = %v, want 1", got)
	}
}

func TestHillshadeThinGrids(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"single cell", 1, 1},
		{"single row", 1, 5},
		{"single column", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := flatGrid(t, tt.rows, tt.cols, 10, IdentityAffine)
			h, err := ComputeHillshade(context.Background(), g, overheadRelief())
			if err != nil {
				t.Fatal(err)
			}
			for r := range tt.rows {
				for c := range tt.cols {
					if got := h.At(r, c); math.Abs(float64(got)-1) > shadeEpsilon {
						t.Errorf("At(%d, %d) = %v, want 1", r, c, got)
					}
				}
			}
		})
	}
}

func TestHillshadeParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const rows, cols = 97, 61
	data := make([]int16, rows*cols)
	for i := range data {
		data[i] = int16(rng.IntN(2000))
		if rng.IntN(50) == 0 {
			data[i] = -32768
		}
	}
	g, _ := NewGrid(rows, cols, data, -32768, NorthUp(0, 0, 10, 10))
	relief := DefaultRelief()

	seq, err := ComputeHillshade(context.Background(), g, relief, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	par, err := ComputeHillshade(context.Background(), g, relief, WithWorkers(8))
	if err != nil {
		t.Fatal(err)
	}
	for i := range seq.data {
		a, b := seq.data[i], par.data[i]
		if a != b && !(math.IsNaN(float64(a)) && math.IsNaN(float64(b))) {
			t.Fatalf("cell %d: sequential %v, parallel %v", i, a, b)
		}
	}
}

func TestHillshadeErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := ComputeHillshade(ctx, bareSource{}, overheadRelief()); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("bare source: err = %v", err)
	}

	bad := &boxedGrid{rows: 2, cols: 2, values: []any{1, 2, "x", 4}}
	if _, err := ComputeHillshade(ctx, bad, overheadRelief()); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("bad value: err = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	g := flatGrid(t, 4, 4, 0, IdentityAffine)
	if _, err := ComputeHillshade(cancelled, g, overheadRelief()); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

func TestHillshadeDegenerateAffine(t *testing.T) {
	ctx := context.Background()
	g := flatGrid(t, 3, 3, 5, NorthUp(0, 0, 10, 0))
	if _, err := ComputeHillshade(ctx, g, overheadRelief()); !errors.Is(err, ErrDegenerateAffine) {
		t.Errorf("ComputeHillshade: err = %v, want ErrDegenerateAffine", err)
	}
	cache := NewShadeCache(0)
	if _, err := cache.Get(ctx, g, overheadRelief()); !errors.Is(err, ErrDegenerateAffine) {
		t.Errorf("ShadeCache.Get: err = %v, want ErrDegenerateAffine", err)
	}
	if cache.Len() != 0 {
		t.Errorf("cache Len() = %d, want 0", cache.Len())
	}
}

func TestHillshadeProgress(t *testing.T) {
	g := flatGrid(t, 20, 3, 0, IdentityAffine)
	var last int
	_, err := ComputeHillshade(context.Background(), g, overheadRelief(),
		WithWorkers(1),
		WithProgress(func(done, total int) {
			if total != 20 {
				t.Errorf("total = %d", total)
			}
			last = done
		}))
	if err != nil {
		t.Fatal(err)
	}
	if last != 20 {
		t.Errorf("last progress = %d, want 20", last)
	}
}

func TestIsShaded(t *testing.T) {
	tests := []struct {
		v    float32
		want bool
	}{
		{-1, false},
		{float32(math.NaN()), false},
		{0, true},
		{-0.5, true},
		{1.3, true},
	}
	for _, tt := range tests {
		if got := IsShaded(tt.v); got != tt.want {
			t.Errorf("IsShaded(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func BenchmarkComputeHillshade(b *testing.B) {
	const rows, cols = 512, 512
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(i%cols) * 0.5
	}
	g, _ := NewGrid(rows, cols, data, -9999, NorthUp(0, 0, 1, 1))
	relief := DefaultRelief()
	b.ReportAllocs()
	for b.Loop() {
		_, _ = ComputeHillshade(context.Background(), g, relief)
	}
}
