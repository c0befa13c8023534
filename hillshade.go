package rastershade

import (
	"context"
	"fmt"
	"sync"

	"github.com/chewxy/math32"

	"github.com/gogpu/rastershade/internal/parallel"
)

// NoShade marks a hillshade cell that could not be shaded because one of
// its elevation samples is no-data.
const NoShade float32 = -1

// Hillshade is a per-cell illumination intensity grid with the dimensions
// of the raster it was computed from.
type Hillshade struct {
	rows, cols int
	data       []float32
}

// Rows returns the number of rows.
func (h *Hillshade) Rows() int { return h.rows }

// Cols returns the number of columns.
func (h *Hillshade) Cols() int { return h.cols }

// At returns the intensity of a cell.
func (h *Hillshade) At(row, col int) float32 { return h.data[row*h.cols+col] }

// Row returns the intensities of one row. The slice aliases the grid.
func (h *Hillshade) Row(row int) []float32 {
	i := row * h.cols
	return h.data[i : i+h.cols]
}

// IsShaded reports whether v is a usable intensity, i.e. neither NoShade
// nor NaN.
func IsShaded(v float32) bool {
	return v != NoShade && !math32.IsNaN(v)
}

// ComputeHillshade computes the illumination of every cell of an elevation
// raster. Each cell is approximated by a triangle through three nearby
// samples; its unit normal is lit by relief.LightDirection:
//
//	intensity = dot(normal, light)*LightIntensity + AmbientIntensity
//
// Intensities are not clamped. Cells whose triangle touches a no-data
// sample are set to NoShade.
//
// Rows are computed in parallel. Cancellation is checked between rows.
// A raster with a degenerate transform is rejected with ErrDegenerateAffine.
func ComputeHillshade(ctx context.Context, src Source, relief Relief, opts ...Option) (*Hillshade, error) {
	acc, err := newAccessor(src)
	if err != nil {
		return nil, err
	}
	if err := checkRelief(src.Affine()); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	pool := o.pool
	if pool == nil {
		pool = parallel.NewWorkerPool(o.workers)
		defer pool.Close()
	}
	return computeHillshade(ctx, pool, acc, src.Affine(), relief, o.progress)
}

// shadeScratch holds the three elevation rows a hillshade row needs.
type shadeScratch struct {
	prev, cur, next       []float64
	prevND, curND, nextND []bool
}

func computeHillshade(ctx context.Context, pool *parallel.WorkerPool, acc *accessor, aff Affine, relief Relief, progress func(done, total int)) (*Hillshade, error) {
	h := &Hillshade{
		rows: acc.rows,
		cols: acc.cols,
		data: make([]float32, acc.rows*acc.cols),
	}

	scratch := sync.Pool{
		New: func() any {
			n := acc.cols
			return &shadeScratch{
				prev: make([]float64, n), cur: make([]float64, n), next: make([]float64, n),
				prevND: make([]bool, n), curND: make([]bool, n), nextND: make([]bool, n),
			}
		},
	}

	Logger().Debug("rastershade: computing hillshade",
		"rows", acc.rows, "cols", acc.cols, "kind", acc.kind, "workers", pool.Workers())

	_, err := pool.ForEachRow(ctx, acc.rows, func(row int) error {
		s := scratch.Get().(*shadeScratch)
		defer scratch.Put(s)

		if err := acc.read(row, s.cur, s.curND); err != nil {
			return err
		}
		if row > 0 {
			if err := acc.read(row-1, s.prev, s.prevND); err != nil {
				return err
			}
		}
		if row == 0 && acc.rows > 1 {
			if err := acc.read(row+1, s.next, s.nextND); err != nil {
				return err
			}
		}
		shadeRow(h.Row(row), row, acc.rows, s, aff, relief)
		return nil
	}, progress)
	if err != nil {
		return nil, fmt.Errorf("rastershade: hillshade: %w", err)
	}
	return h, nil
}

// shadeRow computes one row of intensities into dst.
//
// The triangle for cell (r, c) uses forward/backward neighbors chosen so
// that no sample falls outside the grid:
//
//	interior:              (r, c)   (r-1, c+1) (r-1, c)
//	last column, first row: (r, c)   (r, c)     (r, c)
//	last column:           (r, c-1) (r-1, c)   (r-1, c-1)
//	first row:             (r+1, c) (r, c+1)   (r, c)
//
// Vertex positions always come from the affine at (c, r), (c+1, r+1) and
// (c, r+1). A neighbor missing because the grid is one cell wide or high
// is replaced by the cell's own sample.
func shadeRow(dst []float32, row, rows int, s *shadeScratch, aff Affine, relief Relief) {
	cols := len(dst)
	zs := relief.zScale()
	light := relief.LightDirection
	r := float64(row)

	// sample returns the elevation at (dr, c) where dr is -1, 0 or +1
	// relative to row.
	sample := func(dr, c, ownCol int) (float64, bool) {
		if c < 0 || c >= cols || row+dr < 0 || row+dr >= rows {
			return s.cur[ownCol], s.curND[ownCol]
		}
		switch dr {
		case -1:
			return s.prev[c], s.prevND[c]
		case 1:
			return s.next[c], s.nextND[c]
		}
		return s.cur[c], s.curND[c]
	}

	for col := range dst {
		lastCol := col == cols-1
		firstRow := row == 0

		var z1, z2, z3 float64
		var nd1, nd2, nd3 bool
		switch {
		case lastCol && firstRow:
			z1, nd1 = sample(0, col, col)
			z2, nd2 = z1, nd1
			z3, nd3 = z1, nd1
		case lastCol:
			z1, nd1 = sample(0, col-1, col)
			z2, nd2 = sample(-1, col, col)
			z3, nd3 = sample(-1, col-1, col)
		case firstRow:
			z1, nd1 = sample(1, col, col)
			z2, nd2 = sample(0, col+1, col)
			z3, nd3 = sample(0, col, col)
		default:
			z1, nd1 = sample(0, col, col)
			z2, nd2 = sample(-1, col+1, col)
			z3, nd3 = sample(-1, col, col)
		}
		if nd1 || nd2 || nd3 {
			dst[col] = NoShade
			continue
		}

		c := float64(col)
		x1, y1 := aff.Apply(c, r)
		x2, y2 := aff.Apply(c+1, r+1)
		x3, y3 := aff.Apply(c, r+1)
		v1 := Vec3{X: x1, Y: y1, Z: z1 * zs}
		v2 := Vec3{X: x2, Y: y2, Z: z2 * zs}
		v3 := Vec3{X: x3, Y: y3, Z: z3 * zs}

		normal := v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()
		dst[col] = float32(normal.Dot(light)*relief.LightIntensity + relief.AmbientIntensity)
	}
}

// LightForAffine returns the light direction for a sun at the given
// azimuth and altitude, oriented for rasters with transform a.
//
// Triangle normals follow the winding of the cell grid. For a transform
// with a negative determinant, such as every north-up raster, that winding
// is mirrored and normals point downwards, so the light vector is reversed
// to keep dot(normal, light) unchanged.
func LightForAffine(azimuth, altitude float64, a Affine) Vec3 {
	l := LightFromAngles(azimuth, altitude)
	if a[1]*a[5]-a[2]*a[4] < 0 {
		return l.Mul(-1)
	}
	return l
}
