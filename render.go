package rastershade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/rastershade/internal/parallel"
)

// Result describes the outcome of a render that was not rejected up front.
type Result struct {
	// Completed is true when every row was composited.
	Completed bool
	// RowsWritten counts composited rows. Rows are processed in parallel
	// bands, so after a failure the written rows need not be contiguous.
	RowsWritten int
	// Cause is the error that stopped an incomplete render.
	Cause error
	// Shaded reports whether a hillshade grid was applied.
	Shaded bool
	// Smoothed reports whether the smoothing pass ran.
	Smoothed bool
}

// Renderer composites rasters into pixel buffers on a shared worker pool.
// A Renderer is safe for concurrent use; renders into distinct buffers run
// independently.
type Renderer struct {
	pool *parallel.WorkerPool
	opts options
}

// NewRenderer starts a renderer and its worker pool.
func NewRenderer(opts ...Option) *Renderer {
	o := applyOptions(opts)
	pool := o.pool
	if pool == nil {
		pool = parallel.NewWorkerPool(o.workers)
	}
	Logger().Debug("rastershade: renderer started", "workers", pool.Workers())
	return &Renderer{pool: pool, opts: o}
}

// Close stops the worker pool. Renders after Close run on the calling
// goroutine.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Workers returns the number of row workers.
func (r *Renderer) Workers() int {
	return r.pool.Workers()
}

// Render classifies src with sym and writes BGRA pixels into buf, one
// raster row per buffer row.
//
// Invalid input is rejected with an error before any pixel is written:
// a nil symbolizer (ErrNilSymbolizer), a symbolizer without ranges
// (ErrNoRanges), a malformed buffer (ErrInvalidBuffer), an unsupported
// source (ErrUnsupportedSource), a buffer whose size differs from the
// raster (ErrDimensionMismatch) or relief over a raster with a degenerate
// transform (ErrDegenerateAffine).
//
// Once rendering starts, a failure while reading or compositing a row is
// logged and stops the render: the returned error is nil and Result
// reports the incomplete outcome. Rows already written keep their pixels.
// If ctx is cancelled, Render returns ctx.Err().
//
// When sym.Relief.Used is set, the hillshade grid comes from sym.Shades or
// is computed for this render. Smoothing runs only after all rows are
// written.
func (r *Renderer) Render(ctx context.Context, src Source, sym *Symbolizer, buf *PixelBuffer) (Result, error) {
	if sym == nil {
		return Result{}, ErrNilSymbolizer
	}
	if sym.Classifier == nil || sym.Classifier.Len() == 0 {
		return Result{}, ErrNoRanges
	}
	if err := buf.Validate(); err != nil {
		return Result{}, err
	}
	acc, err := newAccessor(src)
	if err != nil {
		return Result{}, err
	}
	if buf.Width != acc.cols || buf.Height != acc.rows {
		return Result{}, fmt.Errorf("%w: buffer %dx%d, raster %dx%d",
			ErrDimensionMismatch, buf.Width, buf.Height, acc.cols, acc.rows)
	}
	if sym.Relief.Used {
		if err := checkRelief(src.Affine()); err != nil {
			return Result{}, err
		}
	}

	Logger().Debug("rastershade: render",
		"rows", acc.rows, "cols", acc.cols, "kind", acc.kind,
		"relief", sym.Relief.Used, "smooth", sym.Smooth)

	var res Result
	var shade *Hillshade
	if sym.Relief.Used {
		if sym.Shades != nil {
			shade, err = sym.Shades.get(ctx, r.pool, acc, src.Affine(), sym.Relief, r.opts.progress)
		} else {
			shade, err = computeHillshade(ctx, r.pool, acc, src.Affine(), sym.Relief, r.opts.progress)
		}
		if err != nil {
			return r.abort(ctx, res, -1, err)
		}
		res.Shaded = true
	}

	scratch := sync.Pool{
		New: func() any {
			return &rowScratch{
				vals:   make([]float64, acc.cols),
				nodata: make([]bool, acc.cols),
			}
		},
	}
	stats, err := r.pool.ForEachRow(ctx, acc.rows, func(row int) error {
		s := scratch.Get().(*rowScratch)
		defer scratch.Put(s)

		if err := acc.read(row, s.vals, s.nodata); err != nil {
			return err
		}
		var sh []float32
		if shade != nil {
			sh = shade.Row(row)
		}
		sym.CompositeRow(buf.RowBytes(row), s.vals, s.nodata, sh)
		return nil
	}, r.opts.progress)
	res.RowsWritten = stats.RowsDone
	if err != nil {
		return r.abort(ctx, res, stats.FailedRow, err)
	}
	res.Completed = true

	if sym.Smooth {
		if err := smooth(ctx, r.pool, buf, sym.SmoothOptions); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			Logger().Error("rastershade: smoothing failed", "err", err)
			return res, nil
		}
		res.Smoothed = true
	}
	return res, nil
}

// abort finishes a render that stopped part way.
func (r *Renderer) abort(ctx context.Context, res Result, row int, err error) (Result, error) {
	res.Cause = err
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		Logger().Debug("rastershade: render cancelled", "rows_written", res.RowsWritten)
		return res, ctxErr
	}
	Logger().Error("rastershade: render aborted",
		"row", row, "rows_written", res.RowsWritten, "err", err)
	return res, nil
}

// rowScratch is a worker's buffer for one raster row.
type rowScratch struct {
	vals   []float64
	nodata []bool
}

// Render is a one-shot convenience that renders src with a temporary
// Renderer configured by opts.
func Render(ctx context.Context, src Source, sym *Symbolizer, buf *PixelBuffer, opts ...Option) (Result, error) {
	r := NewRenderer(opts...)
	defer r.Close()
	return r.Render(ctx, src, sym, buf)
}
