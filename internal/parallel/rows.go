package parallel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// RowFunc processes one row. Rows of different bands run concurrently.
type RowFunc func(row int) error

// Stats reports how far a row pass got.
type Stats struct {
	// RowsDone counts rows whose RowFunc returned nil.
	RowsDone int
	// FailedRow is the row whose error stopped the pass, or -1.
	FailedRow int
}

// ForEachRow runs fn for every row in [0, rows), band by band on the pool.
//
// The first error, or a panic recovered inside fn, stops the pass: rows not
// yet started are skipped, rows in flight finish. Cancellation of ctx is
// checked before every row. The returned error is the first row error, or
// ctx.Err() if the pass was cancelled first.
//
// If progress is non-nil it is called after each completed row with the
// running total. It is called from worker goroutines and must be quick.
func (p *WorkerPool) ForEachRow(ctx context.Context, rows int, fn RowFunc, progress func(done, total int)) (Stats, error) {
	stats := Stats{FailedRow: -1}
	bands := Split(rows, p.workers)
	if len(bands) == 0 {
		return stats, ctx.Err()
	}

	var (
		done     atomic.Int64
		stop     atomic.Bool
		errOnce  sync.Once
		firstErr error
		failed   = -1
	)
	fail := func(row int, err error) {
		errOnce.Do(func() {
			firstErr = err
			failed = row
		})
		stop.Store(true)
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			for row := b.Start; row < b.End; row++ {
				if stop.Load() {
					return
				}
				if err := ctx.Err(); err != nil {
					fail(-1, err)
					return
				}
				if err := runRow(fn, row); err != nil {
					fail(row, err)
					return
				}
				n := done.Add(1)
				if progress != nil {
					progress(int(n), rows)
				}
			}
		}
	}

	p.ExecuteAll(work)

	stats.RowsDone = int(done.Load())
	stats.FailedRow = failed
	return stats, firstErr
}

// runRow calls fn and converts a panic into an error.
func runRow(fn RowFunc, row int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parallel: row %d panicked: %v", row, r)
		}
	}()
	return fn(row)
}
