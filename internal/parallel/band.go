// Package parallel provides row-band parallel processing for raster passes.
//
// A raster of N rows is split into contiguous bands of rows. Each band is
// processed by one worker, so workers write to disjoint row ranges of a
// shared output buffer without locking. Key features:
//
//   - Band sizing that keeps every worker busy with a few bands each
//   - Work-stealing WorkerPool shared across passes
//   - Cooperative cancellation checked between rows
//   - Panics inside a row are recovered into errors
package parallel

// MinBandRows is the smallest band handed to a worker. Smaller bands cost
// more in scheduling than they gain in balance.
const MinBandRows = 8

// bandsPerWorker controls how finely rows are split so that slow bands
// (e.g. rows full of gradients) can be balanced by stealing.
const bandsPerWorker = 4

// Band is a half-open range of rows [Start, End).
type Band struct {
	Start int
	End   int
}

// Len returns the number of rows in the band.
func (b Band) Len() int {
	return b.End - b.Start
}

// Split divides rows into contiguous bands for the given worker count.
// The bands cover [0, rows) in order without gaps. Returns nil if rows <= 0.
func Split(rows, workers int) []Band {
	if rows <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	size := (rows + workers*bandsPerWorker - 1) / (workers * bandsPerWorker)
	if size < MinBandRows {
		size = MinBandRows
	}

	bands := make([]Band, 0, (rows+size-1)/size)
	for start := 0; start < rows; start += size {
		end := min(start+size, rows)
		bands = append(bands, Band{Start: start, End: end})
	}
	return bands
}
