package parallel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestForEachRow_AllRows(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const rows = 257
	seen := make([]atomic.Int32, rows)
	stats, err := pool.ForEachRow(context.Background(), rows, func(row int) error {
		seen[row].Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("ForEachRow: %v", err)
	}
	if stats.RowsDone != rows || stats.FailedRow != -1 {
		t.Errorf("stats = %+v, want %d rows done", stats, rows)
	}
	for i := range seen {
		if seen[i].Load() != 1 {
			t.Fatalf("row %d visited %d times", i, seen[i].Load())
		}
	}
}

func TestForEachRow_ZeroRows(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	stats, err := pool.ForEachRow(context.Background(), 0, func(int) error {
		t.Error("fn called for empty pass")
		return nil
	}, nil)
	if err != nil || stats.RowsDone != 0 {
		t.Errorf("stats = %+v, err = %v", stats, err)
	}
}

func TestForEachRow_ErrorStopsPass(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	boom := errors.New("boom")
	stats, err := pool.ForEachRow(context.Background(), 20, func(row int) error {
		if row == 5 {
			return boom
		}
		return nil
	}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	// Single worker: rows run in order, so exactly rows 0..4 completed.
	if stats.RowsDone != 5 || stats.FailedRow != 5 {
		t.Errorf("stats = %+v, want 5 done, failed row 5", stats)
	}
}

func TestForEachRow_RecoversPanic(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	_, err := pool.ForEachRow(context.Background(), 16, func(row int) error {
		if row == 3 {
			var s []int
			_ = s[row]
		}
		return nil
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "row 3 panicked") {
		t.Errorf("err = %v, want recovered panic for row 3", err)
	}
}

func TestForEachRow_Cancelled(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := pool.ForEachRow(ctx, 100, func(int) error { return nil }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if stats.RowsDone != 0 || stats.FailedRow != -1 {
		t.Errorf("stats = %+v, want nothing done", stats)
	}
}

func TestForEachRow_Progress(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var mu sync.Mutex
	maxDone, calls := 0, 0
	_, err := pool.ForEachRow(context.Background(), 50, func(int) error { return nil }, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if total != 50 {
			t.Errorf("total = %d, want 50", total)
		}
		maxDone = max(maxDone, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 50 || maxDone != 50 {
		t.Errorf("progress calls = %d, max done = %d, want 50/50", calls, maxDone)
	}
}
