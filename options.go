package rastershade

import "github.com/gogpu/rastershade/internal/parallel"

// Option configures a Renderer or a standalone ComputeHillshade call.
//
// Example:
//
//	r := rastershade.NewRenderer(
//	    rastershade.WithWorkers(4),
//	    rastershade.WithProgress(func(done, total int) { bar.Set(done, total) }),
//	)
type Option func(*options)

type options struct {
	workers  int
	progress func(done, total int)
	pool     *parallel.WorkerPool
}

func defaultOptions() options {
	return options{
		workers: 0, // GOMAXPROCS
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkers sets the number of row workers. Zero or negative selects
// GOMAXPROCS; 1 processes rows sequentially on one worker.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress registers an advisory callback receiving the number of
// completed rows and the total row count of the current pass. It is called
// from worker goroutines, so it must be safe for concurrent use and return
// quickly.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// withPool reuses an existing worker pool instead of starting one.
func withPool(p *parallel.WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}
