package rastershade

import (
	"context"

	"github.com/gogpu/rastershade/internal/cache"
	"github.com/gogpu/rastershade/internal/parallel"
)

// DefaultShadeCacheSize is the number of hillshade grids a ShadeCache keeps
// when created with a non-positive capacity. A few entries let a user flip
// between relief settings without recomputing.
const DefaultShadeCacheSize = 4

// ShadeCache keeps computed hillshade grids of one raster, keyed by the
// relief parameters they were computed with. Editing the relief changes
// Relief.Key, so stale grids are never returned; Invalidate drops all
// grids when the elevation data itself changed.
//
// Use one ShadeCache per raster. It is safe for concurrent use; two
// concurrent misses for the same key may both compute the grid.
type ShadeCache struct {
	grids *cache.Cache[uint64, *Hillshade]
}

// NewShadeCache creates a cache holding up to capacity grids.
func NewShadeCache(capacity int) *ShadeCache {
	if capacity <= 0 {
		capacity = DefaultShadeCacheSize
	}
	return &ShadeCache{grids: cache.New[uint64, *Hillshade](capacity)}
}

// Get returns the hillshade of src for relief, computing it on a miss.
// It fails with ErrDegenerateAffine like ComputeHillshade.
func (s *ShadeCache) Get(ctx context.Context, src Source, relief Relief, opts ...Option) (*Hillshade, error) {
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
	return s.get(ctx, pool, acc, src.Affine(), relief, o.progress)
}

func (s *ShadeCache) get(ctx context.Context, pool *parallel.WorkerPool, acc *accessor, aff Affine, relief Relief, progress func(done, total int)) (*Hillshade, error) {
	key := relief.Key()
	if h, ok := s.grids.Get(key); ok {
		if h.rows == acc.rows && h.cols == acc.cols {
			Logger().Debug("rastershade: hillshade cache hit", "key", key)
			return h, nil
		}
		s.grids.Delete(key)
	}

	h, err := computeHillshade(ctx, pool, acc, aff, relief, progress)
	if err != nil {
		return nil, err
	}
	s.grids.Set(key, h)
	return h, nil
}

// Invalidate drops every cached grid.
func (s *ShadeCache) Invalidate() {
	s.grids.Clear()
}

// Len returns the number of cached grids.
func (s *ShadeCache) Len() int {
	return s.grids.Len()
}

// Stats returns the number of lookups that hit and missed.
func (s *ShadeCache) Stats() (hits, misses uint64) {
	st := s.grids.Stats()
	return st.Hits, st.Misses
}
