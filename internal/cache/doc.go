// Package cache provides a small generic LRU cache for computed raster
// products such as hillshade grids.
//
//	c := cache.New[uint64, *Grid](4)
//	c.Set(key, grid)
//	grid, ok := c.Get(key)
//
// Entries are expensive to build and few in number, so eviction scans for
// the least recently used entry instead of maintaining a linked list.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
