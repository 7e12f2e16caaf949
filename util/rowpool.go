package util

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// RowPool pools float32 scanline buffers, keyed by width, to keep per-row
// allocations out of hot filter loops.
type RowPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex

	// Metrics
	hits   atomic.Int64
	misses atomic.Int64
}

func NewRowPool() *RowPool {
	return &RowPool{pools: make(map[string]*sync.Pool)}
}

func rowPoolKey(width int32) string {
	return fmt.Sprintf("%d", width)
}

// Get retrieves a zeroed row of the given width from the pool or creates a
// new one.
func (p *RowPool) Get(width int32) []float32 {
	if width <= 0 {
		return nil
	}

	key := rowPoolKey(width)

	// Fast path: read lock
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		if row := pool.Get(); row != nil {
			p.hits.Add(1)
			return row.([]float32)
		}
	} else {
		// Slow path: create new pool
		p.mu.Lock()
		// Double-check after acquiring write lock
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return make([]float32, width)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	p.misses.Add(1)
	return make([]float32, width)
}

// Put returns a row to the pool after clearing it.
func (p *RowPool) Put(row []float32) {
	if len(row) == 0 {
		return
	}

	key := rowPoolKey(int32(len(row)))

	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		FillFloat32(row, 0, int32(len(row)), 0)
		pool.Put(row)
	}
}

// GetMetrics returns pool usage statistics.
func (p *RowPool) GetMetrics() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}
