// Package parallel provides the fork-join primitive used by the renderers.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool splits index ranges into chunks and runs them on a bounded number of
// goroutines. A Pool has no background goroutines; every For call forks and
// joins its own work.
//
// Thread safety: Pool is immutable after construction and safe for
// concurrent use.
type Pool struct {
	workers int
}

// NewPool returns a pool running at most workers chunks at a time.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// For calls fn for consecutive half-open ranges [lo, hi) that cover [0, n)
// exactly once, each at most chunk long. It returns after every call has
// finished. Calls may run in any order and concurrently; fn must not touch
// indices outside its range.
//
// A nil pool runs everything on the calling goroutine.
func (p *Pool) For(n, chunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if chunk <= 0 {
		chunk = n
	}
	if p == nil || p.workers == 1 || n <= chunk {
		for lo := 0; lo < n; lo += chunk {
			fn(lo, min(lo+chunk, n))
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// ChunkFor returns a chunk length that gives each worker several chunks of
// n items, but never less than minChunk.
func (p *Pool) ChunkFor(n, minChunk int) int {
	c := n / (p.Workers() * 4)
	if c < minChunk {
		c = minChunk
	}
	if c < 1 {
		c = 1
	}
	return c
}
