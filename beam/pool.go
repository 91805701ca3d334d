package beam

import (
	"sync"
	"sync/atomic"
)

// Threads is the default worker-pool size.
const Threads = 8

// Pool is a fixed-size FIFO worker pool: a handful of goroutines blocked
// on a shared, unbuffered job channel. ParallelFor is the only entry point
// callers need; NewPool/Close manage the worker goroutines' lifetime.
type Pool struct {
	jobs    chan func()
	workers int
	wg      sync.WaitGroup
}

// NewPool starts n worker goroutines (Threads if n <= 0) and returns the
// pool ready for ParallelFor calls.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = Threads
	}
	p := &Pool{jobs: make(chan func()), workers: n}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Close tells every worker to exit and waits for them to drain. The pool
// must not be used again afterward.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// ParallelFor runs fn(k) for every k in [0, n), fanned out across
// min(n, pool size) workers, and blocks until all calls return. Each
// worker claims indices by atomically incrementing a shared counter until
// the counter exceeds n, the same work-stealing-by-counter shape the
// reference thread pool uses for its parallel-for primitive.
func (p *Pool) ParallelFor(n int, fn func(k int)) {
	if n <= 0 {
		return
	}
	workers := p.workers
	if workers > n {
		workers = n
	}

	var next int64
	var done sync.WaitGroup
	done.Add(workers)

	for i := 0; i < workers; i++ {
		p.jobs <- func() {
			defer done.Done()
			for {
				k := int(atomic.AddInt64(&next, 1) - 1)
				if k >= n {
					return
				}
				fn(k)
			}
		}
	}
	done.Wait()
}
