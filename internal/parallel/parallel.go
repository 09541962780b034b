// Package parallel holds the bounded worker loops used by image transforms and
// the preview pipeline. All of them share one scheduler: workers pull the next
// index from a shared counter, so a slow index never holds back the others.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// For runs fn(i) for every i in [0, n) on up to GOMAXPROCS workers.
func For(n int, fn func(i int)) {
	run(n, 0, func(i int) bool {
		fn(i)
		return false
	})
}

// ForStop is For with early exit: once any fn returns true no further indices
// are started, and ForStop reports true.
func ForStop(n int, fn func(i int) bool) bool {
	return run(n, 0, fn)
}

// Map calls fn for every item on at most workers goroutines (GOMAXPROCS when
// workers <= 0) and returns the results in input order. fn is called for every
// item even after ctx is done; it is expected to check ctx itself.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, index int, item T) R) []R {
	results := make([]R, len(items))
	run(len(items), workers, func(i int) bool {
		results[i] = fn(ctx, i, items[i])
		return false
	})
	return results
}

// run is the shared scheduler. It returns whether some fn asked to stop.
func run(n, workers int, fn func(i int) bool) bool {
	if n <= 0 {
		return false
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	var (
		next    atomic.Int64
		stopped atomic.Bool
		wg      sync.WaitGroup
	)
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for !stopped.Load() {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				if fn(i) {
					stopped.Store(true)
				}
			}
		}()
	}
	wg.Wait()
	return stopped.Load()
}
