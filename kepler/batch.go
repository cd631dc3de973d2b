package kepler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// SolveBatch evaluates el at every time in times using a fixed pool of
// workers. The input is split into contiguous chunks, one per worker, and
// each worker writes only its own range of the result. workers <= 0 uses
// GOMAXPROCS.
//
// The first failing sample (lowest index) is returned as the error; results
// for the other samples are still filled in.
func SolveBatch[T any](ctx context.Context, el Elements[T], times []T, workers int) ([]Solution[T], error) {
	out := make([]Solution[T], len(times))
	if len(times) == 0 {
		return out, nil
	}

	errs := make([]error, len(times))
	ParallelRange(ctx, len(times), workers, func(i int) {
		out[i], errs[i] = Solve(el, times[i])
	})

	if err := ctx.Err(); err != nil {
		return out, err
	}
	for i, err := range errs {
		if err != nil {
			return out, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return out, nil
}

// ParallelRange calls fn for every index in [0, n) across workers
// goroutines, each owning a contiguous chunk. It stops handing out indices
// once ctx is done.
func ParallelRange(ctx context.Context, n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 0 {
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if i%256 == 0 && ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
