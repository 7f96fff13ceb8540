package profiler

import (
	"context"
	gosync "sync"
)

// Map processes items with a bounded worker pool and returns results
// in input order. Workers stop early when the context is canceled; the first
// error wins.
func Map[T any, R any](
	ctx context.Context,
	items []T,
	workers int,
	process func(ctx context.Context, item T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		index int
		item  T
	}
	jobs := make(chan job, len(items))
	out := make([]R, len(items))
	errs := make(chan error, len(items))

	var wg gosync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if workerCtx.Err() != nil {
					return
				}
				value, err := process(workerCtx, j.item)
				if err != nil {
					errs <- err
					cancel()
					continue
				}
				out[j.index] = value
			}
		}()
	}

	for i, item := range items {
		jobs <- job{index: i, item: item}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
