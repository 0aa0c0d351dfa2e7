package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
)

// RunBatch runs independent requests on a bounded worker pool and returns
// one result per request in input order. Runs never share a checkout; a
// canceled context makes the remaining runs fall back immediately.
func (g *Generator) RunBatch(ctx context.Context, reqs []Request, concurrency int) []*Result {
	results := make([]*Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}
	if concurrency > len(reqs) {
		concurrency = len(reqs)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	observability.InfoContext(ctx, "Batch started", logfields.Count(len(reqs)), slog.Int("concurrency", concurrency))

	tasks := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range tasks {
			results[i] = g.Run(ctx, reqs[i])
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for i := range reqs {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	return results
}
