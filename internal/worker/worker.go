package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

// Pool bounds how many tasks of one batch run at the same time.
type Pool struct {
	size   int
	active int64
	logger *logger_i.Logger
}

type job[In any] struct {
	index int
	item  In
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = config.DefaultEvalConcurrency
	}
	return &Pool{size: size, logger: logger_i.NewLogger("WorkerPool")}
}

func (p *Pool) Size() int {
	return p.size
}

// Active is the number of tasks running right now, across all batches.
func (p *Pool) Active() int64 {
	return atomic.LoadInt64(&p.active)
}

// Run applies fn to every item on at most p.Size() workers and returns the
// results in input order. The first error stops dispatching, cancels the
// context seen by running tasks and is returned.
func Run[In, Out any](ctx context.Context, p *Pool, items []In, fn func(ctx context.Context, item In) (Out, error)) ([]Out, error) {
	results := make([]Out, len(items))
	if len(items) == 0 {
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		firstErr  error
		errOnce   sync.Once
		wg        sync.WaitGroup
		processed int64
	)
	jobs := make(chan job[In])
	metrics.AddPendingEvaluations(len(items))

	workerCount := min(p.size, len(items))
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				out, err := execute(ctx, p, j.item, fn)
				atomic.AddInt64(&processed, 1)
				metrics.DecrementPendingEvaluations()
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[j.index] = out
			}
		}()
	}
	p.logger.Debug("Dispatching batch", "items", len(items), "workers", workerCount)

dispatch:
	for i, item := range items {
		select {
		case jobs <- job[In]{index: i, item: item}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if left := len(items) - int(atomic.LoadInt64(&processed)); left > 0 {
		metrics.AddPendingEvaluations(-left)
	}
	if firstErr != nil {
		return results, firstErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// execute runs one task and turns a panic into an error so a bad item cannot
// take the batch down.
func execute[In, Out any](ctx context.Context, p *Pool, item In, fn func(ctx context.Context, item In) (Out, error)) (out Out, err error) {
	atomic.AddInt64(&p.active, 1)
	metrics.IncrementActiveWorkerCount()
	defer func() {
		atomic.AddInt64(&p.active, -1)
		metrics.DecrementActiveWorkerCount()
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "panic", r)
			err = fmt.Errorf("worker task panicked: %v", r)
		}
	}()
	return fn(ctx, item)
}
