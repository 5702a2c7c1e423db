// Package worker runs batches of independent requests on a fixed number of
// goroutines, so a screen with many items can load them side by side
// without opening one connection per item.
package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultWorkerCount is the default number of worker goroutines.
const DefaultWorkerCount = 4

// Job is one unit of work.
type Job func(ctx context.Context) error

// PoolConfig holds configuration for the pool.
type PoolConfig struct {
	WorkerCount int
	Logger      *zap.Logger
}

// Pool runs jobs with at most WorkerCount in flight.
type Pool struct {
	workerCount int
	logger      *zap.Logger
}

func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{workerCount: cfg.WorkerCount, logger: cfg.Logger.Named("worker")}
}

// Run executes every job and blocks until all have finished. errs[i] is the
// result of jobs[i]. Once ctx is done, jobs not yet started are skipped and
// report ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < min(p.workerCount, len(jobs)); i++ {
		wg.Add(1)
		go p.runWorker(ctx, i+1, queue, jobs, errs, &wg)
	}

feed:
	for i := range jobs {
		select {
		case queue <- i:
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				errs[j] = ctx.Err()
			}
			break feed
		}
	}
	close(queue)
	wg.Wait()
	return errs
}

// runWorker is the loop for a single worker goroutine.
func (p *Pool) runWorker(ctx context.Context, workerID int, queue <-chan int, jobs []Job, errs []error, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := range queue {
		errs[i] = p.handle(ctx, jobs[i])
		if errs[i] != nil {
			p.logger.Debug("job failed", zap.Int("worker", workerID), zap.Int("job", i), zap.Error(errs[i]))
		}
	}
}

// handle runs one job, turning a panic into an error so one bad item
// cannot take the batch down.
func (p *Pool) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx)
}
