// Package batch runs independent evaluation jobs across a bounded worker
// pool. Crew+vessel groups in a fleet-wide compliance sweep carry no ordering
// constraint between them, so they fan out here.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/velamar/crewops/pkg/logger"
	"github.com/velamar/crewops/pkg/metrics"
)

// Job is one unit of evaluation work. Jobs must be pure with respect to
// shared state; results are delivered through the closure.
type Job func(ctx context.Context)

// Default pool configuration constants.
const (
	defaultQueueSize = 1024
)

// Pool dispatches jobs to a fixed set of worker goroutines.
type Pool struct {
	workers   int
	queueSize int

	jobs   chan Job
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool

	logger logger.Logger
}

// NewPool creates a worker pool with configuration options.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers:   runtime.NumCPU(),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}

	if p.logger == nil {
		p.logger = logger.Get().Named("batch")
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.jobs = make(chan Job, p.queueSize)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.started = true
	metrics.UpdateWorkerCount(p.workers)
	p.logger.Info(ctx, "batch pool started", logger.Int("workers", p.workers))
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job(ctx)
			metrics.RecordBatchJob()
		}
	}
}

// Run submits jobs and blocks until all have completed or ctx is canceled.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	var wg sync.WaitGroup
	for _, job := range jobs {
		job := job
		wg.Add(1)
		wrapped := func(jctx context.Context) {
			defer wg.Done()
			job(jctx)
		}
		select {
		case p.jobs <- wrapped:
		case <-ctx.Done():
			wg.Done()
			return ctx.Err()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the pool down and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
	p.started = false
	metrics.UpdateWorkerCount(0)
}
