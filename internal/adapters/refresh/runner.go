package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/pucklab/puckrank/pkg/logger"
	"github.com/pucklab/puckrank/pkg/metrics"
)

// Refresher recomputes and stores the rankings for one trigger.
type Refresher interface {
	Refresh(ctx context.Context, trigger Trigger) error
}

// Runner consumes triggers and executes refreshes one at a time.
type Runner interface {
	// Run starts the runner loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the runner. The in-flight refresh, if
	// any, finishes before Shutdown returns.
	Shutdown(ctx context.Context) error
}

// InMemoryRunner implements Runner over a trigger queue.
type InMemoryRunner struct {
	queue     Queue
	refresher Refresher
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryRunner creates a runner with configuration options.
func NewInMemoryRunner(queue Queue, refresher Refresher, opts ...RunnerOption) *InMemoryRunner {
	r := &InMemoryRunner{
		queue:     queue,
		refresher: refresher,
		name:      "refresh-runner",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("refresh"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts the runner loop. Triggers queued behind the one being
// processed are drained into a single run, so a burst of requests costs
// one recomputation.
func (r *InMemoryRunner) Run(ctx context.Context) {
	defer close(r.done)

	triggers := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case trigger, ok := <-triggers:
			if !ok {
				return
			}

			drained := r.drain(triggers)
			if drained > 0 {
				r.logger.Debug(ctx, "coalesced pending triggers",
					logger.String("trigger_id", trigger.ID),
					logger.Int("drained", drained))
			}

			r.runOne(ctx, trigger)
		}
	}
}

// drain consumes whatever triggers are already buffered without blocking.
func (r *InMemoryRunner) drain(triggers <-chan Trigger) int {
	n := 0
	for {
		select {
		case _, ok := <-triggers:
			if !ok {
				return n
			}
			n++
			metrics.RecordTriggerCoalesced()
		default:
			return n
		}
	}
}

func (r *InMemoryRunner) runOne(ctx context.Context, trigger Trigger) {
	start := time.Now()
	metrics.RecordRefreshRun()

	err := r.refresher.Refresh(ctx, trigger)
	elapsed := time.Since(start)
	metrics.RecordRefreshDuration(float64(elapsed.Milliseconds()))

	if err != nil {
		metrics.RecordRefreshError()
		metrics.RecordErrorByComponent("refresh", "run_failed")
		r.logger.Error(ctx, "refresh failed",
			logger.String("trigger_id", trigger.ID),
			logger.String("source", trigger.Source),
			logger.Error(err))
		return
	}

	metrics.UpdateRefreshLastUnix(time.Now().Unix())
	r.logger.Info(ctx, "refresh completed",
		logger.String("trigger_id", trigger.ID),
		logger.String("source", trigger.Source),
		logger.Any("elapsed", elapsed))
}

// Shutdown gracefully stops the runner.
func (r *InMemoryRunner) Shutdown(ctx context.Context) error {
	close(r.shutdown)

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
