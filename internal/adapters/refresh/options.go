package refresh

import (
	"github.com/pucklab/puckrank/pkg/logger"
)

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the trigger queue.
func WithCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// RunnerOption applies a configuration option to the InMemoryRunner.
type RunnerOption func(*InMemoryRunner)

// WithName sets the runner name for identification and logging.
func WithName(name string) RunnerOption {
	return func(r *InMemoryRunner) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) RunnerOption {
	return func(r *InMemoryRunner) {
		if l != nil {
			r.logger = l
		}
	}
}
