package refresh

import "errors"

// Sentinel kinds for refresh errors.
var (
	ErrQueueClosed = errors.New("trigger queue closed")
)
