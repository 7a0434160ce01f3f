package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound       = errors.New("team not ranked")
	ErrNoSnapshot     = errors.New("no ranking snapshot available")
	ErrUnknownVariant = errors.New("unknown ranking variant")
	ErrEmptySnapshot  = errors.New("snapshot has no scores")
)
