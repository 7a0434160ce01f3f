// Package repository defines the ranking snapshot store interface and errors.
package repository

import "time"

// Option applies a configuration option to the memStore.
type Option func(*memStore)

// WithClock replaces the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *memStore) {
		if now != nil {
			s.now = now
		}
	}
}
