package nhl

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrRequestFailed means a request kept failing after all retries.
	ErrRequestFailed = errors.New("stats api request failed")

	// ErrBadPayload means the response decoded but did not carry usable data.
	ErrBadPayload = errors.New("stats api returned a bad payload")
)
