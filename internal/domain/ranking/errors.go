package ranking

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNoData signals a structurally invalid input: an empty or nil
	// snapshot. Per-team data problems never surface as errors.
	ErrNoData = errors.New("insufficient data for ranking")
)
