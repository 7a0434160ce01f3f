package directory

import "errors"

// ErrUnknownTeam is returned when a franchise code is not in the directory.
var ErrUnknownTeam = errors.New("unknown team code")
