package dedupe

import "errors"

// Sentinel kinds for duplicate-resolution errors.
var (
	ErrKeeperNotInGroup = errors.New("keeper not in conflict group")
)
