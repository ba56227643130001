package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrReadFeed      = errors.New("read feed failed")
	ErrMalformedFeed = errors.New("malformed feed document")
)
