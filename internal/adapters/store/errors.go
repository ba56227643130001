package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownUser   = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already encoded")
	ErrNilVector     = errors.New("nil vector")
)
