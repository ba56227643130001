package similarity

import "errors"

// Sentinel kinds for vector contract violations.
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrNonFinite         = errors.New("vector contains non-finite value")
)
