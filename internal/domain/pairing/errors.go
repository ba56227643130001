package pairing

import "errors"

// Sentinel kinds for solver errors.
var (
	ErrMatrixBuild = errors.New("similarity matrix build failed")
)
