package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrWriteArtifact = errors.New("write artifact failed")
)
