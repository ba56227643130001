package encoding

import "errors"

// Sentinel kinds for encoder errors.
var (
	ErrEmptyVocabulary = errors.New("vocabulary is empty")
)
