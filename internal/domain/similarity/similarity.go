// Package similarity computes compatibility scores between feature vectors.
//
// Vectors are stored as []float32 but all arithmetic accumulates in
// float64 so the score does not lose precision on long vectors.
package similarity

import (
	"fmt"
	"math"
)

// Dot computes the dot product of two equal-length vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm computes the L2 norm of a vector.
func Norm(v []float32) float64 {
	return math.Sqrt(Dot(v, v))
}

// Cosine returns the cosine similarity dot(a,b)/(|a|*|b|).
//
// A zero-norm vector on either side yields exactly 0.0 with no error.
// Mismatched lengths or non-finite components are contract violations
// and fail fast.
func Cosine(a, b []float32) (float64, error) {
	if err := Validate(a, b); err != nil {
		return 0, err
	}

	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0.0, nil
	}
	return Dot(a, b) / (normA * normB), nil
}

// Validate checks that both vectors share a length and contain only
// finite values. Exposed so callers mutating vectors can run the same
// check before committing an update.
func Validate(a, b []float32) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	for i := range a {
		if f := float64(a[i]); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: index %d of first vector", ErrNonFinite, i)
		}
		if f := float64(b[i]); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: index %d of second vector", ErrNonFinite, i)
		}
	}
	return nil
}
