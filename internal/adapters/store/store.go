// Package store defines the vector store and interaction log used by the
// engine, plus their errors.
package store

import (
	"context"

	"github.com/duetlab/duet/internal/domain/model"
)

// Entry is one user held by the vector store: the immutable source
// record next to its mutable feature vector.
type Entry struct {
	Record model.UserRecord
	Vector []float32
}

// VectorStore provides access to per-user feature vectors. One engine
// instance exclusively owns one store for the duration of a run; the
// drift learner is the only writer of committed vectors.
type VectorStore interface {
	// Put registers a user with its freshly encoded vector.
	// Returns ErrDuplicateUser if the id is already present.
	Put(ctx context.Context, rec model.UserRecord, vec []float32) error

	// Vector returns the live vector for a user. The slice aliases
	// store state; only the drift learner may mutate it.
	// Returns ErrUnknownUser for absent ids.
	Vector(ctx context.Context, id string) ([]float32, error)

	// Record returns the immutable source record for a user.
	Record(ctx context.Context, id string) (model.UserRecord, error)

	// IDs returns all user ids in insertion order. Iteration order is
	// deterministic and backs stable ranking ties.
	IDs(ctx context.Context) []string

	// GroupIDs returns the ids of one bipartite side, insertion order.
	GroupIDs(ctx context.Context, g model.Group) []string

	// Len returns the number of users in the store.
	Len(ctx context.Context) int
}
