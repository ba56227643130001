// Package ranking produces top-K candidate lists for a single user.
package ranking

import (
	"context"
	"errors"
	"sort"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/similarity"
	"github.com/duetlab/duet/pkg/metrics"
)

// DefaultTopK bounds the recommendation list when the caller passes a
// non-positive k.
const DefaultTopK = 5

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithTopK sets the default list length.
func WithTopK(k int) Option {
	return func(r *Ranker) {
		if k > 0 {
			r.topK = k
		}
	}
}

// Ranker scores every eligible candidate for a user and keeps the best.
type Ranker struct {
	topK int
}

// New creates a ranker with default configuration.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		topK: DefaultTopK,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Recommend returns the top-k candidates for userID ordered by
// descending similarity. Candidates are restricted to the other group
// and never include the user itself. Equal scores keep store insertion
// order; no secondary key is defined. An unknown id yields an empty
// list and no error.
func (r *Ranker) Recommend(ctx context.Context, vectors store.VectorStore, userID string, k int) ([]model.Recommendation, error) {
	if k <= 0 {
		k = r.topK
	}

	vec, err := vectors.Vector(ctx, userID)
	if errors.Is(err, store.ErrUnknownUser) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := vectors.Record(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []model.Recommendation
	for _, otherID := range vectors.IDs(ctx) {
		if otherID == userID {
			continue
		}
		other, err := vectors.Record(ctx, otherID)
		if err != nil {
			return nil, err
		}
		if other.Group == rec.Group {
			continue
		}

		otherVec, err := vectors.Vector(ctx, otherID)
		if err != nil {
			return nil, err
		}
		score, err := similarity.Cosine(vec, otherVec)
		if err != nil {
			return nil, err
		}
		metrics.RecordSimilarityComputed()

		candidates = append(candidates, model.Recommendation{
			CandidateID: otherID,
			Group:       other.Group,
			Interests:   other.Interests,
			Score:       score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}
