// Package drift implements the online learning rule that adapts user
// vectors from pairwise rating feedback.
//
// Each rating pulls the rater's vector toward (positive score) or away
// from (negative score) the rated vector. Updates are sequential and
// each depends on the already-updated state of the rater, so replay
// order is part of the contract: events are processed in timestamp
// order with stable insertion-order ties.
package drift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/similarity"
	"github.com/duetlab/duet/pkg/metrics"
)

// Default learner configuration constants.
const (
	defaultLearningRate = 0.1
	scoreMidpoint       = 3
	scoreHalfRange      = 2.0
)

// Option applies a configuration option to the Learner.
type Option func(*Learner)

// WithLearningRate sets the drift step size.
func WithLearningRate(rate float64) Option {
	return func(l *Learner) {
		if rate > 0 {
			l.learningRate = rate
		}
	}
}

// Learner replays interaction history against a vector store.
type Learner struct {
	learningRate float64
}

// New creates a learner with default configuration.
func New(opts ...Option) *Learner {
	l := &Learner{
		learningRate: defaultLearningRate,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LearningRate returns the configured step size.
func (l *Learner) LearningRate() float64 {
	return l.learningRate
}

// Replay applies every event in the log, oldest first, mutating vectors
// in the store in place. Events referencing ids without a vector are
// skipped. Returns the number of events applied.
func (l *Learner) Replay(ctx context.Context, vectors store.VectorStore, log *store.InteractionLog) (int, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveDriftPassDuration(time.Since(start).Seconds())
	}()

	applied := 0
	for _, event := range log.Sorted(ctx) {
		ok, err := l.Apply(ctx, vectors, event)
		if err != nil {
			return applied, fmt.Errorf("replaying event %s->%s: %w", event.SourceID, event.TargetID, err)
		}
		if ok {
			applied++
		}
	}
	metrics.RecordDriftPass()
	return applied, nil
}

// Apply performs one drift step:
//
//	norm = (score - 3) / 2          // 1 -> -1.0 ... 5 -> +1.0
//	u   += rate * norm * (t - u)    // elementwise, rater only
//
// The target's vector is never modified; only the rater moves. No
// renormalization happens afterward, so components may drift outside
// [0,1]. Returns false when either id has no vector (skip, not error).
func (l *Learner) Apply(ctx context.Context, vectors store.VectorStore, e model.InteractionEvent) (bool, error) {
	src, err := vectors.Vector(ctx, e.SourceID)
	if errors.Is(err, store.ErrUnknownUser) {
		metrics.RecordInteractionSkipped()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	tgt, err := vectors.Vector(ctx, e.TargetID)
	if errors.Is(err, store.ErrUnknownUser) {
		metrics.RecordInteractionSkipped()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Vectors built against different vocabularies must not be mixed.
	if err := similarity.Validate(src, tgt); err != nil {
		return false, fmt.Errorf("drift update %s->%s: %w", e.SourceID, e.TargetID, err)
	}

	norm := float64(e.Score-scoreMidpoint) / scoreHalfRange
	step := l.learningRate * norm
	for i := range src {
		delta := float64(tgt[i]) - float64(src[i])
		src[i] = float32(float64(src[i]) + step*delta)
	}
	metrics.RecordDriftUpdate()
	return true, nil
}
