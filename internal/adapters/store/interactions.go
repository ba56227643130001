package store

import (
	"context"
	"sort"
	"sync"

	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/pkg/metrics"
)

// InteractionLog holds the append-only rating history used as training
// signal. Events are kept in arrival order; Sorted materializes the
// replay order the drift learner requires.
type InteractionLog struct {
	mu     sync.RWMutex
	events []model.InteractionEvent
}

// NewInteractionLog creates an empty interaction log.
func NewInteractionLog(_ context.Context) *InteractionLog {
	return &InteractionLog{}
}

// Add appends one event. Events are never updated or removed.
func (l *InteractionLog) Add(_ context.Context, e model.InteractionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	metrics.RecordInteractionIngested()
}

// Sorted returns a copy of all events ordered by timestamp ascending.
// The sort is stable: events sharing a timestamp keep their insertion
// order. Replay order is load-bearing for the drift learner, so this
// must stay deterministic.
func (l *InteractionLog) Sorted(_ context.Context) []model.InteractionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.InteractionEvent, len(l.events))
	copy(out, l.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Len returns the number of recorded events.
func (l *InteractionLog) Len(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
