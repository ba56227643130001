// Package app wires the encoder, stores, learner, ranker, solver, and
// quest planner into one engine with a plain function-call surface.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/drift"
	"github.com/duetlab/duet/internal/domain/encoding"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/pairing"
	"github.com/duetlab/duet/internal/domain/quest"
	"github.com/duetlab/duet/internal/domain/ranking"
	"github.com/duetlab/duet/internal/domain/similarity"
	"github.com/duetlab/duet/pkg/logger"
	"github.com/duetlab/duet/pkg/metrics"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLearningRate sets the drift step size.
func WithLearningRate(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.learningRate = rate
		}
	}
}

// WithTopK sets the default recommendation list length.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithParallelism bounds the solver's matrix-fill goroutines.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithCurrentYear pins the year ages are computed against.
func WithCurrentYear(year int) Option {
	return func(e *Engine) {
		if year > 0 {
			e.currentYear = year
		}
	}
}

// WithQuestOptions forwards options to the quest planner.
func WithQuestOptions(opts ...quest.Option) Option {
	return func(e *Engine) {
		e.questOpts = append(e.questOpts, opts...)
	}
}

// Engine owns one vector store and interaction log for the lifetime of
// a computation session. The vocabulary is fixed at construction;
// every vector the engine holds shares one layout.
type Engine struct {
	encoder      *encoding.Encoder
	vectors      *store.MemStore
	interactions *store.InteractionLog
	learner      *drift.Learner
	ranker       *ranking.Ranker
	solver       *pairing.Solver
	planner      *quest.Planner

	learningRate float64
	topK         int
	parallelism  int
	currentYear  int
	questOpts    []quest.Option

	logger logger.Logger
}

// New constructs an engine over a fixed interest vocabulary.
func New(ctx context.Context, vocabulary []string, opts ...Option) (*Engine, error) {
	if len(vocabulary) == 0 {
		return nil, encoding.ErrEmptyVocabulary
	}

	e := &Engine{
		learningRate: 0.1,
		topK:         ranking.DefaultTopK,
		logger:       logger.Get().Named("engine"),
	}

	for _, opt := range opts {
		opt(e)
	}

	var encOpts []encoding.Option
	if e.currentYear > 0 {
		encOpts = append(encOpts, encoding.WithCurrentYear(e.currentYear))
	}
	e.encoder = encoding.New(encoding.NewVocabulary(vocabulary), encOpts...)
	e.vectors = store.NewMemStore(ctx)
	e.interactions = store.NewInteractionLog(ctx)
	e.learner = drift.New(drift.WithLearningRate(e.learningRate))
	e.ranker = ranking.New(ranking.WithTopK(e.topK))

	var solverOpts []pairing.Option
	if e.parallelism > 0 {
		solverOpts = append(solverOpts, pairing.WithParallelism(e.parallelism))
	}
	e.solver = pairing.New(solverOpts...)
	e.planner = quest.NewPlanner(e.questOpts...)

	e.logger.Info(ctx, "engine ready",
		logger.Int("vocabulary", e.encoder.Vocabulary().Size()),
		logger.Int("dimension", e.encoder.Dimension()),
	)
	return e, nil
}

// Dimension returns the feature vector length for this engine.
func (e *Engine) Dimension() int {
	return e.encoder.Dimension()
}

// AddUser encodes a record and stores its vector. This is the only
// path that encodes, so every stored user has been through the encoder
// exactly once. Duplicate ids are rejected.
func (e *Engine) AddUser(ctx context.Context, rec model.UserRecord) error {
	vec := e.encoder.Encode(rec)
	if err := e.vectors.Put(ctx, rec, vec); err != nil {
		return fmt.Errorf("adding user %s: %w", rec.ID, err)
	}
	metrics.RecordUserEncoded()
	return nil
}

// AddInteraction appends one rating event to the log.
func (e *Engine) AddInteraction(ctx context.Context, event model.InteractionEvent) {
	e.interactions.Add(ctx, event)
}

// Ingest loads a batch of records and events in one call.
func (e *Engine) Ingest(ctx context.Context, records []model.UserRecord, events []model.InteractionEvent) error {
	for _, rec := range records {
		if err := e.AddUser(ctx, rec); err != nil {
			return err
		}
	}
	for _, ev := range events {
		e.AddInteraction(ctx, ev)
	}
	e.logger.Info(ctx, "feed ingested",
		logger.Int("users", len(records)),
		logger.Int("interactions", len(events)),
	)
	return nil
}

// Train replays the full interaction history against the vector store,
// oldest event first. Returns the number of events applied.
func (e *Engine) Train(ctx context.Context) (int, error) {
	applied, err := e.learner.Replay(ctx, e.vectors, e.interactions)
	if err != nil {
		return applied, err
	}
	e.logger.Info(ctx, "drift pass complete",
		logger.Int("applied", applied),
		logger.Int("total", e.interactions.Len(ctx)),
	)
	return applied, nil
}

// Recommend returns the top-k candidates for a user. k <= 0 uses the
// engine default. Unknown users get an empty list, not an error.
func (e *Engine) Recommend(ctx context.Context, userID string, k int) ([]model.Recommendation, error) {
	if k <= 0 {
		k = e.topK
	}
	return e.ranker.Recommend(ctx, e.vectors, userID, k)
}

// Similarity scores two stored users directly.
func (e *Engine) Similarity(ctx context.Context, idA, idB string) (float64, error) {
	vecA, err := e.vectors.Vector(ctx, idA)
	if err != nil {
		return 0, err
	}
	vecB, err := e.vectors.Vector(ctx, idB)
	if err != nil {
		return 0, err
	}
	return similarity.Cosine(vecA, vecB)
}

// OptimalPairs runs the pairing solver over the two groups and tags
// the result with a fresh run id.
func (e *Engine) OptimalPairs(ctx context.Context) (model.PairingResult, error) {
	res, err := e.solver.Solve(ctx, e.vectors)
	if err != nil {
		return model.PairingResult{}, err
	}

	result := model.PairingResult{
		RunID:        uuid.NewString(),
		Pairs:        res.Pairs,
		TotalScore:   res.TotalScore,
		AverageScore: res.AverageScore,
		PairCount:    len(res.Pairs),
	}
	e.logger.Info(ctx, "optimal pairing solved",
		logger.String("runID", result.RunID),
		logger.Int("pairs", result.PairCount),
		logger.Float64("totalScore", result.TotalScore),
	)
	return result, nil
}

// QuestSuggestion couples a matched pair with its meeting plan.
type QuestSuggestion struct {
	Pair model.Pair
	Plan quest.Plan
}

// PlanQuests builds meeting suggestions for each pair that has
// coordinates on both sides and a shared free slot. busy maps user id
// to that user's blocked intervals; pairs without a feasible plan are
// dropped, not errors.
func (e *Engine) PlanQuests(ctx context.Context, result model.PairingResult, busy map[string][]quest.Interval, venues []quest.Venue) ([]QuestSuggestion, error) {
	var suggestions []QuestSuggestion
	for _, p := range result.Pairs {
		recA, err := e.vectors.Record(ctx, p.AID)
		if err != nil {
			return nil, err
		}
		recB, err := e.vectors.Record(ctx, p.BID)
		if err != nil {
			return nil, err
		}

		locA := quest.Point{Latitude: recA.Latitude, Longitude: recA.Longitude}
		locB := quest.Point{Latitude: recB.Latitude, Longitude: recB.Longitude}
		plan, ok := e.planner.Plan(ctx, locA, locB, busy[p.AID], busy[p.BID], venues)
		if !ok {
			continue
		}
		suggestions = append(suggestions, QuestSuggestion{Pair: p, Plan: plan})
	}
	return suggestions, nil
}

// ExportVectors snapshots every user's record and current vector in
// store insertion order.
func (e *Engine) ExportVectors(ctx context.Context) []model.VectorExport {
	ids := e.vectors.IDs(ctx)
	out := make([]model.VectorExport, 0, len(ids))
	for _, id := range ids {
		rec, err := e.vectors.Record(ctx, id)
		if err != nil {
			continue
		}
		vec, err := e.vectors.Vector(ctx, id)
		if err != nil {
			continue
		}
		snapshot := make([]float32, len(vec))
		copy(snapshot, vec)
		out = append(out, model.VectorExport{
			UserID:    rec.ID,
			Group:     rec.Group,
			BirthYear: rec.BirthYear,
			Interests: rec.Interests,
			Vector:    snapshot,
		})
	}
	return out
}

// Stats reports engine counters for monitoring.
func (e *Engine) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"users":        e.vectors.Len(ctx),
		"groupA":       len(e.vectors.GroupIDs(ctx, model.GroupA)),
		"groupB":       len(e.vectors.GroupIDs(ctx, model.GroupB)),
		"interactions": e.interactions.Len(ctx),
		"dimension":    e.Dimension(),
	}
}
