// Package pairing computes a maximum-weight one-to-one assignment
// between the two bipartite sides of the vector store.
//
// The solver builds the full pairwise cosine matrix, negates it to turn
// the maximization into the Hungarian algorithm's minimization form,
// and assigns every member of the smaller side exactly once. The
// result is provably optimal for the given matrix, not merely greedy.
package pairing

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/similarity"
	"github.com/duetlab/duet/pkg/metrics"
)

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithParallelism bounds the goroutines filling the similarity matrix.
func WithParallelism(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// Solver is a stateless pure computation; it holds configuration only
// and keeps no state between calls.
type Solver struct {
	parallelism int
}

// New creates a solver with default configuration.
func New(opts ...Option) *Solver {
	s := &Solver{
		parallelism: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result is the outcome of one solver invocation.
type Result struct {
	Pairs        []model.Pair
	TotalScore   float64
	AverageScore float64
}

// Solve pairs group A against group B for maximum total similarity.
// Either side being empty yields an empty result with total 0 and no
// error. Pairs come back sorted by descending score; the sort is
// presentation only and does not affect which pairs were chosen.
func (s *Solver) Solve(ctx context.Context, vectors store.VectorStore) (Result, error) {
	groupA := vectors.GroupIDs(ctx, model.GroupA)
	groupB := vectors.GroupIDs(ctx, model.GroupB)
	return s.SolveGroups(ctx, vectors, groupA, groupB)
}

// SolveGroups runs the assignment over explicit id slices. Exposed so
// callers can pair subpopulations without rebuilding a store.
func (s *Solver) SolveGroups(ctx context.Context, vectors store.VectorStore, groupA, groupB []string) (Result, error) {
	if len(groupA) == 0 || len(groupB) == 0 {
		return Result{}, nil
	}

	start := time.Now()
	defer func() {
		metrics.ObserveSolveDuration(time.Since(start).Seconds())
	}()

	sim, err := s.buildMatrix(ctx, vectors, groupA, groupB)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMatrixBuild, err)
	}

	// The kernel wants rows <= cols; flip the matrix when A is the
	// larger side and read the assignment back transposed.
	rows, cols := len(groupA), len(groupB)
	flipped := rows > cols
	cost := negate(sim, flipped)

	assignment := minCostAssignment(cost)

	pairs := make([]model.Pair, 0, len(assignment))
	total := 0.0
	for r, c := range assignment {
		i, j := r, c
		if flipped {
			i, j = c, r
		}
		score := sim[i][j]
		total += score
		pairs = append(pairs, model.Pair{
			AID:   groupA[i],
			BID:   groupB[j],
			Score: score,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	metrics.RecordSolveRun()
	return Result{
		Pairs:        pairs,
		TotalScore:   total,
		AverageScore: total / float64(len(pairs)),
	}, nil
}

// buildMatrix fills the |A| x |B| cosine matrix. Each cell is a pure
// read of two committed vectors, so rows are filled concurrently.
func (s *Solver) buildMatrix(ctx context.Context, vectors store.VectorStore, groupA, groupB []string) ([][]float64, error) {
	vecsA := make([][]float32, len(groupA))
	for i, id := range groupA {
		v, err := vectors.Vector(ctx, id)
		if err != nil {
			return nil, err
		}
		vecsA[i] = v
	}
	vecsB := make([][]float32, len(groupB))
	for j, id := range groupB {
		v, err := vectors.Vector(ctx, id)
		if err != nil {
			return nil, err
		}
		vecsB[j] = v
	}

	sim := make([][]float64, len(groupA))
	rowCh := make(chan int)
	errCh := make(chan error, s.parallelism)

	var wg sync.WaitGroup
	for w := 0; w < s.parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			failed := false
			for i := range rowCh {
				// Keep draining after a failure so the feeder never blocks.
				if failed {
					continue
				}
				row := make([]float64, len(groupB))
				for j := range vecsB {
					score, err := similarity.Cosine(vecsA[i], vecsB[j])
					if err != nil {
						errCh <- fmt.Errorf("pair %s/%s: %w", groupA[i], groupB[j], err)
						failed = true
						break
					}
					row[j] = score
				}
				if !failed {
					sim[i] = row
				}
			}
		}()
	}

	for i := range sim {
		rowCh <- i
	}
	close(rowCh)
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	metrics.AddSimilarityComputed(len(groupA) * len(groupB))
	return sim, nil
}

// negate builds the cost matrix, transposing when flip is set.
func negate(sim [][]float64, flip bool) [][]float64 {
	if !flip {
		cost := make([][]float64, len(sim))
		for i, row := range sim {
			cost[i] = make([]float64, len(row))
			for j, v := range row {
				cost[i][j] = -v
			}
		}
		return cost
	}

	cost := make([][]float64, len(sim[0]))
	for j := range cost {
		cost[j] = make([]float64, len(sim))
		for i := range sim {
			cost[j][i] = -sim[i][j]
		}
	}
	return cost
}
