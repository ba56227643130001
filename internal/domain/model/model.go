// Package model contains domain models passed between layers.
package model

// Group is the bipartite side a user belongs to. Exactly two groups
// exist per engine run; pairing always crosses them.
type Group string

// The two sides of the bipartite population.
const (
	GroupA Group = "M"
	GroupB Group = "F"
)

// UserRecord is the raw input for one user. Immutable once ingested.
type UserRecord struct {
	ID        string   // opaque unique identifier
	Group     Group    // bipartite side
	BirthYear int      // year of birth; 0 when unknown
	Interests []string // subset of the engine vocabulary
	Latitude  float64  // optional home coordinates (0,0 = unset)
	Longitude float64
}

// InteractionEvent is one pairwise rating used as training signal.
// Score is an integer in [1,5]; Timestamp orders replay.
type InteractionEvent struct {
	SourceID  string
	TargetID  string
	Score     int
	Timestamp int64
}

// Recommendation is one ranked candidate for a user.
type Recommendation struct {
	CandidateID string   `json:"candidate_id"`
	Group       Group    `json:"group"`
	Interests   []string `json:"interests"`
	Score       float64  `json:"match_score"`
}

// Pair is one matched couple from the optimal pairing solver.
type Pair struct {
	AID   string  `json:"a_id"`
	BID   string  `json:"b_id"`
	Score float64 `json:"similarity_score"`
}

// PairingResult is the output of one solver invocation. It is produced
// fresh each call and never persisted by the engine.
type PairingResult struct {
	RunID        string  `json:"run_id"`
	Pairs        []Pair  `json:"pairs"`
	TotalScore   float64 `json:"total_similarity_score"`
	AverageScore float64 `json:"average_score"`
	PairCount    int     `json:"total_pairs"`
}

// VectorExport is the per-user export artifact: the raw record fields
// next to the current vector values.
type VectorExport struct {
	UserID    string    `json:"user_id"`
	Group     Group     `json:"gender"`
	BirthYear int       `json:"year_of_birth"`
	Interests []string  `json:"interests"`
	Vector    []float32 `json:"embedding_vector"`
}
