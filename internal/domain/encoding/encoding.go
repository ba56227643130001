// Package encoding turns raw user records into fixed-length feature vectors.
//
// Vector layout: index 0 holds the normalized age, indices 1..N hold a
// one-hot indicator per vocabulary tag. The vocabulary is fixed at
// encoder construction; every vector produced by one encoder has the
// same length, 1 + vocabulary size.
package encoding

import (
	"sort"
	"time"

	"github.com/duetlab/duet/internal/domain/model"
)

// Default encoder configuration constants.
const (
	defaultMinAge     = 15
	defaultMaxAge     = 45
	defaultAge        = 25
	defaultAgeSlotLen = 1
)

// Vocabulary is the immutable, sorted tag list a vector layout is built on.
type Vocabulary struct {
	tags  []string
	index map[string]int
}

// NewVocabulary copies and sorts tags by name. Duplicates collapse to
// one slot so the layout stays unambiguous.
func NewVocabulary(tags []string) Vocabulary {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	dedup := sorted[:0]
	for _, tag := range sorted {
		if _, ok := index[tag]; ok {
			continue
		}
		index[tag] = len(dedup)
		dedup = append(dedup, tag)
	}
	return Vocabulary{tags: dedup, index: index}
}

// Size returns the number of tags in the vocabulary.
func (v Vocabulary) Size() int {
	return len(v.tags)
}

// Tags returns a copy of the sorted tag list.
func (v Vocabulary) Tags() []string {
	out := make([]string, len(v.tags))
	copy(out, v.tags)
	return out
}

// Position returns the one-hot slot of a tag, or ok=false for tags
// outside the vocabulary.
func (v Vocabulary) Position(tag string) (int, bool) {
	i, ok := v.index[tag]
	return i, ok
}

// Option applies a configuration option to the Encoder.
type Option func(*Encoder)

// WithAgeRange sets the age normalization window.
func WithAgeRange(minAge, maxAge int) Option {
	return func(e *Encoder) {
		if minAge > 0 && maxAge > minAge {
			e.minAge = minAge
			e.maxAge = maxAge
		}
	}
}

// WithDefaultAge sets the age assumed when a record has no birth year.
func WithDefaultAge(age int) Option {
	return func(e *Encoder) {
		if age > 0 {
			e.defaultAge = age
		}
	}
}

// WithCurrentYear pins the year ages are computed against. Defaults to
// the wall clock; tests pin it for determinism.
func WithCurrentYear(year int) Option {
	return func(e *Encoder) {
		if year > 0 {
			e.currentYear = year
		}
	}
}

// Encoder produces feature vectors for one fixed vocabulary.
type Encoder struct {
	vocab       Vocabulary
	minAge      int
	maxAge      int
	defaultAge  int
	currentYear int
}

// New creates an encoder over the given vocabulary with default
// configuration.
func New(vocab Vocabulary, opts ...Option) *Encoder {
	e := &Encoder{
		vocab:       vocab,
		minAge:      defaultMinAge,
		maxAge:      defaultMaxAge,
		defaultAge:  defaultAge,
		currentYear: time.Now().Year(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Vocabulary returns the vocabulary this encoder was built on.
func (e *Encoder) Vocabulary() Vocabulary {
	return e.vocab
}

// Dimension returns the length of every vector this encoder produces.
func (e *Encoder) Dimension() int {
	return defaultAgeSlotLen + e.vocab.Size()
}

// Encode builds the feature vector for a record. Pure: same record and
// vocabulary always produce the same vector.
func (e *Encoder) Encode(rec model.UserRecord) []float32 {
	vec := make([]float32, e.Dimension())
	vec[0] = float32(e.normalizedAge(rec.BirthYear))

	for _, tag := range rec.Interests {
		if pos, ok := e.vocab.Position(tag); ok {
			vec[defaultAgeSlotLen+pos] = 1.0
		}
		// Tags outside the vocabulary are silently ignored.
	}
	return vec
}

// normalizedAge maps an age onto [0,1] across the configured window.
func (e *Encoder) normalizedAge(birthYear int) float64 {
	age := e.defaultAge
	if birthYear > 0 {
		age = e.currentYear - birthYear
	}

	norm := float64(age-e.minAge) / float64(e.maxAge-e.minAge)
	if norm < 0 {
		return 0.0
	}
	if norm > 1 {
		return 1.0
	}
	return norm
}
