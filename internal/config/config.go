// Package config defines engine configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the metrics HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DataDir holds the per-user JSON feed documents.
	DataDir string `koanf:"data_dir"`

	// VocabularyFile points at the JSON array of known interest tags.
	VocabularyFile string `koanf:"vocabulary_file"`

	// VenuesFile points at the JSON array of quest venues. Optional.
	VenuesFile string `koanf:"venues_file"`

	// OutputDir receives exported vectors and pairing artifacts.
	OutputDir string `koanf:"output_dir"`

	// TopK bounds recommendation lists.
	TopK int `koanf:"top_k"`

	// LearningRate sets the drift step size.
	LearningRate float64 `koanf:"learning_rate"`

	// Parallelism bounds the goroutines filling the similarity matrix.
	Parallelism int `koanf:"parallelism"`

	// MinQuestMinutes is the minimum shared free slot for a quest.
	MinQuestMinutes int `koanf:"min_quest_minutes"`

	// VenueCount is how many venues a quest plan suggests.
	VenueCount int `koanf:"venue_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9090",
		DataDir:         "data_json",
		VocabularyFile:  "vocabulary.json",
		VenuesFile:      "",
		OutputDir:       ".",
		TopK:            5,
		LearningRate:    0.1,
		Parallelism:     0, // 0 = solver default (NumCPU)
		MinQuestMinutes: 120,
		VenueCount:      3,
	}
}
