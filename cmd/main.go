// Command duet runs the match engine as a batch pipeline: ingest the
// JSON feed, export pre-train vectors, replay the rating history, export
// post-train vectors, solve the optimal pairing, and plan quests for the
// matched pairs. Prometheus metrics are served while the batch runs.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duetlab/duet/internal/adapters/export"
	"github.com/duetlab/duet/internal/adapters/feed"
	"github.com/duetlab/duet/internal/app"
	"github.com/duetlab/duet/internal/config"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/quest"
	"github.com/duetlab/duet/pkg/logger"
	"github.com/duetlab/duet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	// Serve /metrics for the duration of the batch.
	srv := startMetricsServer(ctx, cfg.Addr, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := runPipeline(ctx, cfg, log); err != nil {
		log.Error(ctx, "pipeline failed", logger.Error(err))
		return
	}
	log.Info(ctx, "pipeline complete")
}

func runPipeline(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	vocabulary, err := feed.LoadVocabulary(ctx, cfg.VocabularyFile)
	if err != nil {
		return err
	}
	records, events, err := feed.LoadUsers(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	venues, err := feed.LoadVenues(ctx, cfg.VenuesFile)
	if err != nil {
		return err
	}

	engine, err := app.New(ctx, vocabulary,
		app.WithLogger(log),
		app.WithLearningRate(cfg.LearningRate),
		app.WithTopK(cfg.TopK),
		app.WithParallelism(cfg.Parallelism),
		app.WithQuestOptions(
			quest.WithMinDuration(cfg.MinQuestMinutes),
			quest.WithVenueCount(cfg.VenueCount),
		),
	)
	if err != nil {
		return err
	}
	if err := engine.Ingest(ctx, records, events); err != nil {
		return err
	}

	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }

	// Vectors before any learning.
	before := engine.ExportVectors(ctx)
	if err := export.WriteVectorsJSON(out("embeddings_before.json"), before); err != nil {
		return err
	}
	if err := export.WriteVectorsText(out("embeddings_before.txt"), before); err != nil {
		return err
	}

	logSampleRecommendations(ctx, engine, records, log, "before training")

	applied, err := engine.Train(ctx)
	if err != nil {
		return err
	}
	log.Info(ctx, "training finished", logger.Int("eventsApplied", applied))

	after := engine.ExportVectors(ctx)
	if err := export.WriteVectorsJSON(out("embeddings_after.json"), after); err != nil {
		return err
	}
	if err := export.WriteVectorsText(out("embeddings_after.txt"), after); err != nil {
		return err
	}

	logSampleRecommendations(ctx, engine, records, log, "after training")

	result, err := engine.OptimalPairs(ctx)
	if err != nil {
		return err
	}
	if err := export.WritePairsJSON(out("optimal_pairs.json"), result); err != nil {
		return err
	}
	if err := export.WritePairsText(out("optimal_pairs.txt"), result); err != nil {
		return err
	}

	// Quest plans for the matched pairs. Busy schedules come from the
	// task system, which is outside this pipeline; plans here assume
	// open calendars.
	suggestions, err := engine.PlanQuests(ctx, result, nil, venues)
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		log.Info(ctx, "quest planned",
			logger.String("a", s.Pair.AID),
			logger.String("b", s.Pair.BID),
			logger.String("start", s.Plan.StartTime),
			logger.String("end", s.Plan.EndTime),
			logger.Int("rewardXP", s.Plan.RewardXP),
		)
	}

	log.Info(ctx, "artifacts written", logger.String("dir", cfg.OutputDir))
	return nil
}

// logSampleRecommendations logs the ranked list for the first user so a
// run shows how training shifts the ranking.
func logSampleRecommendations(ctx context.Context, engine *app.Engine, records []model.UserRecord, log logger.Logger, phase string) {
	if len(records) == 0 {
		return
	}
	sample := records[0].ID
	recs, err := engine.Recommend(ctx, sample, 0)
	if err != nil {
		log.Warn(ctx, "sample recommendation failed", logger.String("user", sample), logger.Error(err))
		return
	}
	for i, r := range recs {
		log.Info(ctx, "recommendation "+phase,
			logger.String("user", sample),
			logger.Int("rank", i+1),
			logger.String("candidate", r.CandidateID),
			logger.Float64("score", r.Score),
		)
	}
}

func startMetricsServer(ctx context.Context, addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
