package ytfetch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"ytfetch/config"
	"ytfetch/fetch"
	"ytfetch/filter"
	"ytfetch/output"
	"ytfetch/retry"
	"ytfetch/youtube"
)

// Summary describes a completed run.
type Summary struct {
	// RunID identifies the run in log output.
	RunID string
	// Enumerated is the number of candidate videos before filtering.
	Enumerated int
	// Accepted is the number of videos that passed the filters.
	Accepted int
	// Rejected tallies filtered-out candidates by reason.
	Rejected map[filter.Reason]int
	// Report breaks down the fetch outcomes.
	Report fetch.Report
}

// Run executes one full fetch: enumerate, filter, fetch transcripts, and
// write output files. A run that ends with zero matching videos is a normal
// completed run, not an error.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	summary := Summary{RunID: runID}

	retryCfg := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return summary, fmt.Errorf("create API client: %w", err)
	}

	enumerator := youtube.NewAPIEnumerator(service, logger)
	enumerator.Retry = retryCfg

	videos, err := enumerate(ctx, enumerator, cfg, logger)
	if err != nil {
		return summary, err
	}
	summary.Enumerated = len(videos)

	criteria := filter.Criteria{
		Now:         time.Now(),
		MonthsBack:  cfg.MonthsBack,
		MinDuration: cfg.MinDuration,
		MaxDuration: cfg.MaxDuration,
	}
	accepted, rejected := filter.Apply(videos, criteria)
	summary.Accepted = len(accepted)
	summary.Rejected = rejected
	logFilterResult(logger, criteria, len(videos), len(accepted), rejected)

	if len(accepted) == 0 {
		logger.Info("no videos matched the filters, nothing to fetch")
		return summary, nil
	}

	writer, err := output.NewWriter(cfg.OutputDir, logger)
	if err != nil {
		return summary, err
	}

	transcripts := youtube.NewTranscriptClient()
	defer transcripts.Close()

	pacer := fetch.NewPacer(cfg.Delay, cfg.BatchSize, cfg.BatchPause)
	fetcher := fetch.New(transcripts, pacer, retryCfg, logger)

	report, runErr := fetcher.Run(ctx, accepted, writer)
	summary.Report = report
	if closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("finalize output: %w", closeErr)
	}
	if runErr != nil {
		return summary, runErr
	}

	logger.Info("run complete",
		zap.Int("processed", report.Processed),
		zap.Int("transcribed", report.Transcribed),
		zap.Int("no_transcript", report.NoTranscript),
		zap.Int("rate_limited", report.RateLimited),
		zap.Int("errors", report.Errors),
		zap.String("output_dir", cfg.OutputDir))
	return summary, nil
}

func enumerate(ctx context.Context, enumerator *youtube.APIEnumerator, cfg *config.Config, logger *zap.Logger) ([]youtube.Video, error) {
	if cfg.PlaylistID != "" {
		logger.Info("enumerating playlist", zap.String("playlist_id", cfg.PlaylistID))
		return enumerator.PlaylistVideos(ctx, cfg.PlaylistID)
	}
	logger.Info("enumerating channel", zap.String("channel_url", cfg.ChannelURL))
	return enumerator.ChannelVideos(ctx, cfg.ChannelURL)
}

func logFilterResult(logger *zap.Logger, criteria filter.Criteria, total, accepted int, rejected map[filter.Reason]int) {
	fields := []zap.Field{
		zap.Int("candidates", total),
		zap.Int("accepted", accepted),
		zap.Time("cutoff", criteria.Cutoff()),
	}
	for reason, n := range rejected {
		fields = append(fields, zap.Int("rejected_"+string(reason), n))
	}
	logger.Info("filtered candidates", fields...)
}
