// Package fetch converts accepted video candidates into transcript outcomes,
// one at a time, respecting upstream rate limits with two separate policies:
// reactive exponential backoff on rate limit signals and proactive pacing
// between requests and batches.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	httpclient "ytfetch/http"
	"ytfetch/retry"
	"ytfetch/youtube"
)

// Status classifies the result of one transcript attempt.
type Status string

const (
	// StatusTranscribed means the English transcript was retrieved.
	StatusTranscribed Status = "transcribed"
	// StatusNoTranscript means the video has no English caption track.
	StatusNoTranscript Status = "no_english_transcript"
	// StatusRateLimited means the backoff budget ran out on rate limits.
	StatusRateLimited Status = "rate_limited_exhausted"
	// StatusError means a non-rate-limit failure on the single attempt.
	StatusError Status = "error"
)

// Outcome is the result of the fetch attempt for one accepted candidate.
// Exactly one Outcome is produced per candidate.
type Outcome struct {
	VideoID    string
	Status     Status
	Transcript string // present only when Status == StatusTranscribed
	Err        error  // present for StatusRateLimited and StatusError
}

// TranscriptSource is the upstream transcript collaborator. A single call is
// a single attempt; implementations must return *httpclient.RateLimitError
// for rate limit signals and youtube.ErrNoTranscript for definitive absence.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID, langCode string) (string, error)
}

// Sink consumes finalized outcomes in processing order, exactly once each.
type Sink interface {
	Commit(video youtube.Video, outcome Outcome) error
}

// Fetcher runs the per-item protocol over an accepted candidate list.
// Processing is strictly sequential; no two transcript requests overlap.
type Fetcher struct {
	source   TranscriptSource
	pacer    *Pacer
	retryCfg retry.Config
	language string
	logger   *zap.Logger
}

// New creates a Fetcher. The retry config is the reactive policy applied to
// rate-limited attempts for a single candidate; backoff state never carries
// over from one candidate to the next.
func New(source TranscriptSource, pacer *Pacer, retryCfg retry.Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		source:   source,
		pacer:    pacer,
		retryCfg: retryCfg,
		language: "en",
		logger:   logger,
	}
}

// Report summarizes a completed fetch phase.
type Report struct {
	Processed    int
	Transcribed  int
	NoTranscript int
	RateLimited  int
	Errors       int
}

func (r *Report) record(s Status) {
	r.Processed++
	switch s {
	case StatusTranscribed:
		r.Transcribed++
	case StatusNoTranscript:
		r.NoTranscript++
	case StatusRateLimited:
		r.RateLimited++
	case StatusError:
		r.Errors++
	}
}

// Run processes every candidate in order and commits exactly one outcome per
// candidate to the sink. Per-item failures are recorded and skipped; only
// context cancellation and sink failures abort the run.
func (f *Fetcher) Run(ctx context.Context, videos []youtube.Video, sink Sink) (Report, error) {
	var report Report
	total := len(videos)

	for i, v := range videos {
		f.logger.Info("fetching transcript",
			zap.Int("item", i+1),
			zap.Int("total", total),
			zap.Int("batch", f.pacer.Batch()),
			zap.String("video_id", v.ID),
			zap.String("title", v.Title))

		outcome := f.fetchOne(ctx, v)
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if err := sink.Commit(v, outcome); err != nil {
			return report, fmt.Errorf("commit outcome for %s: %w", v.ID, err)
		}
		report.record(outcome.Status)
		f.logOutcome(v, outcome)

		paused, err := f.pacer.Completed(ctx, total-i-1)
		if err != nil {
			return report, err
		}
		if paused {
			f.logger.Info("batch complete, pausing",
				zap.Duration("pause", f.pacer.BatchPause),
				zap.Int("transcribed", report.Transcribed),
				zap.Int("skipped", report.Processed-report.Transcribed))
		}
	}

	return report, nil
}

// fetchOne runs the attempt loop for a single candidate. Only rate limit
// signals are retried; absence and other errors resolve on the first attempt.
func (f *Fetcher) fetchOne(ctx context.Context, v youtube.Video) Outcome {
	var text string
	err := retry.Do(ctx, f.retryCfg, rateLimitOnly, func(ctx context.Context) error {
		t, ferr := f.source.Fetch(ctx, v.ID, f.language)
		if ferr != nil {
			return ferr
		}
		text = t
		return nil
	})

	switch {
	case err == nil:
		return Outcome{VideoID: v.ID, Status: StatusTranscribed, Transcript: text}
	case errors.Is(err, youtube.ErrNoTranscript):
		return Outcome{VideoID: v.ID, Status: StatusNoTranscript, Err: err}
	case isRateLimitExhausted(err):
		return Outcome{VideoID: v.ID, Status: StatusRateLimited, Err: err}
	default:
		return Outcome{VideoID: v.ID, Status: StatusError, Err: err}
	}
}

func (f *Fetcher) logOutcome(v youtube.Video, o Outcome) {
	switch o.Status {
	case StatusTranscribed:
		f.logger.Info("transcript retrieved", zap.String("video_id", v.ID), zap.Int("chars", len(o.Transcript)))
	case StatusNoTranscript:
		f.logger.Info("no English transcript", zap.String("video_id", v.ID))
	case StatusRateLimited:
		f.logger.Warn("rate limit backoff exhausted", zap.String("video_id", v.ID), zap.Error(o.Err))
	case StatusError:
		f.logger.Warn("transcript fetch failed", zap.String("video_id", v.ID), zap.Error(o.Err))
	}
}

// rateLimitOnly is the reactive policy's classifier: rate limit signals are
// the only retryable failures. Everything else fails fast per item so real
// problems aren't masked as transient ones.
func rateLimitOnly(err error) bool {
	var rlErr *httpclient.RateLimitError
	return errors.As(err, &rlErr)
}

// isRateLimitExhausted reports whether err is an exhausted retry budget whose
// underlying cause was a rate limit.
func isRateLimitExhausted(err error) bool {
	var retryErr *retry.RetryableError
	if !errors.As(err, &retryErr) {
		return false
	}
	var rlErr *httpclient.RateLimitError
	return errors.As(retryErr.Err, &rlErr)
}
