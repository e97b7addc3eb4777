package ytfetch

import (
	httpclient "ytfetch/http"
	"ytfetch/retry"
	"ytfetch/youtube"
)

// Type aliases for convenient error handling.
type (
	// ListerError wraps errors during video enumeration.
	ListerError = youtube.ListerError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// RateLimitError reports an upstream rate limit signal.
	RateLimitError = httpclient.RateLimitError
	// HTTPError reports a non-rate-limit HTTP failure.
	HTTPError = httpclient.HTTPError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNotFound indicates the channel, playlist, or video does not exist.
	ErrNotFound = youtube.ErrNotFound
	// ErrInvalidURL indicates the provided channel URL is not recognized.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrQuotaExhausted indicates the daily API quota is spent. Retrying
	// within the same run cannot succeed.
	ErrQuotaExhausted = youtube.ErrQuotaExhausted
	// ErrNoTranscript indicates the video has no English caption track.
	ErrNoTranscript = youtube.ErrNoTranscript
)

// IsRetryable determines if an error should be retried.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
