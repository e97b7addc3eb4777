// Package youtube provides video enumeration via the YouTube Data API v3 and
// transcript retrieval via the timedtext endpoint.
package youtube

import (
	"errors"
	"time"
)

// Sentinel errors for upstream operations.
var (
	// ErrNotFound indicates the channel or playlist could not be resolved.
	ErrNotFound = errors.New("youtube: channel or playlist not found")
	// ErrInvalidURL indicates the channel URL could not be parsed.
	ErrInvalidURL = errors.New("youtube: invalid URL")
	// ErrQuotaExhausted indicates the daily Data API quota is spent.
	// Retrying within a run cannot resolve it, so it aborts the run.
	ErrQuotaExhausted = errors.New("youtube: daily API quota exhausted")
	// ErrNoTranscript indicates the video has no English caption track.
	ErrNoTranscript = errors.New("youtube: no English transcript")
)

// Privacy is a video's visibility status as reported by the Data API.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

// Video is one candidate video produced by enumeration. Fields are populated
// from the listing response plus a per-batch detail lookup and are read-only
// afterward.
type Video struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// Published is when the video was published (UTC).
	Published time.Time `json:"published"`

	// Privacy is the video's visibility status.
	Privacy Privacy `json:"privacy"`

	// Duration is the video length in seconds. Resolved by the detail
	// lookup; listing responses don't carry it.
	Duration int `json:"duration"`
}

// VideoURL returns the full YouTube URL for this video.
func (v Video) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ListerError wraps enumeration errors with context about what failed.
type ListerError struct {
	// Source is the identifier that was being enumerated.
	Source string
	// Err is the underlying error.
	Err error
}

func (e *ListerError) Error() string {
	return "youtube: listing " + e.Source + ": " + e.Err.Error()
}

func (e *ListerError) Unwrap() error { return e.Err }
