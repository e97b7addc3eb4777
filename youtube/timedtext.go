package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "ytfetch/http"
)

// TranscriptClient fetches caption tracks from YouTube's timedtext API.
// Each Fetch is a single attempt; the caller decides how to retry.
type TranscriptClient struct {
	httpClient *httpclient.Client
	baseURL    string
}

// NewTranscriptClient creates a timedtext client.
func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		httpClient: httpclient.New(&httpclient.Config{
			Timeout:           30 * time.Second,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RequestsPerSecond: 2.5,
		}),
		baseURL: "https://www.youtube.com/api/timedtext",
	}
}

// timedtextResponse is the raw json3 timedtext payload.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

type timedtextEvent struct {
	Segs []timedtextSegment `json:"segs,omitempty"`
}

type timedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// Fetch retrieves the full caption text for a video in the given language
// (defaults to "en"). It returns ErrNoTranscript when the video has no track
// in that language, and passes *httpclient.RateLimitError through untouched
// so callers can back off.
func (tc *TranscriptClient) Fetch(ctx context.Context, videoID, langCode string) (string, error) {
	if videoID == "" {
		return "", fmt.Errorf("video ID is required")
	}
	if langCode == "" {
		langCode = "en"
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", langCode)
	params.Set("fmt", "json3")

	response, err := tc.httpClient.Get(ctx, tc.baseURL+"?"+params.Encode())
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			// 404: no track in this language. 403: captions disabled or
			// region restricted. Both are definitive absence, not failures.
			if httpErr.StatusCode == http.StatusNotFound || httpErr.StatusCode == http.StatusForbidden {
				return "", fmt.Errorf("%w: video %s lang %s", ErrNoTranscript, videoID, langCode)
			}
		}
		return "", err
	}

	text, err := joinTimedtext(response.Body)
	if err != nil {
		return "", fmt.Errorf("parse timedtext response: %w", err)
	}
	// The endpoint answers 200 with an empty document when no track exists.
	if text == "" {
		return "", fmt.Errorf("%w: video %s lang %s", ErrNoTranscript, videoID, langCode)
	}
	return text, nil
}

// joinTimedtext flattens a json3 payload into one text, events separated by
// single spaces.
func joinTimedtext(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	var resp timedtextResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	var parts []string
	for _, event := range resp.Events {
		var b strings.Builder
		for _, seg := range event.Segs {
			b.WriteString(seg.UTF8)
		}
		if text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " ")); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying HTTP client resources.
func (tc *TranscriptClient) Close() error {
	if tc.httpClient != nil {
		return tc.httpClient.Close()
	}
	return nil
}
