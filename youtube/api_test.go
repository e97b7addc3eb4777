package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"ytfetch/retry"
)

// newTestEnumerator points an enumerator at a fake Data API endpoint.
func newTestEnumerator(t *testing.T, handler http.Handler) (*APIEnumerator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := ytapi.NewService(context.Background(),
		option.WithAPIKey("test-key"),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	e := NewAPIEnumerator(svc, nil)
	e.Retry = retry.Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		Multiplier:     2.0,
	}
	return e, srv
}

func TestPlaylistVideos_PaginationAndDetails(t *testing.T) {
	e, _ := newTestEnumerator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/playlistItems"):
			if got := r.URL.Query().Get("playlistId"); got != "UUtest" {
				t.Errorf("playlistId = %q, want UUtest", got)
			}
			if r.URL.Query().Get("pageToken") == "" {
				fmt.Fprint(w, `{
					"nextPageToken": "page2",
					"items": [
						{"snippet": {"title": "First"}, "contentDetails": {"videoId": "vid1", "videoPublishedAt": "2025-06-01T10:00:00Z"}},
						{"snippet": {"title": "Second"}, "contentDetails": {"videoId": "vid2", "videoPublishedAt": "2025-05-01T10:00:00Z"}}
					]
				}`)
				return
			}
			fmt.Fprint(w, `{
				"items": [
					{"snippet": {"title": "Third"}, "contentDetails": {"videoId": "vid3", "videoPublishedAt": "2025-04-01T10:00:00Z"}}
				]
			}`)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			ids := r.URL.Query().Get("id")
			for _, id := range []string{"vid1", "vid2", "vid3"} {
				if !strings.Contains(ids, id) {
					t.Errorf("videos.list id param %q missing %s", ids, id)
				}
			}
			fmt.Fprint(w, `{
				"items": [
					{"id": "vid1", "contentDetails": {"duration": "PT10M"}, "status": {"privacyStatus": "public"}},
					{"id": "vid2", "contentDetails": {"duration": "PT1H5S"}, "status": {"privacyStatus": "unlisted"}},
					{"id": "vid3", "contentDetails": {"duration": "PT30S"}, "status": {"privacyStatus": "public"}}
				]
			}`)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	videos, err := e.PlaylistVideos(context.Background(), "UUtest")
	if err != nil {
		t.Fatalf("PlaylistVideos() error = %v", err)
	}

	if len(videos) != 3 {
		t.Fatalf("PlaylistVideos() returned %d videos, want 3", len(videos))
	}

	want := []Video{
		{ID: "vid1", Title: "First", Published: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Privacy: PrivacyPublic, Duration: 600},
		{ID: "vid2", Title: "Second", Published: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), Privacy: PrivacyUnlisted, Duration: 3605},
		{ID: "vid3", Title: "Third", Published: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), Privacy: PrivacyPublic, Duration: 30},
	}
	for i, w := range want {
		if videos[i] != w {
			t.Errorf("videos[%d] = %+v, want %+v", i, videos[i], w)
		}
	}
}

func TestPlaylistVideos_DropsVideosWithoutDetails(t *testing.T) {
	e, _ := newTestEnumerator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/playlistItems"):
			fmt.Fprint(w, `{
				"items": [
					{"snippet": {"title": "Kept"}, "contentDetails": {"videoId": "vid1", "videoPublishedAt": "2025-06-01T10:00:00Z"}},
					{"snippet": {"title": "Deleted upstream"}, "contentDetails": {"videoId": "vid2", "videoPublishedAt": "2025-05-01T10:00:00Z"}}
				]
			}`)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			fmt.Fprint(w, `{
				"items": [
					{"id": "vid1", "contentDetails": {"duration": "PT5M"}, "status": {"privacyStatus": "public"}}
				]
			}`)
		}
	}))

	videos, err := e.PlaylistVideos(context.Background(), "UUtest")
	if err != nil {
		t.Fatalf("PlaylistVideos() error = %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "vid1" {
		t.Errorf("PlaylistVideos() = %+v, want only vid1", videos)
	}
}

func TestPlaylistVideos_QuotaExhaustedIsFatal(t *testing.T) {
	calls := 0
	e, _ := newTestEnumerator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota", "errors": [{"reason": "quotaExceeded", "message": "quota"}]}}`)
	}))

	_, err := e.PlaylistVideos(context.Background(), "UUtest")
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("PlaylistVideos() error = %v, want ErrQuotaExhausted", err)
	}
	if calls != 1 {
		t.Errorf("quota errors were retried %d times, want a single attempt", calls)
	}
}

func TestChannelVideos_NotFound(t *testing.T) {
	e, _ := newTestEnumerator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	}))

	_, err := e.ChannelVideos(context.Background(), "https://www.youtube.com/@NoSuchChannel")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ChannelVideos() error = %v, want ErrNotFound", err)
	}

	var listerErr *ListerError
	if !errors.As(err, &listerErr) {
		t.Fatalf("ChannelVideos() error = %T, want *ListerError", err)
	}
}

func TestResolveChannelID_DirectID(t *testing.T) {
	e := NewAPIEnumerator(nil, nil)

	tests := []struct {
		input string
		want  string
	}{
		{"UCX6OQ3DkcsbYNE6H8uQQuVA", "UCX6OQ3DkcsbYNE6H8uQQuVA"},
		{"https://www.youtube.com/channel/UCX6OQ3DkcsbYNE6H8uQQuVA", "UCX6OQ3DkcsbYNE6H8uQQuVA"},
		{"https://www.youtube.com/channel/UCX6OQ3DkcsbYNE6H8uQQuVA/videos", "UCX6OQ3DkcsbYNE6H8uQQuVA"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := e.resolveChannelID(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("resolveChannelID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("resolveChannelID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveChannelID_Invalid(t *testing.T) {
	e := NewAPIEnumerator(nil, nil)

	_, err := e.resolveChannelID(context.Background(), "https://example.com/watch?v=abc")
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("resolveChannelID() error = %v, want ErrInvalidURL", err)
	}
}

func TestResolveChannelID_Handle(t *testing.T) {
	e, _ := newTestEnumerator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "@SomePodcast" {
			t.Errorf("q = %q, want @SomePodcast", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [{"snippet": {"channelId": "UCX6OQ3DkcsbYNE6H8uQQuVA"}}]}`)
	}))

	got, err := e.resolveChannelID(context.Background(), "https://www.youtube.com/@SomePodcast")
	if err != nil {
		t.Fatalf("resolveChannelID() error = %v", err)
	}
	if got != "UCX6OQ3DkcsbYNE6H8uQQuVA" {
		t.Errorf("resolveChannelID() = %q, want UCX6OQ3DkcsbYNE6H8uQQuVA", got)
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", ErrNotFound, false},
		{"quota exhausted", fmt.Errorf("%w: details", ErrQuotaExhausted), false},
		{"invalid url", ErrInvalidURL, false},
		{"rate limit reason", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}, true},
		{"user rate limit reason", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"forbidden without reason", &googleapi.Error{Code: 403}, false},
		{"network error", errors.New("connection reset"), true},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorClassifier(tt.err); got != tt.want {
				t.Errorf("apiErrorClassifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapAPIError(t *testing.T) {
	quotaErr := &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}
	if !errors.Is(wrapAPIError(quotaErr), ErrQuotaExhausted) {
		t.Error("wrapAPIError(quotaExceeded) does not wrap ErrQuotaExhausted")
	}

	missingErr := &googleapi.Error{Code: 404, Errors: []googleapi.ErrorItem{{Reason: "playlistNotFound"}}}
	if !errors.Is(wrapAPIError(missingErr), ErrNotFound) {
		t.Error("wrapAPIError(playlistNotFound) does not wrap ErrNotFound")
	}

	plain := errors.New("boom")
	if wrapAPIError(plain) != plain {
		t.Error("wrapAPIError() should pass through non-API errors")
	}
}
