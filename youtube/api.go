package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"ytfetch/retry"
)

// channelIDRegex matches canonical channel IDs ("UC" + 22 chars).
var channelIDRegex = regexp.MustCompile(`UC[0-9A-Za-z_-]{22}`)

// detailBatchSize is the Data API limit on ids per videos.list call.
const detailBatchSize = 50

// APIEnumerator lists videos for a channel or playlist using the YouTube
// Data API v3. Listing calls are retried on transient failures; unresolvable
// identifiers and daily quota exhaustion are permanent and abort enumeration.
type APIEnumerator struct {
	service *youtube.Service
	logger  *zap.Logger

	// Retry is the policy applied to each individual API call.
	Retry retry.Config
}

// NewAPIEnumerator creates an enumerator on top of an existing API service.
func NewAPIEnumerator(service *youtube.Service, logger *zap.Logger) *APIEnumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIEnumerator{
		service: service,
		logger:  logger,
		Retry:   retry.DefaultConfig(),
	}
}

// ChannelVideos enumerates all videos of a channel, newest first, by walking
// the channel's uploads playlist.
func (a *APIEnumerator) ChannelVideos(ctx context.Context, channelURL string) ([]Video, error) {
	channelID, err := a.resolveChannelID(ctx, channelURL)
	if err != nil {
		return nil, &ListerError{Source: channelURL, Err: err}
	}
	a.logger.Info("resolved channel", zap.String("channel_id", channelID))

	uploads, err := a.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, &ListerError{Source: channelURL, Err: err}
	}

	return a.PlaylistVideos(ctx, uploads)
}

// PlaylistVideos enumerates all videos of a playlist in upstream order,
// following pagination until the API reports no further pages. Duration and
// privacy status are resolved with batched detail lookups before returning.
func (a *APIEnumerator) PlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	var listed []Video

	pageToken := ""
	for {
		err := retry.Do(ctx, a.Retry, apiErrorClassifier, func(ctx context.Context) error {
			call := a.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(50).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return wrapAPIError(err)
			}

			for _, item := range resp.Items {
				if item.ContentDetails == nil {
					continue
				}
				v := Video{ID: item.ContentDetails.VideoId}
				if item.Snippet != nil {
					v.Title = item.Snippet.Title
				}
				// contentDetails.videoPublishedAt is the actual publish
				// time; snippet.publishedAt is when the item was added
				// to the playlist.
				published := item.ContentDetails.VideoPublishedAt
				if published == "" && item.Snippet != nil {
					published = item.Snippet.PublishedAt
				}
				if t, err := time.Parse(time.RFC3339, published); err == nil {
					v.Published = t.UTC()
				}
				listed = append(listed, v)
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, &ListerError{Source: playlistID, Err: err}
		}

		a.logger.Debug("fetched playlist page", zap.Int("total", len(listed)))
		if pageToken == "" {
			break
		}
	}

	videos, err := a.resolveDetails(ctx, listed)
	if err != nil {
		return nil, &ListerError{Source: playlistID, Err: err}
	}
	return videos, nil
}

// resolveDetails fills in duration and privacy status via videos.list,
// batching ids up to the API limit. Videos absent from the detail response
// (deleted or hidden upstream) are dropped.
func (a *APIEnumerator) resolveDetails(ctx context.Context, listed []Video) ([]Video, error) {
	type detail struct {
		duration int
		privacy  Privacy
	}
	details := make(map[string]detail, len(listed))

	for start := 0; start < len(listed); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(listed) {
			end = len(listed)
		}
		ids := make([]string, 0, end-start)
		for _, v := range listed[start:end] {
			ids = append(ids, v.ID)
		}

		err := retry.Do(ctx, a.Retry, apiErrorClassifier, func(ctx context.Context) error {
			call := a.service.Videos.List([]string{"contentDetails", "status"}).
				Id(strings.Join(ids, ",")).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return wrapAPIError(err)
			}

			for _, item := range resp.Items {
				d := detail{}
				if item.ContentDetails != nil {
					d.duration = parseISODuration(item.ContentDetails.Duration)
				}
				if item.Status != nil {
					d.privacy = Privacy(item.Status.PrivacyStatus)
				}
				details[item.Id] = d
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	videos := make([]Video, 0, len(listed))
	for _, v := range listed {
		d, ok := details[v.ID]
		if !ok {
			a.logger.Debug("no details for video, dropping", zap.String("video_id", v.ID))
			continue
		}
		v.Duration = d.duration
		v.Privacy = d.privacy
		videos = append(videos, v)
	}
	return videos, nil
}

// resolveChannelID converts a channel URL, handle, or bare ID to a channel ID.
func (a *APIEnumerator) resolveChannelID(ctx context.Context, input string) (string, error) {
	if id := channelIDRegex.FindString(input); id != "" {
		return id, nil
	}

	// Handle URLs: https://www.youtube.com/@Name or a bare @Name.
	if idx := strings.Index(input, "/@"); idx != -1 {
		return a.searchChannel(ctx, "@"+trimPathSegment(input[idx+2:]))
	}
	if strings.HasPrefix(input, "@") {
		return a.searchChannel(ctx, input)
	}

	// Legacy custom URLs: /c/Name or /user/Name.
	for _, prefix := range []string{"/c/", "/user/"} {
		if idx := strings.Index(input, prefix); idx != -1 {
			return a.searchChannel(ctx, trimPathSegment(input[idx+len(prefix):]))
		}
	}

	return "", fmt.Errorf("%w: cannot resolve channel from %q", ErrInvalidURL, input)
}

// trimPathSegment cuts off anything after the first "/" or "?".
func trimPathSegment(s string) string {
	if idx := strings.IndexAny(s, "/?"); idx != -1 {
		return s[:idx]
	}
	return s
}

// searchChannel finds a channel ID by handle or custom name via search.list.
func (a *APIEnumerator) searchChannel(ctx context.Context, query string) (string, error) {
	var channelID string

	err := retry.Do(ctx, a.Retry, apiErrorClassifier, func(ctx context.Context) error {
		call := a.service.Search.List([]string{"snippet"}).
			Q(query).
			Type("channel").
			MaxResults(1).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return wrapAPIError(err)
		}

		if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
			return fmt.Errorf("%w: no channel matches %q", ErrNotFound, query)
		}
		channelID = resp.Items[0].Snippet.ChannelId
		return nil
	})
	if err != nil {
		return "", err
	}
	return channelID, nil
}

// uploadsPlaylistID looks up the uploads playlist for a channel.
func (a *APIEnumerator) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	var playlistID string

	err := retry.Do(ctx, a.Retry, apiErrorClassifier, func(ctx context.Context) error {
		call := a.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return wrapAPIError(err)
		}

		if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
			return fmt.Errorf("%w: channel %s", ErrNotFound, channelID)
		}
		playlistID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
		return nil
	})
	if err != nil {
		return "", err
	}
	return playlistID, nil
}

// wrapAPIError maps Data API error reasons onto our sentinels so callers can
// distinguish fatal conditions from transient ones.
func wrapAPIError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	for _, e := range gerr.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded":
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		case "playlistNotFound", "channelNotFound", "notFound", "videoNotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	if gerr.Code == 404 {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// apiErrorClassifier marks per-second rate limits and server errors as
// retryable. Quota exhaustion is permanent: the daily budget resets at
// midnight Pacific, not within this run.
func apiErrorClassifier(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrQuotaExhausted) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, e := range gerr.Errors {
			if e.Reason == "rateLimitExceeded" || e.Reason == "userRateLimitExceeded" {
				return true
			}
		}
		return gerr.Code == 429 || gerr.Code >= 500
	}

	return retry.IsRetryable(err)
}
