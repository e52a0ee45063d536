package youtube

import (
	"context"
	"errors"
	"strings"
	"time"
	"wlsync/retry"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

const subscriptionPageSize = 50

// Client wraps an authenticated YouTube Data API v3 service with rate
// limiting and retry logic. All calls share one token bucket so that bursts
// of per-channel lookups stay within YouTube's request limits.
type Client struct {
	service     *youtube.Service
	limiter     *rate.Limiter
	RetryConfig retry.Config
}

// NewClient creates a client around an authenticated service handle.
// requestRate is the sustained request rate in calls per second; zero or
// negative disables rate limiting.
func NewClient(service *youtube.Service, requestRate float64) *Client {
	var limiter *rate.Limiter
	if requestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestRate), 1)
	}
	return &Client{
		service:     service,
		limiter:     limiter,
		RetryConfig: retry.DefaultConfig(),
	}
}

// wait blocks until the rate limiter permits the next request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) do(ctx context.Context, fn func(context.Context) error) error {
	return retry.Do(ctx, c.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return ErrNetworkTimeout
			}
			return err
		}
		return nil
	})
}

// ListSubscriptions enumerates all of the caller's channel subscriptions via
// paginated listing, accumulating items until no continuation token is
// returned. The uploads playlist reference is not resolved here; see
// ResolveUploads.
func (c *Client) ListSubscriptions(ctx context.Context) ([]Channel, error) {
	var channels []Channel

	pageToken := ""
	for {
		err := c.do(ctx, func(ctx context.Context) error {
			call := c.service.Subscriptions.List([]string{"snippet"}).
				Mine(true).
				MaxResults(subscriptionPageSize).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}

			for _, item := range resp.Items {
				if item.Snippet == nil || item.Snippet.ResourceId == nil {
					continue
				}
				channels = append(channels, Channel{
					ID:    item.Snippet.ResourceId.ChannelId,
					Title: item.Snippet.Title,
				})
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, &APIError{Op: "list", Resource: "subscriptions", Err: err}
		}

		if pageToken == "" {
			break
		}
	}

	return channels, nil
}

// ResolveUploads looks up the uploads playlist ID for a channel.
func (c *Client) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	var playlistID string

	err := c.do(ctx, func(ctx context.Context) error {
		call := c.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}

		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		details := resp.Items[0].ContentDetails
		if details == nil || details.RelatedPlaylists == nil {
			return ErrChannelNotFound
		}
		playlistID = details.RelatedPlaylists.Uploads
		return nil
	})
	if err != nil {
		return "", &APIError{Op: "resolve", Resource: channelID, Err: err}
	}

	return playlistID, nil
}

// RecentUploads fetches the most recent uploads from a channel's uploads
// playlist. The API returns uploads newest first, so a single page of max
// results is enough; there is no pagination loop.
func (c *Client) RecentUploads(ctx context.Context, uploadsPlaylistID string, max int64) ([]Video, error) {
	var videos []Video

	err := c.do(ctx, func(ctx context.Context) error {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(max).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}

		videos = videos[:0]
		for _, item := range resp.Items {
			if item.ContentDetails == nil {
				continue
			}
			video := Video{ID: item.ContentDetails.VideoId}
			if t, err := time.Parse(time.RFC3339, item.ContentDetails.VideoPublishedAt); err == nil {
				video.Published = t
			}
			videos = append(videos, video)
		}
		return nil
	})
	if err != nil {
		return nil, &APIError{Op: "list", Resource: uploadsPlaylistID, Err: err}
	}

	return videos, nil
}

// InsertPlaylistItem adds a video to the given playlist. A rejected insert
// for a video that is already present surfaces as ErrDuplicateVideo.
// Inserts are not retried: a duplicate rejection is permanent, and retrying
// an ambiguous failure risks double insertion.
func (c *Client) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	call := c.service.PlaylistItems.Insert([]string{"snippet"}, &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}).Context(ctx)

	if _, err := call.Do(); err != nil {
		if isDuplicateInsert(err) {
			return &APIError{Op: "insert", Resource: videoID, Err: ErrDuplicateVideo}
		}
		return &APIError{Op: "insert", Resource: videoID, Err: err}
	}
	return nil
}

// UserPlaylists enumerates the caller's own playlists.
func (c *Client) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist

	pageToken := ""
	for {
		err := c.do(ctx, func(ctx context.Context) error {
			call := c.service.Playlists.List([]string{"snippet"}).
				Mine(true).
				MaxResults(subscriptionPageSize).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}

			for _, item := range resp.Items {
				pl := Playlist{ID: item.Id}
				if item.Snippet != nil {
					pl.Title = item.Snippet.Title
				}
				playlists = append(playlists, pl)
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, &APIError{Op: "list", Resource: "playlists", Err: err}
		}

		if pageToken == "" {
			break
		}
	}

	return playlists, nil
}

// isDuplicateInsert reports whether an insert rejection means the video is
// already present in the target playlist.
func isDuplicateInsert(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == 409 {
		return true
	}
	for _, item := range gerr.Errors {
		if item.Reason == "videoAlreadyInPlaylist" || strings.Contains(item.Reason, "duplicate") {
			return true
		}
	}
	return false
}

// apiErrorClassifier determines if an API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrChannelNotFound), errors.Is(err, ErrDuplicateVideo):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		// Rate limit errors are retryable
		if gerr.Code == 429 {
			return true
		}
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "quotaExceeded" {
				return true
			}
		}
		// Other client errors are permanent
		if gerr.Code >= 400 && gerr.Code < 500 {
			return false
		}
		return gerr.Code >= 500
	}

	// Default to retryable for transport-level errors
	return true
}

// Quota is the estimated cost of one full synchronization pass, useful when
// sizing the daily API budget.
func Quota(channels int) int {
	// subscriptions.list pages + channels.list and playlistItems.list per
	// channel, each costing one unit.
	pages := channels/subscriptionPageSize + 1
	return pages + 2*channels
}
