// Package youtube provides an authenticated YouTube Data API v3 client for
// subscription and playlist operations.
package youtube

import (
	"errors"
	"time"
)

// WatchLaterPlaylistID is the magic playlist ID YouTube uses for the built-in
// Watch Later list.
const WatchLaterPlaylistID = "WL"

// Sentinel errors for API operations.
var (
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrRateLimited     = errors.New("youtube: rate limited")
	ErrNetworkTimeout  = errors.New("youtube: network timeout")
	ErrDuplicateVideo  = errors.New("youtube: video already in playlist")
)

// Channel is a subscribed channel together with its resolved uploads playlist.
// Immutable once fetched for the lifetime of a cache entry.
type Channel struct {
	// ID is the YouTube channel ID (e.g., "UCuAXFkgsw1L7xaCfnd5JJOw").
	ID string `json:"id"`

	// Title is the display name of the channel.
	Title string `json:"title"`

	// UploadsPlaylistID is the channel's uploads playlist. The subscription
	// listing endpoint does not include it; it is resolved via a second
	// per-channel lookup.
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

// Video is a reference to a single video. Equality is by ID; two values with
// the same ID refer to the same video regardless of other fields.
type Video struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Published is when the video was published.
	Published time.Time `json:"published"`
}

// URL returns the full YouTube URL for this video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// Playlist is one of the user's own playlists, used when selecting the
// destination for discovered videos.
type Playlist struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// APIError wraps Data API errors with context about what failed.
// Use errors.As() to extract this error type and get operation details:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("Failed to %s %s: %v\n", apiErr.Op, apiErr.Resource, apiErr.Err)
//	}
type APIError struct {
	// Op is the API operation that failed ("list", "insert", "resolve").
	Op string
	// Resource is the channel, playlist, or video the operation targeted.
	Resource string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the API error.
func (e *APIError) Error() string {
	if e.Resource != "" {
		return "youtube: " + e.Op + " " + e.Resource + ": " + e.Err.Error()
	}
	return "youtube: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *APIError) Unwrap() error { return e.Err }
