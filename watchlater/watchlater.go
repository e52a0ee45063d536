// Package watchlater implements the incremental synchronization engine: it
// maintains a TTL-bounded subscription cache, scans each subscribed channel
// for uploads published since the previous run, deduplicates them against
// the previous run's found-set, inserts the remainder into the destination
// playlist, and persists the run state for the next invocation.
package watchlater

import (
	"context"
	"wlsync/youtube"
)

// API is the narrow surface of the remote platform the engine consumes.
// *youtube.Client satisfies it; tests substitute mocks.
type API interface {
	// ListSubscriptions enumerates the caller's subscriptions, uploads
	// references unresolved.
	ListSubscriptions(ctx context.Context) ([]youtube.Channel, error)

	// ResolveUploads looks up the uploads playlist ID for a channel.
	ResolveUploads(ctx context.Context, channelID string) (string, error)

	// RecentUploads fetches a channel's most recent uploads, newest first,
	// bounded by max.
	RecentUploads(ctx context.Context, uploadsPlaylistID string, max int64) ([]youtube.Video, error)

	// InsertPlaylistItem adds a video to a playlist.
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error

	// UserPlaylists enumerates the caller's own playlists.
	UserPlaylists(ctx context.Context) ([]youtube.Playlist, error)
}

// FailurePolicy controls how a single channel's scan failure affects the run.
type FailurePolicy int

const (
	// SkipFailedChannels logs the failure, drops that channel's
	// contribution, and continues the run.
	SkipFailedChannels FailurePolicy = iota
	// AbortOnChannelError fails the whole run on the first channel error.
	AbortOnChannelError
)

// ChannelError records one channel whose scan failed during a run.
type ChannelError struct {
	// Channel is the channel that could not be scanned.
	Channel youtube.Channel
	// Err is the underlying scan error.
	Err error
}

// Error returns a string representation of the channel error.
func (e *ChannelError) Error() string {
	return "watchlater: scan " + e.Channel.ID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *ChannelError) Unwrap() error { return e.Err }
