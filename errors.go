package wlsync

import (
	"wlsync/retry"
	"wlsync/storage"
	"wlsync/watchlater"
	"wlsync/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, wlsync.ErrDuplicateVideo) {
//		fmt.Println("Video already in the playlist")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var storageErr *wlsync.StorageError
//	if errors.As(err, &storageErr) {
//		fmt.Printf("%s on %s failed: %v\n", storageErr.Op, storageErr.Record, storageErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// APIError wraps errors from YouTube Data API calls.
	APIError = youtube.APIError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
	// ChannelError records a channel whose scan failed during a run.
	ChannelError = watchlater.ChannelError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the YouTube channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrRateLimited indicates the operation was rate limited or ran out of quota.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrDuplicateVideo indicates the playlist already contains the video.
	ErrDuplicateVideo = youtube.ErrDuplicateVideo

	// Storage errors
	// ErrNotFound indicates a record was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockHeld indicates another process holds the state directory lock.
	ErrLockHeld = storage.ErrLockHeld
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like ErrChannelNotFound.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
