// Package storage persists wlsync state between runs: the subscription
// cache, the last-run record, and the destination playlist selection. Each
// record is replaced wholesale with atomic semantics; there is no partial
// mutation.
package storage

import (
	"context"
	"errors"
	"fmt"
	"wlsync/youtube"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested record does not exist yet.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockHeld indicates another process holds the state lock.
	ErrLockHeld = errors.New("storage: state directory locked by another run")
)

// StorageError wraps storage errors with operation and record context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Record, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "lock").
	Op string
	// Record is the logical record ("subscriptions", "run_record", "playlist").
	Record string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Record, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// SubscriptionStore persists the cached subscription list.
type SubscriptionStore interface {
	// LoadSubscriptions retrieves the cached subscription entry.
	// Returns ErrNotFound if no cache has been written yet.
	LoadSubscriptions(ctx context.Context) (*SubscriptionCache, error)
	// SaveSubscriptions replaces the cache wholesale with the given channels,
	// stamped with the current time.
	SaveSubscriptions(ctx context.Context, channels []youtube.Channel) error
}

// RunStore persists the record of the previous run.
type RunStore interface {
	// LoadRunRecord retrieves the last run record.
	// Returns ErrNotFound if no run has completed yet.
	LoadRunRecord(ctx context.Context) (*RunRecord, error)
	// SaveRunRecord replaces the run record wholesale.
	SaveRunRecord(ctx context.Context, record *RunRecord) error
}

// PlaylistStore persists the destination playlist selection.
type PlaylistStore interface {
	// LoadPlaylist retrieves the selected destination playlist.
	// Returns ErrNotFound if no selection has been saved.
	LoadPlaylist(ctx context.Context) (*PlaylistSelection, error)
	// SavePlaylist replaces the destination playlist selection.
	SavePlaylist(ctx context.Context, id, title string) error
}

// Store is the combined storage interface one run operates against.
// Implementations must hold an exclusive lock for their lifetime so that
// concurrent runs cannot race on the persisted records.
type Store interface {
	SubscriptionStore
	RunStore
	PlaylistStore

	// Close releases the lock and any other resources held by the store.
	Close() error
}
