package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"wlsync/youtube"

	"github.com/gofrs/flock"
)

// Record file names inside the state directory.
const (
	subscriptionsFile = "subscriptions.json"
	runRecordFile     = "last_run.json"
	playlistFile      = "dest_playlist.json"
	lockFile          = ".lock"
)

// FileStore implements Store on top of a state directory, one JSON file per
// record. Every write goes through AtomicWriter, so a crash mid-write leaves
// the previous record intact. An exclusive flock on the directory is held
// for the store's lifetime; a second concurrent run fails fast with
// ErrLockHeld instead of racing on the files.
type FileStore struct {
	dir  string
	lock *flock.Flock
}

// NewFileStore opens (creating if needed) the state directory and acquires
// its exclusive lock.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &StorageError{Op: "open", Record: "state dir", Err: err}
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, &StorageError{Op: "lock", Record: "state dir", Err: err}
	}
	if !locked {
		return nil, &StorageError{Op: "lock", Record: "state dir", Err: ErrLockHeld}
	}

	return &FileStore{dir: dir, lock: lock}, nil
}

// Dir returns the state directory path.
func (s *FileStore) Dir() string { return s.dir }

// Close releases the state directory lock.
func (s *FileStore) Close() error {
	return s.lock.Unlock()
}

// LoadSubscriptions retrieves the cached subscription entry.
func (s *FileStore) LoadSubscriptions(ctx context.Context) (*SubscriptionCache, error) {
	data, err := s.read(subscriptionsFile)
	if err != nil {
		return nil, &StorageError{Op: "read", Record: "subscriptions", Err: err}
	}

	cache := &SubscriptionCache{}
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, &StorageError{Op: "read", Record: "subscriptions", Err: ErrStorageCorrupt}
	}
	return cache, nil
}

// SaveSubscriptions replaces the subscription cache wholesale.
func (s *FileStore) SaveSubscriptions(ctx context.Context, channels []youtube.Channel) error {
	cache := &SubscriptionCache{
		Version:    schemaVersion,
		LastUpdate: time.Now().UTC(),
		Channels:   channels,
	}
	return s.write("subscriptions", subscriptionsFile, cache)
}

// LoadRunRecord retrieves the last run record, upgrading legacy layouts.
func (s *FileStore) LoadRunRecord(ctx context.Context) (*RunRecord, error) {
	data, err := s.read(runRecordFile)
	if err != nil {
		return nil, &StorageError{Op: "read", Record: "run_record", Err: err}
	}

	record, err := decodeRunRecord(data)
	if err != nil {
		return nil, &StorageError{Op: "read", Record: "run_record", Err: err}
	}
	return record, nil
}

// SaveRunRecord replaces the run record wholesale.
func (s *FileStore) SaveRunRecord(ctx context.Context, record *RunRecord) error {
	if record == nil {
		return &StorageError{Op: "write", Record: "run_record", Err: ErrInvalidInput}
	}
	return s.write("run_record", runRecordFile, record)
}

// LoadPlaylist retrieves the destination playlist selection.
func (s *FileStore) LoadPlaylist(ctx context.Context) (*PlaylistSelection, error) {
	data, err := s.read(playlistFile)
	if err != nil {
		return nil, &StorageError{Op: "read", Record: "playlist", Err: err}
	}

	selection := &PlaylistSelection{}
	if err := json.Unmarshal(data, selection); err != nil {
		return nil, &StorageError{Op: "read", Record: "playlist", Err: ErrStorageCorrupt}
	}
	return selection, nil
}

// SavePlaylist replaces the destination playlist selection.
func (s *FileStore) SavePlaylist(ctx context.Context, id, title string) error {
	if id == "" {
		return &StorageError{Op: "write", Record: "playlist", Err: ErrInvalidInput}
	}
	selection := &PlaylistSelection{
		Version:    schemaVersion,
		LastUpdate: time.Now().UTC(),
		ID:         id,
		Title:      title,
	}
	return s.write("playlist", playlistFile, selection)
}

func (s *FileStore) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) write(record, name string, v any) error {
	writer, err := NewAtomicWriter(filepath.Join(s.dir, name))
	if err != nil {
		return &StorageError{Op: "write", Record: record, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Record: record, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Record: record, Err: err}
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// DefaultStateDir returns the conventional state directory,
// $HOME/.config/wlsync.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wlsync"), nil
}
