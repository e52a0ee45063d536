package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"wlsync/youtube"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFileStore_LockHeld(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer store.Close()

	if _, err := NewFileStore(dir); !errors.Is(err, ErrLockHeld) {
		t.Errorf("second NewFileStore() error = %v, want ErrLockHeld", err)
	}
}

func TestFileStore_LockReleasedOnClose(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	store.Close()

	store2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() after Close() error = %v", err)
	}
	store2.Close()
}

func TestFileStore_SubscriptionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadSubscriptions(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSubscriptions() on empty store error = %v, want ErrNotFound", err)
	}

	channels := []youtube.Channel{
		{ID: "UC111", Title: "First", UploadsPlaylistID: "UU111"},
		{ID: "UC222", Title: "Second", UploadsPlaylistID: "UU222"},
	}
	if err := store.SaveSubscriptions(ctx, channels); err != nil {
		t.Fatalf("SaveSubscriptions() error = %v", err)
	}

	cache, err := store.LoadSubscriptions(ctx)
	if err != nil {
		t.Fatalf("LoadSubscriptions() error = %v", err)
	}
	if len(cache.Channels) != 2 {
		t.Fatalf("loaded %d channels, want 2", len(cache.Channels))
	}
	if cache.Channels[0].ID != "UC111" || cache.Channels[1].ID != "UC222" {
		t.Errorf("channel order not preserved: %+v", cache.Channels)
	}
	if cache.LastUpdate.IsZero() {
		t.Error("LastUpdate was not stamped")
	}
	if !cache.Consistent() {
		t.Error("Consistent() = false for fully resolved entry")
	}
}

func TestSubscriptionCache_Stale(t *testing.T) {
	now := time.Now().UTC()
	maxAge := 14 * 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"10 days old", 10 * 24 * time.Hour, false},
		{"15 days old", 15 * 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &SubscriptionCache{LastUpdate: now.Add(-tt.age)}
			if got := cache.Stale(now, maxAge); got != tt.want {
				t.Errorf("Stale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionCache_Consistent(t *testing.T) {
	cache := &SubscriptionCache{Channels: []youtube.Channel{
		{ID: "UC111", UploadsPlaylistID: "UU111"},
		{ID: "UC222"},
	}}
	if cache.Consistent() {
		t.Error("Consistent() = true with unresolved uploads reference")
	}
}

func TestFileStore_RunRecordRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadRunRecord(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadRunRecord() on empty store error = %v, want ErrNotFound", err)
	}

	found := []youtube.Video{
		{ID: "vidA", Published: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "vidB", Published: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)},
		{ID: "vidA", Published: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	record := NewRunRecord(found)
	if err := store.SaveRunRecord(ctx, record); err != nil {
		t.Fatalf("SaveRunRecord() error = %v", err)
	}

	loaded, err := store.LoadRunRecord(ctx)
	if err != nil {
		t.Fatalf("LoadRunRecord() error = %v", err)
	}

	set := loaded.FoundSet()
	if len(set) != 2 || !set["vidA"] || !set["vidB"] {
		t.Errorf("FoundSet() = %v, want {vidA, vidB}", set)
	}
	if len(loaded.FoundVideos) != 2 {
		t.Errorf("duplicate input not deduplicated: %d videos", len(loaded.FoundVideos))
	}
	if loaded.RunID != record.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, record.RunID)
	}
	if !loaded.LastRun.Equal(record.LastRun) {
		t.Errorf("LastRun = %v, want %v", loaded.LastRun, record.LastRun)
	}
}

func TestFileStore_RunRecordReplacedWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewRunRecord([]youtube.Video{{ID: "old"}})
	if err := store.SaveRunRecord(ctx, first); err != nil {
		t.Fatalf("SaveRunRecord() error = %v", err)
	}

	second := NewRunRecord([]youtube.Video{{ID: "new"}})
	if err := store.SaveRunRecord(ctx, second); err != nil {
		t.Fatalf("SaveRunRecord() error = %v", err)
	}

	loaded, err := store.LoadRunRecord(ctx)
	if err != nil {
		t.Fatalf("LoadRunRecord() error = %v", err)
	}
	if set := loaded.FoundSet(); set["old"] || !set["new"] {
		t.Errorf("records merged instead of replaced: %v", set)
	}
}

func TestFileStore_LegacyRunRecordUpgrade(t *testing.T) {
	lastRun := time.Date(2023, 11, 2, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		data string
	}{
		{"object without found set", `{"last_run": "2023-11-02T09:30:00Z"}`},
		{"bare timestamp", `"2023-11-02T09:30:00Z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			path := filepath.Join(store.Dir(), runRecordFile)
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatalf("write legacy record: %v", err)
			}

			loaded, err := store.LoadRunRecord(ctx)
			if err != nil {
				t.Fatalf("LoadRunRecord() error = %v", err)
			}
			if !loaded.LastRun.Equal(lastRun) {
				t.Errorf("LastRun = %v, want %v", loaded.LastRun, lastRun)
			}
			if len(loaded.FoundVideos) != 0 {
				t.Errorf("legacy upgrade produced non-empty found-set: %v", loaded.FoundVideos)
			}
			if loaded.Version != schemaVersion {
				t.Errorf("Version = %d, want %d", loaded.Version, schemaVersion)
			}
		})
	}
}

func TestFileStore_CorruptRunRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(store.Dir(), runRecordFile)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt record: %v", err)
	}

	if _, err := store.LoadRunRecord(ctx); !errors.Is(err, ErrStorageCorrupt) {
		t.Errorf("LoadRunRecord() error = %v, want ErrStorageCorrupt", err)
	}
}

func TestFileStore_PlaylistRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadPlaylist(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadPlaylist() on empty store error = %v, want ErrNotFound", err)
	}

	if err := store.SavePlaylist(ctx, "", "nameless"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SavePlaylist() with empty id error = %v, want ErrInvalidInput", err)
	}

	if err := store.SavePlaylist(ctx, "PL123", "Later Tonight"); err != nil {
		t.Fatalf("SavePlaylist() error = %v", err)
	}

	selection, err := store.LoadPlaylist(ctx)
	if err != nil {
		t.Fatalf("LoadPlaylist() error = %v", err)
	}
	if selection.ID != "PL123" || selection.Title != "Later Tonight" {
		t.Errorf("selection = %+v, want PL123 / Later Tonight", selection)
	}
}

func TestAtomicWriter_AbortLeavesOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	writer, err := NewAtomicWriter(path)
	if err != nil {
		t.Fatalf("NewAtomicWriter() error = %v", err)
	}
	if _, err := writer.Write([]byte("partial")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Abort(); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "old" {
		t.Errorf("target content = %q, want old file intact", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file not cleaned up: %d entries", len(entries))
	}
}

func TestAtomicWriter_CommitReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	writer, err := NewAtomicWriter(path)
	if err != nil {
		t.Fatalf("NewAtomicWriter() error = %v", err)
	}
	if _, err := writer.Write([]byte("new")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("target content = %q, want %q", data, "new")
	}
}
