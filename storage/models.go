package storage

import (
	"encoding/json"
	"time"
	"wlsync/youtube"

	"github.com/google/uuid"
)

// schemaVersion is the current persisted record schema. Records written by
// older releases carry a lower (or absent) version and are upgraded at load.
const schemaVersion = 1

// SubscriptionCache is the persisted subscription list entry. It is created
// or replaced wholesale on a full refresh; it is never partially mutated.
type SubscriptionCache struct {
	// Version is the schema version this record was written with.
	Version int `json:"version"`
	// LastUpdate is when the cache was last rebuilt from the API.
	LastUpdate time.Time `json:"last_update"`
	// Channels is the subscription list in API enumeration order.
	Channels []youtube.Channel `json:"channels"`
}

// Stale reports whether the cache entry is older than maxAge at the given
// instant.
func (c *SubscriptionCache) Stale(now time.Time, maxAge time.Duration) bool {
	return c.LastUpdate.Before(now.Add(-maxAge))
}

// Consistent reports whether every cached channel has a resolved uploads
// playlist reference. Entries written before upload references were resolved
// at refresh time fail this check and force a rebuild.
func (c *SubscriptionCache) Consistent() bool {
	for _, ch := range c.Channels {
		if ch.UploadsPlaylistID == "" {
			return false
		}
	}
	return true
}

// RunRecord is the persisted state of one completed run: when it happened
// and the full set of videos found during it. Exactly one record exists;
// each run replaces it wholesale.
type RunRecord struct {
	// Version is the schema version this record was written with.
	Version int `json:"version"`
	// RunID identifies the run that wrote this record.
	RunID string `json:"run_id"`
	// LastRun is the instant the run completed. It becomes the next run's
	// boundary.
	LastRun time.Time `json:"last_run"`
	// FoundVideos is every video identified as new during the run,
	// independent of whether insertion succeeded.
	FoundVideos []youtube.Video `json:"found_videos"`
}

// NewRunRecord builds a record for a run completing now. The found list is
// deduplicated by video ID, keeping the first occurrence.
func NewRunRecord(found []youtube.Video) *RunRecord {
	seen := make(map[string]bool, len(found))
	videos := make([]youtube.Video, 0, len(found))
	for _, v := range found {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		videos = append(videos, v)
	}

	return &RunRecord{
		Version:     schemaVersion,
		RunID:       uuid.NewString(),
		LastRun:     time.Now().UTC(),
		FoundVideos: videos,
	}
}

// FoundSet returns the found videos as a set keyed by video ID.
func (r *RunRecord) FoundSet() map[string]bool {
	set := make(map[string]bool, len(r.FoundVideos))
	for _, v := range r.FoundVideos {
		set[v.ID] = true
	}
	return set
}

// legacyRunRecord is the pre-versioning layout: a bare timestamp with no
// found-set.
type legacyRunRecord struct {
	LastRun time.Time `json:"last_run"`
}

// decodeRunRecord parses a persisted run record, upgrading legacy layouts to
// the current schema. Records from the bare-timestamp era load with an empty
// found-set.
func decodeRunRecord(data []byte) (*RunRecord, error) {
	record := &RunRecord{}
	if err := json.Unmarshal(data, record); err == nil && record.Version >= 1 {
		if record.FoundVideos == nil {
			record.FoundVideos = []youtube.Video{}
		}
		record.Version = schemaVersion
		return record, nil
	}

	// Version 0: the record was an object with only last_run, or a bare
	// RFC3339 timestamp.
	legacy := legacyRunRecord{}
	if err := json.Unmarshal(data, &legacy); err == nil && !legacy.LastRun.IsZero() {
		return upgradeLegacy(legacy.LastRun), nil
	}

	var stamp time.Time
	if err := json.Unmarshal(data, &stamp); err == nil && !stamp.IsZero() {
		return upgradeLegacy(stamp), nil
	}

	return nil, ErrStorageCorrupt
}

func upgradeLegacy(lastRun time.Time) *RunRecord {
	return &RunRecord{
		Version:     schemaVersion,
		LastRun:     lastRun,
		FoundVideos: []youtube.Video{},
	}
}

// PlaylistSelection is the persisted destination playlist choice.
type PlaylistSelection struct {
	// Version is the schema version this record was written with.
	Version int `json:"version"`
	// LastUpdate is when the selection was made.
	LastUpdate time.Time `json:"last_update"`
	// ID is the playlist ID, or "WL" for the built-in Watch Later list.
	ID string `json:"id"`
	// Title is the playlist's display name at selection time.
	Title string `json:"title"`
}
