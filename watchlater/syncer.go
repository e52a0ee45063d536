package watchlater

import (
	"context"
	"errors"
	"log/slog"
	"wlsync/youtube"
)

// Syncer inserts candidate videos into the destination playlist, skipping
// those already recorded as found on the previous run.
type Syncer struct {
	api    API
	logger *slog.Logger
}

// NewSyncer creates a syncer.
func NewSyncer(api API, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{api: api, logger: logger}
}

// Sync processes candidates in order: a video whose ID is in previousFound
// is skipped without an API call; the rest are inserted one at a time.
// An individual insertion failure counts as skipped and the batch continues;
// this is best-effort with partial-failure tolerance, not a transaction.
// Insertions are sequential because each one may affect the ordering of the
// destination playlist.
func (s *Syncer) Sync(ctx context.Context, candidates []youtube.Video, previousFound map[string]bool, playlistID string) (added, skipped int) {
	for _, video := range candidates {
		if previousFound[video.ID] {
			s.logger.Debug("found on previous run, skipping", slog.String("video", video.ID))
			skipped++
			continue
		}

		if err := s.api.InsertPlaylistItem(ctx, playlistID, video.ID); err != nil {
			// Duplicates and other rejections are both counted as skipped
			// and never retried; only the log distinguishes them.
			if errors.Is(err, youtube.ErrDuplicateVideo) {
				s.logger.Debug("already in playlist", slog.String("video", video.ID))
			} else {
				s.logger.Warn("insert failed, counted as skipped",
					slog.String("video", video.ID),
					slog.Any("error", err))
			}
			skipped++
			continue
		}

		s.logger.Debug("added to playlist",
			slog.String("video", video.ID),
			slog.String("playlist", playlistID))
		added++
	}
	return added, skipped
}
