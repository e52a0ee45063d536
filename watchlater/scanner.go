package watchlater

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"wlsync/youtube"

	"golang.org/x/sync/errgroup"
)

// Scanner retrieves each channel's recent uploads and applies the
// time-boundary filter. Channels may be scanned concurrently; the
// concatenated output always follows the input channel order, never
// completion order.
type Scanner struct {
	api        API
	maxUploads int64
	workers    int
	policy     FailurePolicy
	logger     *slog.Logger
}

// NewScanner creates a scanner. workers bounds concurrent channel scans
// (1 = strictly sequential).
func NewScanner(api API, maxUploads, workers int, policy FailurePolicy, logger *slog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		api:        api,
		maxUploads: int64(maxUploads),
		workers:    workers,
		policy:     policy,
		logger:     logger,
	}
}

// Scan fetches recent uploads for every channel and returns the candidates
// that pass the boundary filter, concatenated in channel order, together
// with the per-channel failures that were skipped. Under
// AbortOnChannelError the first failure fails the scan.
func (s *Scanner) Scan(ctx context.Context, channels []youtube.Channel, boundary time.Time, buffer time.Duration) ([]youtube.Video, []ChannelError, error) {
	results := make([][]youtube.Video, len(channels))

	var mu sync.Mutex
	var failures []ChannelError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, ch := range channels {
		g.Go(func() error {
			uploads, err := s.api.RecentUploads(gctx, ch.UploadsPlaylistID, s.maxUploads)
			if err != nil {
				if s.policy == AbortOnChannelError {
					return fmt.Errorf("scan %s: %w", ch.ID, err)
				}
				s.logger.Warn("channel scan failed, skipping",
					slog.String("channel", ch.Title),
					slog.Any("error", err))
				mu.Lock()
				failures = append(failures, ChannelError{Channel: ch, Err: err})
				mu.Unlock()
				return nil
			}

			fresh := FilterNew(uploads, boundary, buffer)
			s.logger.Debug("scanned channel",
				slog.String("channel", ch.Title),
				slog.Int("uploads", len(uploads)),
				slog.Int("new", len(fresh)))
			results[i] = fresh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var candidates []youtube.Video
	for _, fresh := range results {
		candidates = append(candidates, fresh...)
	}
	return candidates, failures, nil
}
