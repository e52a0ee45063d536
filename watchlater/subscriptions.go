package watchlater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"wlsync/storage"
	"wlsync/youtube"
)

// SubscriptionService owns the locally cached subscription list and decides
// when it is stale and must be rebuilt from the API.
type SubscriptionService struct {
	api    API
	store  storage.SubscriptionStore
	maxAge time.Duration
	logger *slog.Logger
}

// NewSubscriptionService creates a subscription service. maxAge bounds how
// old a cached entry may be before a rebuild is forced.
func NewSubscriptionService(api API, store storage.SubscriptionStore, maxAge time.Duration, logger *slog.Logger) *SubscriptionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionService{api: api, store: store, maxAge: maxAge, logger: logger}
}

// Subscriptions returns the subscribed channels, from cache when the
// persisted entry is fresh and internally consistent, otherwise via a full
// rebuild. forceRefresh bypasses the cache entirely.
func (s *SubscriptionService) Subscriptions(ctx context.Context, forceRefresh bool) ([]youtube.Channel, error) {
	if !forceRefresh {
		cache, err := s.store.LoadSubscriptions(ctx)
		switch {
		case err == nil && cache.Consistent() && !cache.Stale(time.Now().UTC(), s.maxAge):
			s.logger.Debug("using cached subscriptions",
				slog.Int("channels", len(cache.Channels)),
				slog.Time("last_update", cache.LastUpdate))
			return cache.Channels, nil
		case err == nil:
			s.logger.Info("subscription cache stale, rebuilding",
				slog.Time("last_update", cache.LastUpdate))
		case errors.Is(err, storage.ErrNotFound):
			s.logger.Info("no subscription cache, building")
		default:
			s.logger.Warn("subscription cache unreadable, rebuilding", slog.Any("error", err))
		}
	}

	return s.refresh(ctx)
}

// refresh performs the two-phase rebuild: enumerate subscriptions, then
// resolve each channel's uploads playlist. Any transport error aborts the
// rebuild; nothing is persisted on failure.
func (s *SubscriptionService) refresh(ctx context.Context) ([]youtube.Channel, error) {
	channels, err := s.api.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	for i := range channels {
		uploads, err := s.api.ResolveUploads(ctx, channels[i].ID)
		if err != nil {
			return nil, fmt.Errorf("resolve uploads for %s: %w", channels[i].ID, err)
		}
		channels[i].UploadsPlaylistID = uploads
	}

	if err := s.store.SaveSubscriptions(ctx, channels); err != nil {
		return nil, err
	}

	s.logger.Info("subscription cache rebuilt", slog.Int("channels", len(channels)))
	return channels, nil
}
