package watchlater

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"wlsync/config"
	"wlsync/storage"
	"wlsync/youtube"
)

// RunOptions configures a single run.
type RunOptions struct {
	// ForceRefresh rebuilds the subscription cache regardless of its age.
	ForceRefresh bool
	// RefreshOnly stops after the subscription refresh; no scan, no sync,
	// and the run record is left untouched.
	RefreshOnly bool
	// PlaylistID is the destination playlist. Empty selects Watch Later.
	PlaylistID string
}

// RunReport is the outcome of one run.
type RunReport struct {
	// RunID identifies this run in logs and in the persisted record.
	RunID string
	// Boundary is the instant the scan filtered against (the previous
	// run's timestamp, or the bootstrap default on a first run).
	Boundary time.Time
	// Channels is how many channels were considered.
	Channels int
	// Found is the size of the candidate set across all channels.
	Found int
	// Added is how many videos were inserted into the destination playlist.
	Added int
	// Skipped counts previous-run duplicates plus failed insertions.
	Skipped int
	// ChannelFailures lists channels whose scan failed and was skipped.
	ChannelFailures []ChannelError
	// RefreshOnly is true when the run stopped after the cache refresh.
	RefreshOnly bool
}

// Runner drives one linear pass of the synchronization engine:
// run record -> subscriptions -> scan -> filter -> dedup/insert -> run record.
type Runner struct {
	subs      *SubscriptionService
	scanner   *Scanner
	syncer    *Syncer
	store     storage.RunStore
	buffer    time.Duration
	bootstrap time.Duration
	logger    *slog.Logger
}

// NewRunner wires the engine components from configuration.
func NewRunner(api API, store storage.Store, cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	policy := SkipFailedChannels
	if cfg.OnChannelError == config.OnChannelErrorAbort {
		policy = AbortOnChannelError
	}

	return &Runner{
		subs:      NewSubscriptionService(api, store, cfg.SubsMaxAge, logger),
		scanner:   NewScanner(api, cfg.MaxUploads, cfg.ScanWorkers, policy, logger),
		syncer:    NewSyncer(api, logger),
		store:     store,
		buffer:    cfg.LastRunBuffer,
		bootstrap: cfg.BootstrapWindow,
		logger:    logger,
	}
}

// Run executes one pass. Cache rebuild failures, scan aborts, and run-record
// write failures are fatal; everything else degrades per policy and is
// reflected in the report. Re-running after a failure converges: the run
// record is only replaced at the very end, so a crashed run leaves the
// previous boundary and found-set intact.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	previous := r.loadPrevious(ctx)

	report := &RunReport{Boundary: previous.LastRun}

	channels, err := r.subs.Subscriptions(ctx, opts.ForceRefresh)
	if err != nil {
		return nil, err
	}
	report.Channels = len(channels)

	if opts.RefreshOnly {
		report.RefreshOnly = true
		return report, nil
	}

	r.logger.Info("searching channels for new videos",
		slog.Int("channels", len(channels)),
		slog.Time("boundary", previous.LastRun))

	candidates, failures, err := r.scanner.Scan(ctx, channels, previous.LastRun, r.buffer)
	if err != nil {
		return nil, err
	}
	report.Found = len(candidates)
	report.ChannelFailures = failures

	playlistID := opts.PlaylistID
	if playlistID == "" {
		playlistID = youtube.WatchLaterPlaylistID
	}

	report.Added, report.Skipped = r.syncer.Sync(ctx, candidates, previous.FoundSet(), playlistID)

	// The full candidate set is recorded regardless of insertion outcome:
	// a video that failed to insert is still remembered as found and will
	// not be retried on later runs.
	record := storage.NewRunRecord(candidates)
	if err := r.store.SaveRunRecord(ctx, record); err != nil {
		return nil, err
	}
	report.RunID = record.RunID

	r.logger.Info("run complete",
		slog.String("run_id", record.RunID),
		slog.Int("found", report.Found),
		slog.Int("added", report.Added),
		slog.Int("skipped", report.Skipped))

	return report, nil
}

// loadPrevious reads the prior run record, synthesizing the bootstrap
// default (boundary = now minus the bootstrap window, empty found-set) when
// no record exists or it cannot be read. Unreadable state is not an error
// here; it matches first-run behavior.
func (r *Runner) loadPrevious(ctx context.Context) *storage.RunRecord {
	record, err := r.store.LoadRunRecord(ctx)
	if err == nil {
		return record
	}

	if !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("run record unreadable, starting from bootstrap window", slog.Any("error", err))
	}
	return &storage.RunRecord{
		LastRun:     time.Now().UTC().Add(-r.bootstrap),
		FoundVideos: []youtube.Video{},
	}
}
