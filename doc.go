// Package wlsync keeps a YouTube Watch Later playlist in sync with new
// uploads from the caller's subscribed channels.
//
// It runs incrementally: each run scans every subscription for uploads
// published since the previous run, filters them against that boundary
// (minus a safety buffer for delayed publication), deduplicates them
// against the previous run's found-set, and inserts the remainder into
// the destination playlist. Run state is persisted atomically so the
// next run resumes exactly where this one left off.
//
// Overview
//
// The engine lives in the watchlater package:
//
//	store, err := storage.NewFileStore(cfg.StateDir)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	service, err := youtube.NewService(ctx, cfg.SecretsFile, tokenPath, os.Stdin, os.Stdout)
//	if err != nil {
//		log.Fatal(err)
//	}
//	client := youtube.NewClient(service, cfg.RequestRate)
//
//	runner := watchlater.NewRunner(client, store, cfg, logger)
//	report, err := runner.Run(ctx, watchlater.RunOptions{})
//
// Configuration
//
// wlsync uses a configuration system that loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (wlsync.json or ~/.config/wlsync/wlsync.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - WLSYNC_STATE_DIR: Directory holding persistent state
//   - WLSYNC_SECRETS_FILE: OAuth client secrets file
//   - WLSYNC_LAST_RUN_BUFFER: Safety buffer subtracted from the boundary
//   - WLSYNC_SUBS_MAX_AGE: Subscription cache time-to-live
//   - WLSYNC_BOOTSTRAP_WINDOW: Lookback window for a first run
//   - WLSYNC_MAX_UPLOADS: Uploads fetched per channel
//   - WLSYNC_SCAN_WORKERS: Concurrent channel scans
//   - WLSYNC_ON_CHANNEL_ERROR: "skip" or "abort" on a channel scan failure
//   - WLSYNC_REQUEST_RATE: API requests per second
//   - WLSYNC_MAX_RETRIES: Maximum retry attempts
//   - WLSYNC_INITIAL_BACKOFF: Initial retry backoff duration
//   - WLSYNC_MAX_BACKOFF: Maximum retry backoff duration
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, wlsync.ErrRateLimited) {
//		fmt.Println("Quota exhausted, try again later")
//	}
//
// Extracting wrapped error details:
//
//	var apiErr *wlsync.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s on %s failed: %v\n", apiErr.Op, apiErr.Resource, apiErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - watchlater: The synchronization engine (cache, scanner, syncer, runner)
//   - youtube: YouTube Data API client and OAuth authorization
//   - config: Configuration management
//   - storage: Persistent run state, subscription cache, and playlist selection
//   - retry: Exponential backoff retry logic
//
// Dependencies
//
// wlsync requires an OAuth client secrets file for a Google Cloud project
// with the YouTube Data API v3 enabled. The first run prompts for browser
// authorization and caches the token under the state directory.
package wlsync
