package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"wlsync/config"
	"wlsync/retry"
	"wlsync/storage"
	"wlsync/watchlater"
	"wlsync/youtube"

	"github.com/joho/godotenv"
)

func main() {
	fs := flag.NewFlagSet("wlsync", flag.ExitOnError)
	secretsFile := fs.String("secrets-file", "", "OAuth client secrets file (overrides config)")
	refresh := fs.Bool("refresh-subscriptions", false, "Rebuild the subscription cache before scanning")
	refreshOnly := fs.Bool("just-refresh-subscriptions", false, "Rebuild the subscription cache and exit")
	setPlaylist := fs.Bool("set-playlist", false, "Interactively pick the destination playlist and remember it")
	setPlaylistOnly := fs.Bool("just-set-playlist", false, "Pick the destination playlist and exit")
	playlistID := fs.String("playlist", "", "Destination playlist ID for this run (empty = remembered choice or Watch Later)")
	verbose := fs.Bool("verbose", false, "Log progress (info level)")
	debug := fs.Bool("debug", false, "Log everything (debug level)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `wlsync - sync new subscription uploads into a YouTube playlist

Each run scans subscribed channels for uploads published since the
previous run and adds the new ones to the destination playlist
(Watch Later by default). Run state is kept under the state directory
so consecutive runs never add the same video twice.

Usage:
  wlsync [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	// A .env next to the binary is a convenience for cron setups; absence
	// is not an error.
	_ = godotenv.Load()

	// Quiet by default; the run summary goes to stdout regardless.
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, options{
		secretsFile:     *secretsFile,
		refresh:         *refresh || *refreshOnly,
		refreshOnly:     *refreshOnly,
		setPlaylist:     *setPlaylist || *setPlaylistOnly,
		setPlaylistOnly: *setPlaylistOnly,
		playlistID:      *playlistID,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	secretsFile     string
	refresh         bool
	refreshOnly     bool
	setPlaylist     bool
	setPlaylistOnly bool
	playlistID      string
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.secretsFile != "" {
		cfg.SecretsFile = opts.secretsFile
	}

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		if errors.Is(err, storage.ErrLockHeld) {
			return fmt.Errorf("another wlsync run is in progress (state dir %s)", cfg.StateDir)
		}
		return fmt.Errorf("open state dir: %w", err)
	}
	defer store.Close()

	tokenFile := filepath.Join(store.Dir(), "token.json")
	service, err := youtube.NewService(ctx, cfg.SecretsFile, tokenFile, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	client := youtube.NewClient(service, cfg.RequestRate)
	client.RetryConfig = retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: retry.DefaultConfig().JitterFraction,
	}

	destination := opts.playlistID
	if opts.setPlaylist {
		destination, err = selectPlaylist(ctx, client, store)
		if err != nil {
			return fmt.Errorf("set playlist: %w", err)
		}
		if opts.setPlaylistOnly {
			return nil
		}
	} else if destination == "" {
		if selection, err := store.LoadPlaylist(ctx); err == nil {
			destination = selection.ID
		} else if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("unreadable playlist selection, defaulting to Watch Later", "error", err)
		}
	}

	runner := watchlater.NewRunner(client, store, cfg, logger)
	report, err := runner.Run(ctx, watchlater.RunOptions{
		ForceRefresh: opts.refresh,
		RefreshOnly:  opts.refreshOnly,
		PlaylistID:   destination,
	})
	if err != nil {
		return err
	}

	if report.RefreshOnly {
		fmt.Printf("Subscription cache refreshed: %d channels\n", report.Channels)
		return nil
	}

	fmt.Printf("Scanned %d channels since %s\n",
		report.Channels, report.Boundary.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Found %d new videos: %d added, %d skipped\n",
		report.Found, report.Added, report.Skipped)
	if n := len(report.ChannelFailures); n > 0 {
		fmt.Printf("Warning: %d channels failed to scan (see log)\n", n)
	}
	return nil
}

// selectPlaylist lists the account's playlists, prompts for a choice, and
// persists it for future runs. Index 0 is always Watch Later.
func selectPlaylist(ctx context.Context, client *youtube.Client, store *storage.FileStore) (string, error) {
	playlists, err := client.UserPlaylists(ctx)
	if err != nil {
		return "", err
	}

	fmt.Println("Destination playlists:")
	fmt.Println("  0) Watch Later")
	for i, p := range playlists {
		fmt.Printf("  %d) %s\n", i+1, p.Title)
	}
	fmt.Print("Choice: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("read choice: %w", scanner.Err())
	}
	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 0 || choice > len(playlists) {
		return "", fmt.Errorf("invalid choice %q", scanner.Text())
	}

	id, title := youtube.WatchLaterPlaylistID, "Watch Later"
	if choice > 0 {
		id, title = playlists[choice-1].ID, playlists[choice-1].Title
	}
	if err := store.SavePlaylist(ctx, id, title); err != nil {
		return "", err
	}
	fmt.Printf("Destination set to %s\n", title)
	return id, nil
}
