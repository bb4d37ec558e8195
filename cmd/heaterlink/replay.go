// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"filippo.io/age"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/heaterlink/cmd/heaterlink/cli"
	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/config"
	"github.com/bureau-foundation/heaterlink/lib/framearchive"
	"github.com/bureau-foundation/heaterlink/lib/heater"
	"github.com/bureau-foundation/heaterlink/lib/ingest"
	"github.com/bureau-foundation/heaterlink/lib/itemstore"
)

// replayBatchSize is the number of frames read from the archive per
// query.
const replayBatchSize = 256

// frameSource is the read side of *framearchive.Archive.
type frameSource interface {
	Frames(ctx context.Context, after int64, limit int, identities []age.Identity) ([]framearchive.Entry, error)
}

type replayOptions struct {
	after      int64
	limit      int64
	identities []age.Identity
}

type replayStats struct {
	Replayed int64
	Skipped  int64
	LastID   int64
}

func replayCommand() *cli.Command {
	var (
		configPath   string
		identityPath string
		after        int64
		limit        int64
		verbose      bool
	)

	return &cli.Command{
		Name:    "replay",
		Summary: "Re-ship archived frames to the store",
		Description: `Read frames from the relay's archive and write them to the configured
store, stamped with the time the relay originally received them.

Frames that no longer decode are logged and skipped. A store failure
stops the replay; the error names the last frame written so the run can
be resumed with --after.

The archive and store are taken from the relay's config file. Archives
written with recipients need --identity, an age identity file holding
one of the matching private keys.`,
		Usage: "heaterlink replay [--config path] [--identity file] [--after id] [--limit n]",
		Examples: []cli.Example{
			{
				Description: "Backfill everything archived since frame 1200",
				Command:     "heaterlink replay --config /etc/heaterlink.yaml --after 1200",
			},
			{
				Description: "Replay an encrypted archive",
				Command:     "heaterlink replay --config /etc/heaterlink.yaml --identity ~/.config/heaterlink/archive.key",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to the relay config file (default: $"+config.EnvironmentVariable+")")
			flagSet.StringVar(&identityPath, "identity", "", "age identity file for encrypted archives")
			flagSet.Int64Var(&after, "after", 0, "replay only frames with an ID greater than this")
			flagSet.Int64Var(&limit, "limit", 0, "stop after this many frames (0 means all)")
			flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every replayed frame")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("replay takes no positional arguments, got %q", args[0])
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := cli.NewCommandLogger(level).With("command", "replay")

			cfg, err := loadReplayConfig(configPath)
			if err != nil {
				return err
			}

			opts := replayOptions{after: after, limit: limit}
			if identityPath != "" {
				opts.identities, err = framearchive.ReadIdentities(identityPath)
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(cfg.Archive.Path); err != nil {
				return fmt.Errorf("no frame archive at %s: %w", cfg.Archive.Path, err)
			}
			archive, err := framearchive.Open(framearchive.Config{Path: cfg.Archive.Path, Logger: logger})
			if err != nil {
				return fmt.Errorf("opening frame archive: %w", err)
			}
			defer archive.Close()

			store, err := itemstore.FromConfig(cfg.Store, clock.Real(), logger)
			if err != nil {
				return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
			}
			defer store.Close()
			if cfg.Store.Backend == config.StoreDiscard {
				logger.Warn("store backend is discard; frames will be decoded but not written")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipeline := ingest.NewPipeline(heater.NewDecoder(clock.Real()), store)
			stats, err := replay(ctx, archive, pipeline, opts, logger)
			logger.Info("replay finished",
				"replayed", stats.Replayed,
				"skipped", stats.Skipped,
				"last_id", stats.LastID,
			)
			return err
		},
	}
}

func loadReplayConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// replay feeds archived frames after opts.after through pipeline in ID
// order. Decode failures are skipped; the first store failure ends the
// run. The returned stats are valid on error.
func replay(ctx context.Context, source frameSource, pipeline *ingest.Pipeline, opts replayOptions, logger *slog.Logger) (replayStats, error) {
	stats := replayStats{LastID: opts.after}
	for {
		batch := int64(replayBatchSize)
		if opts.limit > 0 {
			remaining := opts.limit - stats.Replayed - stats.Skipped
			if remaining <= 0 {
				return stats, nil
			}
			batch = min(batch, remaining)
		}

		entries, err := source.Frames(ctx, stats.LastID, int(batch), opts.identities)
		if err != nil {
			return stats, fmt.Errorf("reading archive after frame %d: %w", stats.LastID, err)
		}
		if len(entries) == 0 {
			return stats, nil
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			outcome, err := pipeline.ProcessAt(ctx, entry.Raw, entry.ReceivedAt)
			switch {
			case err == nil:
				stats.Replayed++
				logger.Debug("frame replayed", "id", entry.ID, "remote", entry.Remote, "fields", len(outcome.Item))
			case ingest.IsDecodeFailure(err):
				stats.Skipped++
				logger.Warn("frame skipped", "id", entry.ID, "error", err)
			default:
				return stats, fmt.Errorf("frame %d: %w (resume with --after %d)", entry.ID, err, stats.LastID)
			}
			stats.LastID = entry.ID
		}
	}
}
