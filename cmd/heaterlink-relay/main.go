// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/config"
	"github.com/bureau-foundation/heaterlink/lib/framearchive"
	"github.com/bureau-foundation/heaterlink/lib/heater"
	"github.com/bureau-foundation/heaterlink/lib/ingest"
	"github.com/bureau-foundation/heaterlink/lib/itemstore"
	"github.com/bureau-foundation/heaterlink/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	listen      string
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("heaterlink-relay", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&opts.listen, "listen", "", "TCP address to accept frames on, overriding listen.address")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, or error, overriding log.level")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if flagSet.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return opts, nil
}

// loadConfig loads the file named by opts (or the environment) and
// applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.listen != "" {
		cfg.Listen.Address = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	// Validate has already accepted the level.
	level, _ := cfg.SlogLevel()
	options := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.showVersion {
		fmt.Printf("heaterlink-relay %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Log)

	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	realClock := clock.Real()

	store, err := itemstore.FromConfig(cfg.Store, realClock, logger)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	defer store.Close()

	serverConfig := ingest.Config{
		Address:  cfg.Listen.Address,
		ReadSize: cfg.Listen.ReadSize,
		Pipeline: ingest.NewPipeline(heater.NewDecoder(realClock), store),
		Clock:    realClock,
		Logger:   logger,
	}

	if cfg.Archive.Enabled {
		compression, err := framearchive.ParseCompression(cfg.Archive.Compression)
		if err != nil {
			return err
		}
		archive, err := framearchive.Open(framearchive.Config{
			Path:        cfg.Archive.Path,
			Compression: compression,
			Recipients:  cfg.Archive.Recipients,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("opening frame archive: %w", err)
		}
		defer archive.Close()
		serverConfig.Archive = archive
	}

	server, err := ingest.NewServer(serverConfig)
	if err != nil {
		return err
	}

	logger.Info("heaterlink relay starting",
		"version", version.Info(),
		"listen", cfg.Listen.Address,
		"read_size", cfg.Listen.ReadSize,
		"store", cfg.Store.Backend,
		"archive", cfg.Archive.Enabled,
	)

	if err := server.Serve(ctx); err != nil {
		return err
	}

	stats := server.Stats()
	logger.Info("shutting down",
		"frames", stats.Frames,
		"stored", stats.Stored,
		"decode_failures", stats.DecodeFailures,
		"store_failures", stats.StoreFailures,
	)
	return nil
}
