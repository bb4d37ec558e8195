// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/framearchive"
	"github.com/bureau-foundation/heaterlink/lib/netutil"
)

// DefaultReadSize is the largest frame read in one call when Config
// leaves ReadSize unset.
const DefaultReadSize = 200

// Archive receives every raw read before it is processed.
// *framearchive.Archive satisfies it.
type Archive interface {
	Append(ctx context.Context, frame framearchive.Frame) (int64, framearchive.Digest, error)
}

// Config configures a Server.
type Config struct {
	// Address is the TCP address Serve listens on.
	Address string

	// ReadSize bounds each read, and therefore each frame.
	ReadSize int

	// Pipeline processes every frame. Required.
	Pipeline *Pipeline

	// Archive, if set, stores every raw read.
	Archive Archive

	// Clock stamps archived frames. Defaults to clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

// Stats counts frame outcomes. Server totals are cumulative across
// connections.
type Stats struct {
	Frames         int64
	Stored         int64
	DecodeFailures int64
	StoreFailures  int64
	ArchiveErrors  int64
}

// Server accepts heater connections and feeds their frames through a
// Pipeline.
type Server struct {
	address  string
	readSize int
	pipeline *Pipeline
	archive  Archive
	clock    clock.Clock
	logger   *slog.Logger

	frames         atomic.Int64
	stored         atomic.Int64
	decodeFailures atomic.Int64
	storeFailures  atomic.Int64
	archiveErrors  atomic.Int64

	activeConnections sync.WaitGroup
}

// NewServer validates cfg and returns a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, errors.New("ingest: pipeline is required")
	}
	if cfg.ReadSize < 0 {
		return nil, fmt.Errorf("ingest: read size must not be negative, got %d", cfg.ReadSize)
	}

	server := &Server{
		address:  cfg.Address,
		readSize: cfg.ReadSize,
		pipeline: cfg.Pipeline,
		archive:  cfg.Archive,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
	}
	if server.readSize == 0 {
		server.readSize = DefaultReadSize
	}
	if server.clock == nil {
		server.clock = clock.Real()
	}
	if server.logger == nil {
		server.logger = slog.New(slog.DiscardHandler)
	}
	return server, nil
}

// Serve listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener serves connections accepted from listener until ctx is
// cancelled, then closes the listener and every open connection and
// waits for their goroutines to finish. It takes ownership of listener.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("serving", "address", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return nil
}

// Stats returns the totals across all connections so far.
func (s *Server) Stats() Stats {
	return Stats{
		Frames:         s.frames.Load(),
		Stored:         s.stored.Load(),
		DecodeFailures: s.decodeFailures.Load(),
		StoreFailures:  s.storeFailures.Load(),
		ArchiveErrors:  s.archiveErrors.Load(),
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	logger := s.logger.With("remote", remote)
	logger.Info("connection opened")

	var stats Stats
	buffer := make([]byte, s.readSize)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			s.handleFrame(ctx, logger, remote, buffer[:n], &stats)
		}
		if err != nil {
			if !netutil.IsExpectedCloseError(err) && ctx.Err() == nil {
				logger.Warn("connection read failed", "error", err)
			}
			break
		}
	}

	logger.Info("connection closed",
		"frames", stats.Frames,
		"stored", stats.Stored,
		"decode_failures", stats.DecodeFailures,
		"store_failures", stats.StoreFailures,
		"archive_errors", stats.ArchiveErrors,
	)
}

// handleFrame processes one read. Every failure is logged and counted
// here; none of them end the connection.
func (s *Server) handleFrame(ctx context.Context, logger *slog.Logger, remote string, data []byte, stats *Stats) {
	stats.Frames++
	s.frames.Add(1)

	if s.archive != nil {
		frame := framearchive.Frame{
			ReceivedAt: s.clock.Now(),
			Remote:     remote,
			Raw:        append([]byte(nil), data...),
		}
		if _, _, err := s.archive.Append(ctx, frame); err != nil {
			stats.ArchiveErrors++
			s.archiveErrors.Add(1)
			logger.Error("archiving frame failed", "error", err, "bytes", len(data))
		}
	}

	outcome, err := s.pipeline.Process(ctx, data)
	if outcome.Trailing > 0 {
		logger.Warn("trailing bytes after frame", "bytes", outcome.Trailing)
	}
	if outcome.Record != nil {
		logger.Info("message", "record", map[string]any(outcome.Record))
	}
	if len(outcome.Dropped) > 0 {
		logger.Warn("fields dropped from item", "fields", outcome.Dropped)
	}

	switch {
	case err == nil:
		stats.Stored++
		s.stored.Add(1)
	case IsDecodeFailure(err):
		stats.DecodeFailures++
		s.decodeFailures.Add(1)
		logger.Warn("frame dropped", "error", err, "bytes", len(data))
	default:
		stats.StoreFailures++
		s.storeFailures.Add(1)
		logger.Error("store write failed", "error", err)
	}
}
