// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/framearchive"
	"github.com/bureau-foundation/heaterlink/lib/heater"
	"github.com/bureau-foundation/heaterlink/lib/ingest"
	"github.com/bureau-foundation/heaterlink/lib/itemstore"
)

type failingStore struct {
	failAfter int
	puts      int
}

func (s *failingStore) PutItem(context.Context, attr.Item) error {
	s.puts++
	if s.puts > s.failAfter {
		return errors.New("store offline")
	}
	return nil
}

func (s *failingStore) Close() error { return nil }

func newTestArchive(t *testing.T, frames ...[]byte) *framearchive.Archive {
	t.Helper()
	archive, err := framearchive.Open(framearchive.Config{
		Path:        filepath.Join(t.TempDir(), "frames.db"),
		Compression: framearchive.CompressionZstd,
	})
	if err != nil {
		t.Fatalf("framearchive.Open: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	for index, raw := range frames {
		frame := framearchive.Frame{
			ReceivedAt: captureTime.Add(time.Duration(index) * time.Second),
			Remote:     "10.0.0.7:51234",
			Raw:        raw,
		}
		if _, _, err := archive.Append(context.Background(), frame); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return archive
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestReplayStoresWithOriginalTimestamps(t *testing.T) {
	archive := newTestArchive(t, scenarioFrame, []byte{0xff}, scenarioFrame)

	store, err := itemstore.OpenSQLite(itemstore.SQLiteConfig{
		Path:  filepath.Join(t.TempDir(), "items.db"),
		Table: "heater",
	})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	// The decoder clock is far from the archived times; replay must
	// not use it.
	pipeline := ingest.NewPipeline(heater.NewDecoder(clock.Fake(captureTime.Add(24*time.Hour))), store)

	stats, err := replay(context.Background(), archive, pipeline, replayOptions{}, discardLogger())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if stats.Replayed != 2 || stats.Skipped != 1 || stats.LastID != 3 {
		t.Errorf("stats = %+v, want 2 replayed, 1 skipped, last id 3", stats)
	}

	items, err := store.Items(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("store holds %d items, want 2", len(items))
	}
	wantTimestamps := []string{"1773500966.5", "1773500968.5"}
	for index, item := range items {
		if !item.Item[heater.TimestampField].Equal(attr.NumberNode(wantTimestamps[index])) {
			t.Errorf("item %d timestamp = %s, want %s", index, item.Item[heater.TimestampField], wantTimestamps[index])
		}
	}
}

func TestReplayAfterAndLimit(t *testing.T) {
	archive := newTestArchive(t, scenarioFrame, scenarioFrame, scenarioFrame, scenarioFrame)
	pipeline := ingest.NewPipeline(heater.NewDecoder(clock.Fake(captureTime)), itemstore.Discard{})

	stats, err := replay(context.Background(), archive, pipeline, replayOptions{after: 1, limit: 2}, discardLogger())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if stats.Replayed != 2 || stats.LastID != 3 {
		t.Errorf("stats = %+v, want 2 replayed ending at id 3", stats)
	}
}

func TestReplayStopsOnStoreFailure(t *testing.T) {
	archive := newTestArchive(t, scenarioFrame, scenarioFrame, scenarioFrame)
	store := &failingStore{failAfter: 1}
	pipeline := ingest.NewPipeline(heater.NewDecoder(clock.Fake(captureTime)), store)

	stats, err := replay(context.Background(), archive, pipeline, replayOptions{}, discardLogger())
	if err == nil {
		t.Fatal("replay succeeded with a failing store")
	}
	var storeErr *ingest.StoreError
	if !errors.As(err, &storeErr) {
		t.Errorf("replay error = %v, want a *ingest.StoreError", err)
	}
	if !strings.Contains(err.Error(), "--after 1") {
		t.Errorf("replay error = %v, want a resume hint", err)
	}
	if stats.Replayed != 1 || store.puts != 2 {
		t.Errorf("stats = %+v after %d puts", stats, store.puts)
	}
}

func TestReplayEncryptedArchiveNeedsIdentity(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("generating identity: %v", err)
	}
	archive, err := framearchive.Open(framearchive.Config{
		Path:       filepath.Join(t.TempDir(), "frames.db"),
		Recipients: []string{identity.Recipient().String()},
	})
	if err != nil {
		t.Fatalf("framearchive.Open: %v", err)
	}
	defer archive.Close()
	if _, _, err := archive.Append(context.Background(), framearchive.Frame{ReceivedAt: captureTime, Raw: scenarioFrame}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	pipeline := ingest.NewPipeline(heater.NewDecoder(clock.Fake(captureTime)), itemstore.Discard{})

	if _, err := replay(context.Background(), archive, pipeline, replayOptions{}, discardLogger()); !errors.Is(err, framearchive.ErrNoIdentity) {
		t.Errorf("replay without identity error = %v, want ErrNoIdentity", err)
	}

	stats, err := replay(context.Background(), archive, pipeline, replayOptions{identities: []age.Identity{identity}}, discardLogger())
	if err != nil {
		t.Fatalf("replay with identity: %v", err)
	}
	if stats.Replayed != 1 {
		t.Errorf("stats = %+v, want 1 replayed", stats)
	}
}
