// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framearchive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"filippo.io/age"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/sqlitepool"
)

const frameSchema = `
	CREATE TABLE IF NOT EXISTS frames (
		id INTEGER PRIMARY KEY,
		received_at REAL NOT NULL,
		remote TEXT NOT NULL,
		digest BLOB NOT NULL,
		compression INTEGER NOT NULL,
		size INTEGER NOT NULL,
		encrypted INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
`

// Config configures an Archive.
type Config struct {
	// Path is the database file.
	Path string

	// Compression is attempted on every payload. Frames it does not
	// shrink are stored uncompressed.
	Compression Compression

	// Recipients, when non-empty, are the age X25519 public keys every
	// payload is encrypted to.
	Recipients []string

	Logger *slog.Logger
}

// Archive is an append-only store of raw frames. It is safe for
// concurrent use.
type Archive struct {
	pool        *sqlitepool.Pool
	compression Compression
	recipients  []age.Recipient
}

// Frame is a raw frame as received.
type Frame struct {
	ReceivedAt time.Time
	Remote     string
	Raw        []byte
}

// Entry is a frame read back from the archive.
type Entry struct {
	ID     int64
	Digest Digest
	Frame
}

// Open opens (creating if needed) the archive at cfg.Path.
func Open(cfg Config) (*Archive, error) {
	recipients, err := ParseRecipients(cfg.Recipients)
	if err != nil {
		return nil, err
	}
	if cfg.Compression > CompressionZstd {
		return nil, fmt.Errorf("unsupported compression %s", cfg.Compression)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Logger: cfg.Logger,
		Schema: frameSchema,
	})
	if err != nil {
		return nil, err
	}
	return &Archive{
		pool:        pool,
		compression: cfg.Compression,
		recipients:  recipients,
	}, nil
}

// Append stores frame and returns its ID and digest.
func (a *Archive) Append(ctx context.Context, frame Frame) (int64, Digest, error) {
	digest := HashFrame(frame.Raw)

	payload, compression, err := compress(frame.Raw, a.compression)
	if err != nil {
		return 0, digest, err
	}
	encrypted := 0
	if len(a.recipients) > 0 {
		encrypted = 1
		payload, err = seal(payload, a.recipients)
		if err != nil {
			return 0, digest, err
		}
	}

	var id int64
	err = a.pool.With(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO frames (received_at, remote, digest, compression, size, encrypted, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				clock.EpochSeconds(frame.ReceivedAt),
				frame.Remote,
				digest[:],
				int64(compression),
				len(frame.Raw),
				encrypted,
				payload,
			}})
		if err != nil {
			return fmt.Errorf("inserting frame: %w", err)
		}
		id = conn.LastInsertRowID()
		return nil
	})
	return id, digest, err
}

// Frames returns up to limit frames with an ID greater than after, in
// arrival order. identities decrypt encrypted rows; reading an
// encrypted row without one fails with ErrNoIdentity.
func (a *Archive) Frames(ctx context.Context, after int64, limit int, identities []age.Identity) ([]Entry, error) {
	var (
		entries []Entry
		readErr error
	)
	err := a.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT id, received_at, remote, digest, compression, size, encrypted, payload
			 FROM frames WHERE id > ? ORDER BY id LIMIT ?`,
			&sqlitex.ExecOptions{
				Args: []any{after, limit},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					entry, err := readEntry(stmt, identities)
					if err != nil {
						readErr = err
						return err
					}
					entries = append(entries, entry)
					return nil
				},
			})
	})
	// Return row errors unwrapped so callers can match ErrNoIdentity.
	if readErr != nil {
		return nil, readErr
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func readEntry(stmt *sqlite.Stmt, identities []age.Identity) (Entry, error) {
	id := stmt.ColumnInt64(0)
	entry := Entry{
		ID: id,
		Frame: Frame{
			ReceivedAt: secondsToTime(stmt.ColumnFloat(1)),
			Remote:     stmt.ColumnText(2),
		},
	}
	stmt.ColumnBytes(3, entry.Digest[:])

	payload := make([]byte, stmt.ColumnLen(7))
	stmt.ColumnBytes(7, payload)

	var err error
	if stmt.ColumnInt(6) != 0 {
		payload, err = unseal(payload, identities)
		if err != nil {
			return Entry{}, fmt.Errorf("frame %d: %w", id, err)
		}
	}
	entry.Raw, err = decompress(payload, Compression(stmt.ColumnInt64(4)), stmt.ColumnInt(5))
	if err != nil {
		return Entry{}, fmt.Errorf("frame %d: %w", id, err)
	}

	digest := HashFrame(entry.Raw)
	if !bytes.Equal(digest[:], entry.Digest[:]) {
		return Entry{}, fmt.Errorf("frame %d: digest mismatch: stored %s, computed %s", id, entry.Digest, digest)
	}
	return entry, nil
}

// Count returns the number of archived frames.
func (a *Archive) Count(ctx context.Context) (int64, error) {
	var count int64
	err := a.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT COUNT(*) FROM frames", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	})
	return count, err
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.pool.Close()
}

func secondsToTime(seconds float64) time.Time {
	return time.Unix(0, int64(seconds*float64(time.Second)))
}
