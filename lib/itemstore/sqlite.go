// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/codec"
	"github.com/bureau-foundation/heaterlink/lib/sqlitepool"
)

const itemSchema = `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY,
		table_name TEXT NOT NULL,
		stored_at REAL NOT NULL,
		item BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS items_by_table ON items (table_name, id);
`

// SQLiteConfig configures a SQLiteStore.
type SQLiteConfig struct {
	// Path is the database file.
	Path string

	// Table names the logical table items are filed under, so one
	// database can hold several relays' output.
	Table string

	// Clock stamps stored_at. Defaults to clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

// SQLiteStore keeps items in a local SQLite database. It is safe for
// concurrent use.
type SQLiteStore struct {
	pool  *sqlitepool.Pool
	table string
	clock clock.Clock
}

// StoredItem is an item read back from a SQLiteStore.
type StoredItem struct {
	ID       int64
	StoredAt time.Time
	Item     attr.Item
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Table == "" {
		return nil, errors.New("itemstore: table is required")
	}
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Logger: cfg.Logger,
		Schema: itemSchema,
	})
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{pool: pool, table: cfg.Table, clock: cfg.Clock}
	if store.clock == nil {
		store.clock = clock.Real()
	}
	return store, nil
}

// PutItem appends item to the table.
func (s *SQLiteStore) PutItem(ctx context.Context, item attr.Item) error {
	data, err := codec.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item: %w", err)
	}
	storedAt := clock.EpochSeconds(s.clock.Now())

	return s.pool.With(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO items (table_name, stored_at, item) VALUES (?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{s.table, storedAt, data}})
		if err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}
		return nil
	})
}

// Items returns up to limit items with an ID greater than after, in
// insertion order.
func (s *SQLiteStore) Items(ctx context.Context, after int64, limit int) ([]StoredItem, error) {
	var items []StoredItem
	err := s.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, stored_at, item FROM items WHERE table_name = ? AND id > ? ORDER BY id LIMIT ?",
			&sqlitex.ExecOptions{
				Args: []any{s.table, after, limit},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					data := make([]byte, stmt.ColumnLen(2))
					stmt.ColumnBytes(2, data)

					var item attr.Item
					if err := codec.Unmarshal(data, &item); err != nil {
						return fmt.Errorf("decoding item %d: %w", stmt.ColumnInt64(0), err)
					}
					items = append(items, StoredItem{
						ID:       stmt.ColumnInt64(0),
						StoredAt: secondsToTime(stmt.ColumnFloat(1)),
						Item:     item,
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of items in the table.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT COUNT(*) FROM items WHERE table_name = ?",
			&sqlitex.ExecOptions{
				Args: []any{s.table},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					count = stmt.ColumnInt64(0)
					return nil
				},
			})
	})
	return count, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.pool.Close()
}

func secondsToTime(seconds float64) time.Time {
	return time.Unix(0, int64(seconds*float64(time.Second)))
}
