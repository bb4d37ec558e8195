// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool shared by the
// local item store and the raw frame archive.
//
// It wraps zombiezen.com/go/sqlite with relay defaults: WAL journal
// mode so the CLI can read an archive while the relay appends to it,
// NORMAL synchronous (a relay crash loses nothing already committed;
// an OS crash may lose the last few frames, which the controller
// resends anyway), and a busy timeout so that concurrent connection
// handlers queue for the write lock instead of failing.
//
// Callers either [Pool.Take] and [Pool.Put] a connection themselves or
// use [Pool.With] for the common borrow-run-return pattern:
//
//	err := pool.With(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "INSERT ...", &sqlitex.ExecOptions{Args: args})
//	})
//
// Connections are not safe for concurrent use; each goroutine holds
// its own for the duration of its work.
package sqlitepool
