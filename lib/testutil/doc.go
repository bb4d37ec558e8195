// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for heaterlink
// packages.
//
// [RequireReceive] and [RequireNoReceive] wrap the select-with-timer
// pattern so that individual tests do not need direct timer calls. Tests that exercise backoff or
// timestamps use lib/clock's fake clock instead; this is the only
// place real wall-clock timeouts are used.
//
// Helpers call t.Fatalf on failure rather than returning errors, since
// test setup failures are not recoverable.
package testutil
