// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// The telemetry decoder stamps every record with the capture time and
// the HTTP item store backs off between write attempts. Both take a
// Clock instead of calling time.Now or time.After directly. In
// production Real() provides the standard library behavior; tests use
// Fake(), which only moves when Advance or Set is called.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	decoder := heater.NewDecoder(c)
//	// ... start goroutines that wait on c.After ...
//	c.WaitForTimers(1)
//	c.Advance(100 * time.Millisecond)
package clock
