// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first. The message
// describes what the test was waiting for, printf style.
//
//	item := testutil.RequireReceive(t, store.items, 5*time.Second, "waiting for stored item")
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, format string, args ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while %s", fmt.Sprintf(format, args...))
		}
		return value
	case <-timer.C:
		t.Fatalf("timed out after %v %s", timeout, fmt.Sprintf(format, args...))
	}
	panic("unreachable")
}

// RequireNoReceive fails the test if ch yields a value within wait.
// A closed channel also fails: it means a producer finished when the
// test expected it to stay quiet. Keep wait short; every passing call
// costs its full duration.
func RequireNoReceive[T any](t testing.TB, ch <-chan T, wait time.Duration, format string, args ...any) {
	t.Helper()
	timer := time.NewTimer(wait) //nolint:realclock bounded quiet period
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed, expected nothing: %s", fmt.Sprintf(format, args...))
		}
		t.Fatalf("received %v, expected nothing: %s", value, fmt.Sprintf(format, args...))
	case <-timer.C:
	}
}
