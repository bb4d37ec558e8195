// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFiresOnAdvance(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(3 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(time.Second)
	select {
	case <-channel:
	default:
		t.Fatal("After did not fire after Advance")
	}
	if clock.PendingCount() != 0 {
		t.Fatalf("PendingCount() = %d after firing, want 0", clock.PendingCount())
	}
}

func TestFakeClockAfterNonPositiveDuration(t *testing.T) {
	clock := Fake(epoch)
	for _, duration := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(duration):
		default:
			t.Fatalf("After(%v) should fire immediately", duration)
		}
	}
}

func TestFakeClockSetBackwardsFiresNothing(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(time.Second)

	clock.Set(epoch.Add(-time.Hour))
	select {
	case <-channel:
		t.Fatal("After fired when the clock moved backwards")
	default:
	}
	if clock.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", clock.PendingCount())
	}
}

func TestFakeClockWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	fired := make(chan time.Time, 1)

	go func() {
		fired <- <-clock.After(time.Minute)
	}()

	clock.WaitForTimers(1)
	clock.Advance(time.Minute)

	select {
	case got := <-fired:
		if !got.Equal(epoch.Add(time.Minute)) {
			t.Fatalf("fired at %v, want %v", got, epoch.Add(time.Minute))
		}
	case <-time.After(5 * time.Second): //nolint:realclock test hang prevention
		t.Fatal("timed out waiting for After to fire")
	}
}

func TestEpochSeconds(t *testing.T) {
	instant := time.Unix(1700000000, 500_000_000)
	if got := EpochSeconds(instant); got != 1700000000.5 {
		t.Fatalf("EpochSeconds = %v, want 1700000000.5", got)
	}
}
