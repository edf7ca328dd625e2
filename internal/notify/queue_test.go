// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingSecondsBoundaries(t *testing.T) {
	issued := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"at issue", 0, 10},
		{"mid window", 4*time.Second + 500*time.Millisecond, 6},
		{"nine seconds", 9 * time.Second, 1},
		{"just under ten", 10*time.Second - time.Millisecond, 1},
		{"exactly ten", 10 * time.Second, 0},
		{"past expiry", 15 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingSeconds(issued, issued.Add(tt.elapsed), DefaultTTL)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnqueueAndEntries(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	first := q.Enqueue(KindSuccess, "OTP Sent", "OTP sent to your mobile number.")
	second := q.Enqueue(KindError, "Error: Country codes", "Error fetching country codes, try again")

	entries := q.Entries()
	require.Len(t, entries, 2)

	// Arrival order.
	assert.Equal(t, "OTP Sent", entries[0].Title)
	assert.Equal(t, KindSuccess, entries[0].Kind)
	assert.Equal(t, "Error: Country codes", entries[1].Title)
	assert.Equal(t, KindError, entries[1].Kind)

	// IssuedAt is the identity key and must be unique.
	assert.False(t, first.Equal(second))
}

func TestDismissRemovesImmediately(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	keep := q.Enqueue(KindSuccess, "keep", "")
	drop := q.Enqueue(KindSuccess, "drop", "")

	q.Dismiss(drop)

	entries := q.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IssuedAt.Equal(keep))

	// Dismissing again (or an unknown key) is a no-op.
	q.Dismiss(drop)
	q.Dismiss(time.Now().Add(time.Hour))
	assert.Equal(t, 1, q.Len())
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	// 2-second lifetime keeps the timer-driven path fast while exercising
	// the same 1s-granularity countdown as the production 10s window.
	q := NewQueueWithTTL(2 * time.Second)
	defer q.Close()

	q.Enqueue(KindSuccess, "transient", "")

	// Just inside the window: still present.
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, 1, q.Len(), "entry vanished before its window closed")

	// Past the window plus one tick: gone without any dismissal.
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, 0, q.Len(), "entry outlived its window")
}

func TestEntriesExpireIndependently(t *testing.T) {
	q := NewQueueWithTTL(2 * time.Second)
	defer q.Close()

	q.Enqueue(KindSuccess, "older", "")
	time.Sleep(1200 * time.Millisecond)
	q.Enqueue(KindSuccess, "newer", "")

	// The older entry expires first; the newer one keeps its own clock.
	time.Sleep(1300 * time.Millisecond)
	entries := q.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "newer", entries[0].Title)
}

func TestDismissCancelsCountdown(t *testing.T) {
	q := NewQueueWithTTL(2 * time.Second)
	defer q.Close()

	issued := q.Enqueue(KindError, "doomed", "")
	q.Dismiss(issued)
	require.Equal(t, 0, q.Len())

	// A stale countdown firing later must not disturb newer entries.
	q.Enqueue(KindSuccess, "fresh", "")
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, 1, q.Len())
}

func TestOnChangeFires(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	changes := make(chan struct{}, 16)
	q.SetOnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	issued := q.Enqueue(KindSuccess, "x", "")
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("onChange did not fire for enqueue")
	}

	q.Dismiss(issued)
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("onChange did not fire for dismiss")
	}
}

func TestCloseDropsEverything(t *testing.T) {
	q := NewQueue()

	q.Enqueue(KindSuccess, "a", "")
	q.Enqueue(KindError, "b", "")
	q.Close()

	assert.Equal(t, 0, q.Len())

	// Enqueue after Close is refused.
	issued := q.Enqueue(KindSuccess, "late", "")
	assert.True(t, issued.IsZero())
	assert.Equal(t, 0, q.Len())
}

func TestEntriesReturnsCopy(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	q.Enqueue(KindSuccess, "original", "")
	entries := q.Entries()
	entries[0].Title = "mutated"

	assert.Equal(t, "original", q.Entries()[0].Title)
}
