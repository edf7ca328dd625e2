// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the transient notification queue.
//
// Notifications are advisory, time-bounded, and purely in-memory: each entry
// runs its own independent one-second countdown from the moment it was
// issued and removes itself when the countdown reaches zero. An entry's
// timestamp doubles as its identity key. Nothing here touches the chat
// store; process exit discards whatever is still showing.
package notify

import (
	"sync"
	"time"
)

// =============================================================================
// ENTRY
// =============================================================================

// Kind classifies a notification for display.
type Kind string

const (
	// KindSuccess is a confirmation notice (OTP verified, chat deleted).
	KindSuccess Kind = "success"

	// KindError is a failure notice (directory fetch failed).
	KindError Kind = "error"
)

// DefaultTTL is how long an entry lives, measured from IssuedAt.
const DefaultTTL = 10 * time.Second

// tickInterval is the countdown granularity.
const tickInterval = time.Second

// Entry is one advisory message. Title and Body are opaque display strings.
// IssuedAt is the identity key: two entries with the same timestamp are the
// same entry, so the queue guarantees issue times are unique.
type Entry struct {
	Kind     Kind
	Title    string
	Body     string
	IssuedAt time.Time
}

// RemainingSeconds computes the whole seconds left before an entry issued at
// issuedAt expires: ttlSeconds - floor(elapsed/1s), clamped at zero.
func RemainingSeconds(issuedAt, now time.Time, ttl time.Duration) int {
	elapsed := int(now.Sub(issuedAt) / time.Second)
	remaining := int(ttl/time.Second) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// QUEUE
// =============================================================================

// Queue holds the currently visible notifications in arrival order. Entries
// expire independently; one entry's countdown never affects another's.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	stops   map[int64]chan struct{} // IssuedAt.UnixNano() -> countdown stop
	ttl     time.Duration

	// onChange fires whenever the visible set or a countdown changes.
	// Runs on the enqueueing goroutine or an entry's countdown goroutine.
	onChange func()

	closed bool
}

// NewQueue creates a queue with the standard 10-second entry lifetime.
func NewQueue() *Queue {
	return NewQueueWithTTL(DefaultTTL)
}

// NewQueueWithTTL creates a queue with a custom entry lifetime. Used by
// tests; production callers want NewQueue.
func NewQueueWithTTL(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		stops: make(map[int64]chan struct{}),
		ttl:   ttl,
	}
}

// SetOnChange registers the change callback.
func (q *Queue) SetOnChange(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onChange = fn
}

// Enqueue inserts an entry and starts its countdown, returning the issue
// timestamp that identifies it.
func (q *Queue) Enqueue(kind Kind, title, body string) time.Time {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return time.Time{}
	}

	issuedAt := time.Now()
	// IssuedAt is the identity key; nudge forward on the (unlikely)
	// same-nanosecond collision.
	for q.stops[issuedAt.UnixNano()] != nil {
		issuedAt = issuedAt.Add(time.Nanosecond)
	}

	entry := Entry{Kind: kind, Title: title, Body: body, IssuedAt: issuedAt}
	q.entries = append(q.entries, entry)

	stop := make(chan struct{})
	q.stops[issuedAt.UnixNano()] = stop
	onChange := q.onChange
	q.mu.Unlock()

	go q.countdown(entry, stop)

	if onChange != nil {
		onChange()
	}
	return issuedAt
}

// Dismiss removes the entry immediately and cancels its countdown.
// Dismissing an unknown timestamp is a no-op.
func (q *Queue) Dismiss(issuedAt time.Time) {
	q.remove(issuedAt)
}

// Entries returns the visible entries in arrival order. The slice is a copy.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Remaining returns the seconds left for an entry, for countdown display.
func (q *Queue) Remaining(e Entry) int {
	q.mu.Lock()
	ttl := q.ttl
	q.mu.Unlock()
	return RemainingSeconds(e.IssuedAt, time.Now(), ttl)
}

// Len returns the number of visible entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close cancels every countdown and drops all entries.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	for key, stop := range q.stops {
		close(stop)
		delete(q.stops, key)
	}
	q.entries = nil
	q.mu.Unlock()
}

// =============================================================================
// COUNTDOWN
// =============================================================================

// countdown ticks once a second until the entry expires or is dismissed.
// Remaining time is computed from IssuedAt each tick rather than counted
// down, so a slow tick cannot stretch an entry's lifetime.
func (q *Queue) countdown(entry Entry, stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			q.mu.Lock()
			ttl := q.ttl
			onChange := q.onChange
			q.mu.Unlock()

			if RemainingSeconds(entry.IssuedAt, now, ttl) <= 0 {
				q.remove(entry.IssuedAt)
				return
			}
			if onChange != nil {
				onChange()
			}
		}
	}
}

// remove deletes the entry and stops its countdown, then fires onChange if
// anything was actually removed.
func (q *Queue) remove(issuedAt time.Time) {
	q.mu.Lock()

	removed := false
	for i, e := range q.entries {
		if e.IssuedAt.Equal(issuedAt) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			removed = true
			break
		}
	}

	if stop, ok := q.stops[issuedAt.UnixNano()]; ok {
		close(stop)
		delete(q.stops, issuedAt.UnixNano())
	}

	onChange := q.onChange
	q.mu.Unlock()

	if removed && onChange != nil {
		onChange()
	}
}
