// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ayush-G09/gemini-tui/internal/model"
)

// Reply timing defaults. The simulated assistant answers after a uniform
// random delay in [ReplyMinDelay, ReplyMaxDelay).
const (
	ReplyMinDelay = 3 * time.Second
	ReplyMaxDelay = 6 * time.Second
)

// DefaultReplyBody is the fixed simulated assistant reply.
const DefaultReplyBody = "This is a simulated AI reply."

// =============================================================================
// REPLY SCHEDULER
// =============================================================================

// ReplyScheduler models one in-flight simulated assistant turn per
// conversation. While a task is pending the conversation is marked as
// typing; the flag is ephemeral display state and is never persisted.
type ReplyScheduler struct {
	mu      sync.Mutex
	manager *Manager

	minDelay time.Duration
	maxDelay time.Duration
	body     string

	// pending maps conversation id to its single in-flight task.
	pending map[string]*replyTask

	// onReply fires after a reply has been appended. Runs on the timer
	// goroutine.
	onReply func(conversationID string)

	closed bool
}

// replyTask is the cancellation handle for one scheduled reply.
type replyTask struct {
	taskID string
	timer  *time.Timer
}

// NewReplyScheduler creates a scheduler bound to the manager. It registers
// a remove hook so deleting a conversation cancels its pending reply before
// the timer can fire against a defunct id.
func NewReplyScheduler(manager *Manager, minDelay, maxDelay time.Duration, body string) *ReplyScheduler {
	if minDelay <= 0 || maxDelay <= minDelay {
		minDelay = ReplyMinDelay
		maxDelay = ReplyMaxDelay
	}
	if body == "" {
		body = DefaultReplyBody
	}

	s := &ReplyScheduler{
		manager:  manager,
		minDelay: minDelay,
		maxDelay: maxDelay,
		body:     body,
		pending:  make(map[string]*replyTask),
	}
	manager.registerRemoveHook(func(id string) { s.Cancel(id) })
	return s
}

// SetOnReply registers the reply-arrived callback.
func (s *ReplyScheduler) SetOnReply(fn func(conversationID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReply = fn
}

// Schedule starts a single-shot delayed reply for the conversation and
// reports whether a task was started. At most one reply is in flight per
// conversation: sending another message while one is pending does not start
// a second task.
func (s *ReplyScheduler) Schedule(conversationID string) bool {
	if conversationID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if _, inFlight := s.pending[conversationID]; inFlight {
		return false
	}

	task := &replyTask{taskID: uuid.NewString()}
	delay := s.minDelay + rand.N(s.maxDelay-s.minDelay)
	task.timer = time.AfterFunc(delay, func() {
		s.fire(conversationID, task.taskID)
	})
	s.pending[conversationID] = task
	return true
}

// fire delivers the reply if the task is still the current one for its
// conversation. A task that was cancelled, superseded, or orphaned by
// Close appends nothing.
func (s *ReplyScheduler) fire(conversationID, taskID string) {
	s.mu.Lock()
	task, ok := s.pending[conversationID]
	if !ok || task.taskID != taskID || s.closed {
		s.mu.Unlock()
		return
	}
	// Append before clearing the pending entry, so the typing flag holds
	// until the reply is visible and no second task can be admitted while
	// the write is in flight. AppendMessage is itself a no-op for a
	// deleted conversation, so even a delete racing this exact instant
	// cannot resurrect the record. The Manager never calls back into the
	// scheduler, so holding the lock across the append is safe.
	err := s.manager.AppendMessage(conversationID, model.SenderAssistant, s.body)
	delete(s.pending, conversationID)
	onReply := s.onReply
	s.mu.Unlock()

	if err != nil {
		return
	}

	if onReply != nil {
		onReply(conversationID)
	}
}

// Cancel stops the pending reply for a conversation, if any, and reports
// whether a task was cancelled.
func (s *ReplyScheduler) Cancel(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.pending[conversationID]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.pending, conversationID)
	return true
}

// IsTyping reports whether a reply is pending for the conversation. This is
// the "assistant is typing" display flag.
func (s *ReplyScheduler) IsTyping(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[conversationID]
	return ok
}

// PendingCount returns the number of in-flight reply tasks.
func (s *ReplyScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels every pending task. Scheduling after Close is a no-op; the
// scheduler is torn down with its owning context.
func (s *ReplyScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, task := range s.pending {
		task.timer.Stop()
		delete(s.pending, id)
	}
}
