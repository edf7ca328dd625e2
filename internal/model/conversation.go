// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"math/big"
	"time"
)

// IDLength is the length of generated conversation ids. The id doubles as
// the routable handle, so it stays short and URL-safe.
const IDLength = 12

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation holds an ordered message thread. Insertion order is semantic
// (chronological); messages are never reordered or deduplicated. A
// conversation with no messages is valid: it exists from creation until the
// first turn arrives.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewConversation creates an empty conversation with the given id.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		Messages:  make([]Message, 0),
		CreatedAt: time.Now(),
	}
}

// Append adds a message authored by sender with a fresh timestamp and
// returns it. Appends are sequential per conversation, so timestamps are
// monotonically non-decreasing.
func (c *Conversation) Append(sender Sender, body string) Message {
	msg := NewMessage(sender, body)
	c.Messages = append(c.Messages, msg)
	return msg
}

// FirstMessage returns the first message, or a zero Message if empty.
// The search filter and sidebar previews are defined over the first message.
func (c *Conversation) FirstMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[0], true
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short single-line summary from the first message.
func (c *Conversation) Preview(maxRunes int) string {
	first, ok := c.FirstMessage()
	if !ok {
		return "New chat"
	}
	return first.Preview(maxRunes)
}

// Clone returns a deep copy. The store and manager hand out clones so
// callers can never mutate durable state behind the manager's back.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Messages:  make([]Message, len(c.Messages)),
	}
	copy(clone.Messages, c.Messages)
	return clone
}

// =============================================================================
// ID GENERATION
// =============================================================================

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID creates a random alphanumeric conversation id.
func GenerateID() string {
	buf := make([]byte, IDLength)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the platform entropy source is
			// broken; fall back to a fixed character rather than panic.
			buf[i] = idAlphabet[0]
			continue
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf)
}
