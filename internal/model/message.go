// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// SENDER
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser is a message typed (or attached) by the user.
	SenderUser Sender = "user"

	// SenderAssistant is a simulated assistant reply.
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether the sender is one of the known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// ImageBodyPrefix marks a message body as an embedded image payload.
// The engine never decodes the payload, only forwards it opaquely.
const ImageBodyPrefix = "data:image"

// =============================================================================
// MESSAGE
// =============================================================================

// Message is one turn in a conversation. Messages are immutable once
// appended: no in-place edits and no single-message deletion.
type Message struct {
	Sender    Sender    `json:"sender"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(sender Sender, body string) Message {
	return Message{
		Sender:    sender,
		Body:      body,
		Timestamp: time.Now(),
	}
}

// IsImage reports whether the body carries an embedded image payload.
func (m Message) IsImage() bool {
	return strings.HasPrefix(m.Body, ImageBodyPrefix)
}

// IsUser reports whether the message was authored by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Preview returns a single-line, rune-truncated rendering of the body for
// list rows. Image payloads collapse to a fixed tag so base64 noise never
// reaches a list view.
func (m Message) Preview(maxRunes int) string {
	if m.IsImage() {
		return "[image]"
	}

	body := strings.ReplaceAll(m.Body, "\n", " ")
	body = strings.ReplaceAll(body, "\r", "")

	runes := []rune(body)
	if maxRunes > 3 && len(runes) > maxRunes {
		return string(runes[:maxRunes-3]) + "..."
	}
	return body
}
