// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is a durable, ordered thread of Messages identified by an
// opaque id. Messages are immutable once appended; the only destructive
// operation anywhere in the engine is whole-conversation deletion. Message
// bodies are opaque to the engine: plain text and base64 image payloads are
// carried in the same string field, distinguished only by a data-URI prefix.
package model
