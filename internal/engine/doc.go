// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns conversation lifecycle and the simulated reply flow.
//
// The Manager is the only writer to the chat store: it creates, appends to,
// and removes conversations, always re-reading durable state immediately
// before mutating it. Readers receive deep copies, so no UI surface can
// corrupt stored state behind the Manager's back.
//
// The ReplyScheduler models the asynchronous arrival of an assistant reply
// as a cancellable single-shot timer bound to one conversation. Deleting a
// conversation cancels its pending reply, so a late timer can never append
// to a defunct or re-keyed conversation.
package engine
