// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable conversation persistence for gemini-tui.
//
// The store owns a single JSON file holding the whole conversation
// collection. Every write serializes the entire collection; the data set is
// small and local, so whole-file rewrites buy last-writer-wins atomicity
// without any merge logic. Reads fail open: missing or corrupt data yields
// an empty collection, never an error surfaced to the caller.
package storage
