// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search provides the derived, debounced view over the chat store
// plus an optional sqlite-backed message index for deep content search.
//
// The View never mutates the store: it re-reads the collection when its
// debounce window closes and hands the caller filtered copies. The Index is
// a secondary structure fed by the lifecycle manager and rebuildable from
// the store at any time; losing it loses nothing durable.
package search
