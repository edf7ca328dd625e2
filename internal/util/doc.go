// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for gemini-tui.
//
// It contains the atomic file write primitive used by every component that
// persists state (chat store, config, auth profile) and display-width-aware
// string helpers shared by the UI and CLI surfaces.
package util
