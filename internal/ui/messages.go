// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/Ayush-G09/gemini-tui/internal/directory"
	"github.com/Ayush-G09/gemini-tui/internal/search"
)

// Messages bridging engine callbacks into the Bubble Tea update loop.
// Callbacks run on engine goroutines and must not touch model state, so
// they hand these to program.Send instead.
type (
	// ReplyArrivedMsg fires when a simulated assistant reply has been
	// appended to a conversation.
	ReplyArrivedMsg struct{ ConversationID string }

	// StoreChangedMsg fires when the chat store changed, either through
	// the manager or externally on disk.
	StoreChangedMsg struct{}

	// NotificationsChangedMsg fires when the notification stack or any
	// countdown changed.
	NotificationsChangedMsg struct{}

	// CountriesLoadedMsg carries the fetched country calling codes.
	CountriesLoadedMsg struct{ Codes []directory.CountryCode }

	// CountriesFailedMsg reports a failed directory fetch.
	CountriesFailedMsg struct{ Err error }

	// SearchResultsMsg carries debounced search results.
	SearchResultsMsg struct {
		Query   string
		Results []search.Result
	}
)
