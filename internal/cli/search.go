// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/Ayush-G09/gemini-tui/internal/search"
	"github.com/Ayush-G09/gemini-tui/internal/util"
)

// RunSearch prints message-level matches for the query, newest first.
// It uses the sqlite index when available and falls back to the
// first-message filter otherwise.
func RunSearch(index *search.Index, view *search.View, query string) error {
	if query == "" {
		fmt.Println("usage: gemini-tui search <text>")
		return nil
	}

	if index != nil {
		matches, err := index.SearchMessages(query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s  [%s]  %s\n", m.ConversationID, m.Sender, util.TruncateText(util.FirstLine(m.Preview), 100))
		}
		return nil
	}

	results := view.Filter(query)
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s  %s  %s\n", r.ID, util.FormatMonthDay(r.CreatedAt), util.TruncateText(r.Preview, 100))
	}
	return nil
}
