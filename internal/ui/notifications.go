// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/Ayush-G09/gemini-tui/internal/notify"
	"github.com/Ayush-G09/gemini-tui/internal/ui/styles"
)

// renderNotifications draws the visible toast stack, oldest first, each
// with its own countdown.
func renderNotifications(t *styles.Theme, queue *notify.Queue) string {
	entries := queue.Entries()
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for i, e := range entries {
		style := t.NotifySuccess
		if e.Kind == notify.KindError {
			style = t.NotifyError
		}

		line := e.Title
		if e.Body != "" {
			line += ": " + e.Body
		}
		line += " " + t.NotifyCountdown.Render(fmt.Sprintf("(%ds)", queue.Remaining(e)))

		b.WriteString(style.Render(line))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
