// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// TruncateText shortens text to at most maxWidth display columns, appending
// "..." when anything was cut. Width is measured in terminal cells so CJK and
// emoji previews line up in the sidebar and search list.
func TruncateText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, "...")
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FormatMonthDay renders a timestamp as "Jan 2" for list rows.
func FormatMonthDay(t time.Time) string {
	return t.Format("Jan 2")
}

// FirstLine returns text up to the first newline.
func FirstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == '\r' {
			return text[:i]
		}
	}
	return text
}
