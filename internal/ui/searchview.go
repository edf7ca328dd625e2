// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ayush-G09/gemini-tui/internal/search"
	"github.com/Ayush-G09/gemini-tui/internal/util"
)

// searchModel is the conversation search screen. Keystrokes feed the
// debounced search view; results arrive asynchronously as a
// SearchResultsMsg.
type searchModel struct {
	app *App

	input    textinput.Model
	query    string
	results  []search.Result
	selected int
	searched bool
}

func newSearchModel(app *App) *searchModel {
	input := textinput.New()
	input.Placeholder = "Search conversations"
	input.CharLimit = 200
	return &searchModel{app: app, input: input}
}

// focus prepares the screen and runs an immediate search so the full
// list shows before the first keystroke.
func (m *searchModel) focus() tea.Cmd {
	m.input.SetValue("")
	m.query = ""
	m.results = m.app.deps.Search.Filter("")
	m.selected = 0
	m.searched = true
	return m.input.Focus()
}

// setResults installs debounced results. A stale query's results are
// dropped; only the latest evaluation counts.
func (m *searchModel) setResults(query string, results []search.Result) {
	if query != strings.TrimSpace(m.input.Value()) {
		return
	}
	m.query = query
	m.results = results
	m.searched = true
	if m.selected >= len(results) {
		m.selected = 0
	}
}

func (m *searchModel) update(msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}

	switch key.String() {
	case "esc":
		return m.app.navigate(screenChat)
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return nil
	case "down":
		if m.selected < len(m.results)-1 {
			m.selected++
		}
		return nil
	case "enter":
		if m.selected < len(m.results) {
			m.app.chat.activeID = m.results[m.selected].ID
			return m.app.navigate(screenChat)
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	m.app.deps.Search.OnQueryChange(strings.TrimSpace(m.input.Value()))
	return cmd
}

func (m *searchModel) view() string {
	t := m.app.theme
	var b strings.Builder

	b.WriteString(t.SearchBox.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case !m.searched:
		b.WriteString(t.SearchEmpty.Render("Type to search"))
	case len(m.results) == 0:
		b.WriteString(t.SearchEmpty.Render("No conversations found"))
	default:
		width := m.app.width - 16
		if width < 20 {
			width = 40
		}
		for i, r := range m.results {
			preview := r.Preview
			if preview == "" {
				preview = "New chat"
			}
			line := util.PadRight(util.TruncateText(preview, width), width) +
				" " + t.SidebarTimestamp.Render(util.FormatMonthDay(r.CreatedAt))
			if i == m.selected {
				b.WriteString(t.SearchSelected.Render(line))
			} else {
				b.WriteString(t.SearchResult.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" back") + "  " +
		t.ShortcutKey.Render("enter") + t.ShortcutDesc.Render(" open"))
	return t.Container.Render(b.String())
}
