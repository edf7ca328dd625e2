// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ayush-G09/gemini-tui/internal/util"
)

// sidebarPreviewWidth leaves room for the date column.
const sidebarPreviewWidth = sidebarWidth - 10

// handleSidebarKey processes keys while the conversation list has focus.
func (m *chatModel) handleSidebarKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.conversations)-1 {
			m.selected++
		}
	case "enter":
		if m.selected < len(m.conversations) {
			m.activeID = m.conversations[m.selected].ID
			m.focus = focusInput
			m.renderMessages()
			return m.input.Focus()
		}
	case "d", "delete":
		if m.selected < len(m.conversations) {
			m.confirmDelete = m.conversations[m.selected].ID
		}
	}
	return nil
}

// renderSidebar draws the conversation list, newest first.
func (m *chatModel) renderSidebar() string {
	t := m.app.theme
	var b strings.Builder

	b.WriteString(t.SidebarTitle.Render("Chats"))
	b.WriteString("\n")
	b.WriteString(t.NewChatButton.Render("+ New chat"))
	b.WriteString("\n\n")

	if len(m.conversations) == 0 {
		b.WriteString(t.SidebarPreview.Render("No conversations"))
	}

	for i, conv := range m.conversations {
		preview := conv.Preview(sidebarPreviewWidth)
		if preview == "" {
			preview = "New chat"
		}
		line := util.PadRight(util.TruncateText(preview, sidebarPreviewWidth), sidebarPreviewWidth) +
			" " + t.SidebarTimestamp.Render(util.FormatMonthDay(conv.CreatedAt))

		style := t.SidebarItem
		if m.focus == focusSidebar && i == m.selected {
			style = t.SidebarSelected
		} else if conv.ID == m.activeID {
			style = t.SidebarSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	height := m.height - 2
	if height < 4 {
		height = 4
	}
	return t.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}
