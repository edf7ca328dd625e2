// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/notify"
)

// focusZone tracks which pane receives keys in the chat screen.
type focusZone int

const (
	focusInput focusZone = iota
	focusSidebar
)

// sidebarWidth is the fixed conversation list width.
const sidebarWidth = 28

// chatModel is the main screen: conversation sidebar plus message view.
type chatModel struct {
	app *App

	conversations []*model.Conversation
	activeID      string
	selected      int
	focus         focusZone

	// confirmDelete holds the id awaiting delete confirmation, empty when
	// no confirmation is showing.
	confirmDelete string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
}

func newChatModel(app *App) *chatModel {
	input := textinput.New()
	input.Placeholder = "Message Gemini"
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &chatModel{
		app:     app,
		input:   input,
		spinner: sp,
	}
}

func (m *chatModel) init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *chatModel) resize(width, height int) {
	m.width = width
	m.height = height

	vpWidth := width - sidebarWidth - 4
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := height - 6
	if vpHeight < 4 {
		vpHeight = 4
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.renderMessages()
}

// refresh reloads the conversation list and the open transcript.
func (m *chatModel) refresh() {
	m.conversations = m.app.deps.Manager.List()
	if m.selected >= len(m.conversations) {
		m.selected = 0
	}

	// The open conversation may have been deleted externally.
	if m.activeID != "" && m.app.deps.Manager.Get(m.activeID) == nil {
		m.activeID = ""
	}
	m.renderMessages()
}

// active returns the open conversation, or nil for the new-chat state.
func (m *chatModel) active() *model.Conversation {
	if m.activeID == "" {
		return nil
	}
	return m.app.deps.Manager.Get(m.activeID)
}

func (m *chatModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.activeID != "" && m.app.deps.Scheduler.IsTyping(m.activeID) {
			m.renderMessages()
			return cmd
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *chatModel) handleKey(key tea.KeyMsg) tea.Cmd {
	// Delete confirmation swallows everything except its two answers.
	if m.confirmDelete != "" {
		switch key.String() {
		case "y", "enter":
			id := m.confirmDelete
			m.confirmDelete = ""
			if err := m.app.deps.Manager.Remove(id); err == nil {
				m.app.deps.Queue.Enqueue(notify.KindSuccess, "Deleted", "Chat deleted")
			}
			if m.activeID == id {
				m.activeID = ""
			}
			m.refresh()
		default:
			m.confirmDelete = ""
		}
		return nil
	}

	switch key.String() {
	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			return m.input.Focus()
		}
		return nil

	case "ctrl+n":
		m.activeID = ""
		m.focus = focusInput
		m.renderMessages()
		return m.input.Focus()

	case "ctrl+f":
		return m.app.navigate(screenSearch)

	case "ctrl+y":
		return m.copyLastReply()

	case "ctrl+l":
		if err := m.app.deps.Profiles.Clear(); err == nil {
			return m.app.navigate(screenLogin)
		}
		return nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(key)
	}

	switch key.String() {
	case "enter":
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return cmd
}

// send commits the composed message: a first message creates the
// conversation, and every user message schedules the simulated reply.
func (m *chatModel) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	body := text
	if path, ok := strings.CutPrefix(text, "/attach "); ok {
		encoded, err := encodeImage(strings.TrimSpace(path))
		if err != nil {
			m.app.deps.Queue.Enqueue(notify.KindError, "Error", "Could not attach image: "+err.Error())
			return nil
		}
		body = encoded
	}

	if m.activeID == "" {
		m.activeID = model.GenerateID()
		if err := m.app.deps.Manager.Create(m.activeID); err != nil {
			m.activeID = ""
			m.app.deps.Queue.Enqueue(notify.KindError, "Error", "Could not create chat")
			return nil
		}
	}

	if err := m.app.deps.Manager.AppendMessage(m.activeID, model.SenderUser, body); err != nil {
		m.app.deps.Queue.Enqueue(notify.KindError, "Error", "Could not save message")
		return nil
	}
	m.input.SetValue("")

	m.app.deps.Scheduler.Schedule(m.activeID)
	m.refresh()
	return m.spinner.Tick
}

// copyLastReply puts the newest assistant message on the clipboard.
func (m *chatModel) copyLastReply() tea.Cmd {
	conv := m.active()
	if conv == nil {
		return nil
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Sender == model.SenderAssistant {
			if err := clipboard.WriteAll(conv.Messages[i].Body); err == nil {
				m.app.deps.Queue.Enqueue(notify.KindSuccess, "Copied", "Reply copied to clipboard")
			}
			return nil
		}
	}
	return nil
}

// encodeImage reads a file and wraps it as a data URI, the same shape the
// store uses for image message bodies.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// renderMessages rebuilds the viewport content for the open conversation.
func (m *chatModel) renderMessages() {
	if m.viewport.Width == 0 {
		return
	}
	t := m.app.theme

	conv := m.active()
	if conv == nil {
		m.viewport.SetContent(t.InputPlaceholder.Render("Start a new conversation"))
		return
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		body := msg.Body
		if msg.IsImage() {
			body = t.ImagePlaceholder.Render("[image]")
		}
		if msg.Sender == model.SenderUser {
			b.WriteString(t.UserBubble.Render(body))
		} else {
			b.WriteString(t.AssistantBubble.Render(m.app.renderMarkdown(body)))
		}
		b.WriteString("\n")
	}

	if m.app.deps.Scheduler.IsTyping(conv.ID) {
		b.WriteString(t.TypingIndicator.Render(m.spinner.View() + " Gemini is typing"))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *chatModel) view() string {
	t := m.app.theme

	if m.confirmDelete != "" {
		confirm := t.ConfirmBox.Render(
			"Delete this chat?\n\n" +
				t.ConfirmDanger.Render(" y: delete ") + " " +
				t.ConfirmButton.Render(" any other key: cancel "))
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirm)
		}
		return confirm
	}

	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		t.InputContainer.Render(t.InputPrompt.Render("> ")+m.input.View()),
		m.renderStatusBar(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m *chatModel) renderStatusBar() string {
	t := m.app.theme
	parts := []string{
		t.ShortcutKey.Render("tab") + t.ShortcutDesc.Render(" sidebar"),
		t.ShortcutKey.Render("^n") + t.ShortcutDesc.Render(" new"),
		t.ShortcutKey.Render("^f") + t.ShortcutDesc.Render(" search"),
		t.ShortcutKey.Render("^y") + t.ShortcutDesc.Render(" copy"),
		t.ShortcutKey.Render("^t") + t.ShortcutDesc.Render(" theme"),
		t.ShortcutKey.Render("^x") + t.ShortcutDesc.Render(" dismiss"),
		t.ShortcutKey.Render("^l") + t.ShortcutDesc.Render(" logout"),
	}
	return t.StatusBar.Render(strings.Join(parts, "  "))
}
