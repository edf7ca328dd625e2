// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ayush-G09/gemini-tui/internal/auth"
	"github.com/Ayush-G09/gemini-tui/internal/config"
	"github.com/Ayush-G09/gemini-tui/internal/directory"
	"github.com/Ayush-G09/gemini-tui/internal/engine"
	"github.com/Ayush-G09/gemini-tui/internal/notify"
	"github.com/Ayush-G09/gemini-tui/internal/search"
	"github.com/Ayush-G09/gemini-tui/internal/ui/styles"
)

// screen identifies the active top-level view.
type screen int

const (
	screenLogin screen = iota
	screenChat
	screenSearch
)

// Deps carries the wired engine collaborators into the UI.
type Deps struct {
	Config    *config.Config
	Manager   *engine.Manager
	Scheduler *engine.ReplyScheduler
	Queue     *notify.Queue
	Search    *search.View
	Profiles  *auth.ProfileStore
	Verifier  *auth.Verifier
	Directory *directory.Client
}

// App is the root model. It owns screen routing, the theme, and the
// notification stack; the active screen model handles everything else.
type App struct {
	deps  Deps
	theme *styles.Theme
	mode  ThemeState

	active screen
	login  *loginModel
	chat   *chatModel
	search *searchModel

	width  int
	height int

	markdown *glamour.TermRenderer
}

// NewApp builds the root model. A saved profile skips straight to chat.
func NewApp(deps Deps) *App {
	mode := ThemeState{Mode: deps.Config.UI.Mode}
	theme := styles.NewTheme(mode.Mode)

	a := &App{
		deps:  deps,
		theme: theme,
		mode:  mode,
	}

	if deps.Config.UI.Markdown {
		// Renderer creation can fail on exotic terminals; plain text is
		// the fallback.
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)); err == nil {
			a.markdown = r
		}
	}

	a.login = newLoginModel(a)
	a.chat = newChatModel(a)
	a.search = newSearchModel(a)

	if deps.Profiles.Load() != nil {
		a.active = screenChat
	} else {
		a.active = screenLogin
	}
	return a
}

// Init starts the country directory fetch when the login screen is first.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.chat.init()}
	if a.active == screenLogin {
		cmds = append(cmds, a.fetchCountries())
	}
	return tea.Batch(cmds...)
}

// fetchCountries loads the calling-code directory in the background.
func (a *App) fetchCountries() tea.Cmd {
	client := a.deps.Directory
	timeout := a.deps.Config.DirectoryTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		codes, err := client.FetchAll(ctx)
		if err != nil {
			return CountriesFailedMsg{Err: err}
		}
		return CountriesLoadedMsg{Codes: codes}
	}
}

// navigate switches the active screen.
func (a *App) navigate(to screen) tea.Cmd {
	a.active = to
	switch to {
	case screenChat:
		a.chat.refresh()
	case screenSearch:
		return a.search.focus()
	}
	return nil
}

// Update routes messages to the active screen after handling the
// app-level ones.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.Width = msg.Width
		a.theme.Height = msg.Height
		a.chat.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			a.mode = Reduce(a.mode, ToggleMode{})
			a.theme = styles.NewTheme(a.mode.Mode)
			return a, nil
		case "ctrl+x":
			// Dismiss the oldest toast, matching the card close button.
			if entries := a.deps.Queue.Entries(); len(entries) > 0 {
				a.deps.Queue.Dismiss(entries[0].IssuedAt)
			}
			return a, nil
		}

	case ReplyArrivedMsg, StoreChangedMsg:
		a.chat.refresh()
		return a, nil

	case NotificationsChangedMsg:
		// Redraw only; the queue already holds the new state.
		return a, nil

	case CountriesLoadedMsg:
		a.login.setCountries(msg.Codes)
		return a, nil

	case CountriesFailedMsg:
		a.deps.Queue.Enqueue(notify.KindError, "Error", "Could not load country codes")
		return a, nil

	case SearchResultsMsg:
		a.search.setResults(msg.Query, msg.Results)
		return a, nil
	}

	switch a.active {
	case screenLogin:
		return a, a.login.update(msg)
	case screenSearch:
		return a, a.search.update(msg)
	default:
		return a, a.chat.update(msg)
	}
}

// View renders the active screen with the notification stack on top.
func (a *App) View() string {
	var body string
	switch a.active {
	case screenLogin:
		body = a.login.view()
	case screenSearch:
		body = a.search.view()
	default:
		body = a.chat.view()
	}

	toasts := renderNotifications(a.theme, a.deps.Queue)
	if toasts == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, toasts, body)
}

// renderMarkdown renders assistant message bodies, falling back to the
// raw text when rendering is off or fails.
func (a *App) renderMarkdown(body string) string {
	if a.markdown == nil {
		return body
	}
	out, err := a.markdown.Render(body)
	if err != nil {
		return body
	}
	return out
}
