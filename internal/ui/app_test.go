// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-G09/gemini-tui/internal/auth"
	"github.com/Ayush-G09/gemini-tui/internal/config"
	"github.com/Ayush-G09/gemini-tui/internal/directory"
	"github.com/Ayush-G09/gemini-tui/internal/engine"
	"github.com/Ayush-G09/gemini-tui/internal/notify"
	"github.com/Ayush-G09/gemini-tui/internal/search"
	"github.com/Ayush-G09/gemini-tui/internal/storage"
)

// newTestApp wires a real App over throwaway state in a temp dir. Markdown
// rendering stays off so no terminal detection runs under the test binary.
func newTestApp(t *testing.T) *App {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewChatStoreWithPath(filepath.Join(dir, "chats.json"))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Storage.DataDir = dir
	cfg.UI.Markdown = false

	manager := engine.NewManager(store)
	scheduler := engine.NewReplyScheduler(manager, 30*time.Millisecond, 60*time.Millisecond, engine.DefaultReplyBody)
	t.Cleanup(scheduler.Close)
	queue := notify.NewQueue()
	t.Cleanup(queue.Close)
	view := search.NewView(store, 10*time.Millisecond)
	t.Cleanup(view.Close)

	return NewApp(Deps{
		Config:    cfg,
		Manager:   manager,
		Scheduler: scheduler,
		Queue:     queue,
		Search:    view,
		Profiles:  auth.NewProfileStore(dir),
		Verifier:  auth.NewVerifier(),
		Directory: directory.NewClientWithURL("http://127.0.0.1:1"),
	})
}

func TestDismissKeyRemovesOldestToast(t *testing.T) {
	app := newTestApp(t)

	first := app.deps.Queue.Enqueue(notify.KindSuccess, "First", "one")
	app.deps.Queue.Enqueue(notify.KindError, "Second", "two")
	require.Equal(t, 2, app.deps.Queue.Len())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlX})

	entries := app.deps.Queue.Entries()
	require.Len(t, entries, 1, "ctrl+x must drop exactly one toast")
	assert.Equal(t, "Second", entries[0].Title, "the oldest toast goes first")
	assert.NotEqual(t, first, entries[0].IssuedAt)
}

func TestDismissKeyWithEmptyQueueIsNoop(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, 0, app.deps.Queue.Len())
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, app.deps.Queue.Len())
}
