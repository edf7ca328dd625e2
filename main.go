// gemini-tui - a terminal chat client with simulated replies.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ayush-G09/gemini-tui/internal/auth"
	"github.com/Ayush-G09/gemini-tui/internal/cli"
	"github.com/Ayush-G09/gemini-tui/internal/config"
	"github.com/Ayush-G09/gemini-tui/internal/directory"
	"github.com/Ayush-G09/gemini-tui/internal/engine"
	"github.com/Ayush-G09/gemini-tui/internal/notify"
	"github.com/Ayush-G09/gemini-tui/internal/search"
	"github.com/Ayush-G09/gemini-tui/internal/storage"
	"github.com/Ayush-G09/gemini-tui/internal/ui"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Program reference for delivering engine callbacks into the TUI.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if args.DataDir != "" {
		cfg.Storage.DataDir = args.DataDir
	}

	dataDir, err := cfg.ResolvedDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewChatStoreWithPath(filepath.Join(dataDir, storage.DefaultFileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage error: %v\n", err)
		os.Exit(1)
	}

	manager := engine.NewManager(store)
	scheduler := engine.NewReplyScheduler(manager, cfg.ReplyMinDelay(), cfg.ReplyMaxDelay(), cfg.Reply.Body)
	defer scheduler.Close()

	// Optional sqlite message index. The chat store stays authoritative;
	// a broken index just loses deep search.
	var index *search.Index
	if cfg.Index.Enabled {
		indexPath := cfg.Index.Path
		if indexPath == "" {
			indexPath = filepath.Join(dataDir, "index.db")
		}
		if ix, err := search.NewIndex(indexPath); err == nil {
			index = ix
			defer index.Close()
			manager.SetIndexer(index)
			_ = index.Rebuild(store)
		}
	}

	searchView := search.NewView(store, cfg.SearchDebounce())
	searchView.SetFuzzyRank(cfg.Search.FuzzyRank)
	defer searchView.Close()

	switch cmd {
	case cli.CmdSearch:
		if err := cli.RunSearch(index, searchView, args.Query); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return

	case cli.CmdChat:
		if err := cli.RunChat(manager, scheduler, dataDir); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	runTUI(cfg, dataDir, store, manager, scheduler, searchView)
}

// runTUI wires the engine callbacks into a Bubble Tea program and runs it.
func runTUI(
	cfg *config.Config,
	dataDir string,
	store *storage.ChatStore,
	manager *engine.Manager,
	scheduler *engine.ReplyScheduler,
	searchView *search.View,
) {
	if !cli.IsTTY() {
		fmt.Fprintln(os.Stderr, "the TUI requires an interactive terminal; try 'gemini-tui chat'")
		os.Exit(1)
	}

	queue := notify.NewQueueWithTTL(cfg.NotifyTTL())
	defer queue.Close()

	dirURL := cfg.Directory.URL
	var dirClient *directory.Client
	if dirURL != "" {
		dirClient = directory.NewClientWithURL(dirURL)
	} else {
		dirClient = directory.NewClient()
	}

	app := ui.NewApp(ui.Deps{
		Config:    cfg,
		Manager:   manager,
		Scheduler: scheduler,
		Queue:     queue,
		Search:    searchView,
		Profiles:  auth.NewProfileStore(dataDir),
		Verifier:  auth.NewVerifier(),
		Directory: dirClient,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	programMu.Lock()
	programRef = program
	programMu.Unlock()

	// Engine callbacks run on timer and countdown goroutines; program.Send
	// funnels them into the update loop.
	scheduler.SetOnReply(func(conversationID string) {
		send(ui.ReplyArrivedMsg{ConversationID: conversationID})
	})
	manager.SetOnChange(func() {
		send(ui.StoreChangedMsg{})
	})
	queue.SetOnChange(func() {
		send(ui.NotificationsChangedMsg{})
	})
	searchView.SetOnResults(func(query string, results []search.Result) {
		send(ui.SearchResultsMsg{Query: query, Results: results})
	})

	// Reload when another process rewrites the chats file.
	if cfg.Storage.WatchFiles {
		if watcher, err := storage.NewWatcher(store, storage.DefaultWatchDebounce, func() {
			send(ui.StoreChangedMsg{})
		}); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// send delivers a message to the running program, dropping it when the
// program is not up yet.
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
