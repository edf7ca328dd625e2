// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL chat for the "chat" command.
//
// Provides a plain-terminal alternative to the TUI: each line is sent as
// a user message and the prompt blocks until the simulated reply lands.
//
// Interactive commands (during chat):
//   /new          Start a new conversation
//   /list         List conversations
//   /open <id>    Open a conversation by id
//   /delete       Delete the open conversation
//   /history      Print the open conversation
//   /quit, /q     Exit chat
//   Ctrl+D        Exit chat

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/Ayush-G09/gemini-tui/internal/engine"
	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/ui/styles"
	"github.com/Ayush-G09/gemini-tui/internal/util"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true)

	replyStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history stored in the data dir.
func NewChatCLI(dataDir string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	if dataDir == "" {
		dataDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dataDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with arrow-key history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// replyWait bounds how long the prompt blocks for a simulated reply.
// Generous enough for any sane configured delay.
const replyWait = 30 * time.Second

// RunChat runs the interactive REPL over the engine. It blocks until the
// user exits.
func RunChat(manager *engine.Manager, scheduler *engine.ReplyScheduler, dataDir string) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	cli := NewChatCLI(dataDir)
	defer cli.Close()

	// The reply normally arrives through the TUI's message pump; here the
	// REPL just waits on a channel the callback feeds.
	replied := make(chan string, 1)
	scheduler.SetOnReply(func(conversationID string) {
		select {
		case replied <- conversationID:
		default:
		}
	})
	defer scheduler.SetOnReply(nil)

	fmt.Println(infoStyle.Render("gemini-tui chat. /help for commands, Ctrl+D to exit."))

	var activeID string
	for {
		input, err := cli.ReadInput(promptStyle.Render("> "))
		if err != nil {
			// Ctrl+D or Ctrl+C ends the session.
			fmt.Println()
			return nil
		}

		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			done, newID := runChatCommand(manager, activeID, text)
			activeID = newID
			if done {
				return nil
			}
			continue
		}

		if activeID == "" {
			activeID = model.GenerateID()
			if err := manager.Create(activeID); err != nil {
				fmt.Fprintf(os.Stderr, "could not create conversation: %v\n", err)
				activeID = ""
				continue
			}
		}

		if err := manager.AppendMessage(activeID, model.SenderUser, text); err != nil {
			fmt.Fprintf(os.Stderr, "could not save message: %v\n", err)
			continue
		}

		if !scheduler.Schedule(activeID) {
			continue
		}

		fmt.Println(infoStyle.Render("Gemini is typing..."))
		select {
		case <-replied:
			conv := manager.Get(activeID)
			if conv != nil {
				if last, ok := conv.LastMessage(); ok && last.Sender == model.SenderAssistant {
					fmt.Println(replyStyle.Render(last.Body))
				}
			}
		case <-time.After(replyWait):
			fmt.Println(infoStyle.Render("(no reply)"))
		}
	}
}

// runChatCommand executes a slash command. It returns whether the REPL
// should exit, plus the (possibly changed) active conversation id.
func runChatCommand(manager *engine.Manager, activeID, text string) (bool, string) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/q":
		return true, activeID

	case "/new":
		return false, ""

	case "/list":
		for _, conv := range manager.List() {
			preview := conv.Preview(48)
			if preview == "" {
				preview = "(empty)"
			}
			fmt.Printf("%s  %s  %s\n", conv.ID, util.FormatMonthDay(conv.CreatedAt), preview)
		}
		return false, activeID

	case "/open":
		if len(fields) < 2 {
			fmt.Println("usage: /open <id>")
			return false, activeID
		}
		if manager.Get(fields[1]) == nil {
			fmt.Println("no such conversation")
			return false, activeID
		}
		return false, fields[1]

	case "/delete":
		if activeID == "" {
			fmt.Println("no open conversation")
			return false, activeID
		}
		if err := manager.Remove(activeID); err != nil {
			fmt.Fprintf(os.Stderr, "delete failed: %v\n", err)
			return false, activeID
		}
		fmt.Println("Chat deleted")
		return false, ""

	case "/history":
		conv := manager.Get(activeID)
		if conv == nil {
			fmt.Println("no open conversation")
			return false, activeID
		}
		for _, msg := range conv.Messages {
			who := "you"
			if msg.Sender == model.SenderAssistant {
				who = "gemini"
			}
			fmt.Printf("[%s] %s\n", who, msg.Preview(120))
		}
		return false, activeID

	case "/help", "/h":
		fmt.Println("/new /list /open <id> /delete /history /quit")
		return false, activeID

	default:
		fmt.Printf("unknown command %s\n", fields[0])
		return false, activeID
	}
}
