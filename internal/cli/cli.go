// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli handles command-line parsing and the non-TUI entry points.
//
// Commands:
//   - (none) / tui:  launch the full-screen interface
//   - chat:          interactive REPL chat without the TUI
//   - search <text>: search message bodies from the command line
//   - version:       print version information
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the selected top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdSearch
	CmdVersion
	CmdHelp
)

// Args holds parsed global flags and the remaining positional arguments.
type Args struct {
	// Query is the joined search text for CmdSearch.
	Query string

	// DataDir overrides the data directory (--data-dir).
	DataDir string

	// Raw holds the unparsed remainder.
	Raw []string
}

const usageText = `gemini-tui - a terminal chat client

Usage:
  gemini-tui                 Launch the TUI (default)
  gemini-tui chat            Interactive chat in the terminal, no TUI
  gemini-tui search <text>   Search message bodies
  gemini-tui version         Print version information

Flags:
  --data-dir DIR             Use DIR instead of ~/.gemini-tui

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("gemini-tui version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

// parse is the testable core of Parse.
func parse(argv []string) (Command, Args) {
	var args Args

	remaining := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		switch {
		case argv[i] == "--data-dir" && i+1 < len(argv):
			args.DataDir = argv[i+1]
			i++
		case strings.HasPrefix(argv[i], "--data-dir="):
			args.DataDir = strings.TrimPrefix(argv[i], "--data-dir=")
		default:
			remaining = append(remaining, argv[i])
		}
	}

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "chat":
		return CmdChat, args
	case "search":
		args.Query = strings.Join(args.Raw, " ")
		return CmdSearch, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		// Unknown commands fall through to help rather than erroring.
		return CmdHelp, args
	}
}
