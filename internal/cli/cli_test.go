// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		wantQ   string
		wantDir string
	}{
		{"no args defaults to tui", nil, CmdTUI, "", ""},
		{"explicit tui", []string{"tui"}, CmdTUI, "", ""},
		{"chat", []string{"chat"}, CmdChat, "", ""},
		{"search joins words", []string{"search", "hello", "world"}, CmdSearch, "hello world", ""},
		{"version", []string{"version"}, CmdVersion, "", ""},
		{"version flag", []string{"--version"}, CmdVersion, "", ""},
		{"help", []string{"help"}, CmdHelp, "", ""},
		{"unknown falls to help", []string{"frobnicate"}, CmdHelp, "", ""},
		{"data dir flag", []string{"--data-dir", "/tmp/x", "chat"}, CmdChat, "", "/tmp/x"},
		{"data dir equals form", []string{"--data-dir=/tmp/y"}, CmdTUI, "", "/tmp/y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := parse(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("parse(%v) cmd = %d, want %d", tt.argv, cmd, tt.wantCmd)
			}
			if args.Query != tt.wantQ {
				t.Errorf("parse(%v) query = %q, want %q", tt.argv, args.Query, tt.wantQ)
			}
			if args.DataDir != tt.wantDir {
				t.Errorf("parse(%v) data dir = %q, want %q", tt.argv, args.DataDir, tt.wantDir)
			}
		})
	}
}
