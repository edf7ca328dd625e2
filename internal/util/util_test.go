// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chats.json")

	if err := AtomicWriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("content = %q, want %q", data, `[]`)
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte(`[{"id":"a"}]`), 0644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `[{"id":"a"}]` {
		t.Errorf("content after overwrite = %q", data)
	}
}

func TestAtomicWriteFileCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "state.json")

	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestAtomicWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	if err := AtomicWriteFile(path, []byte("ok"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only target file in dir, got %d entries", len(entries))
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short text unchanged", "hello", 20, "hello"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"long text truncated", "hello world this is long", 10, "hello w..."},
		{"zero width", "hello", 0, ""},
		{"tiny width no ellipsis", "hello", 2, "he"},
		{"empty input", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateText(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestFormatMonthDay(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	if got := FormatMonthDay(ts); got != "Mar 7" {
		t.Errorf("FormatMonthDay = %q, want %q", got, "Mar 7")
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("one\ntwo"); got != "one" {
		t.Errorf("FirstLine = %q", got)
	}
	if got := FirstLine("no newline"); got != "no newline" {
		t.Errorf("FirstLine = %q", got)
	}
}
