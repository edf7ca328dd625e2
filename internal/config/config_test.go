// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Reply.MinDelayMs)
	assert.Equal(t, 10, cfg.Notify.TTLSecs)
	assert.Equal(t, "dark", cfg.UI.Mode)
}

func TestLoadFromPathOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[reply]
min_delay_ms = 100
max_delay_ms = 200
body = "hello"

[ui]
mode = "light"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.ReplyMinDelay())
	assert.Equal(t, 200*time.Millisecond, cfg.ReplyMaxDelay())
	assert.Equal(t, "hello", cfg.Reply.Body)
	assert.Equal(t, "light", cfg.UI.Mode)
	// Unspecified sections keep defaults.
	assert.Equal(t, 300, cfg.Search.DebounceMs)
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[reply]
min_delay_ms = 5000
max_delay_ms = 1000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_delay_ms")
}

func TestValidateBadMode(t *testing.T) {
	cfg := Default()
	cfg.UI.Mode = "sepia"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.mode")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_TUI_MODE", "light")
	t.Setenv("GEMINI_TUI_NO_INDEX", "1")
	t.Setenv("GEMINI_TUI_DEBOUNCE_MS", "150")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "light", cfg.UI.Mode)
	assert.False(t, cfg.Index.Enabled)
	assert.Equal(t, 150, cfg.Search.DebounceMs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.UI.Mode = "light"
	cfg.Reply.Body = "custom reply"
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Mode)
	assert.Equal(t, "custom reply", loaded.Reply.Body)
}
