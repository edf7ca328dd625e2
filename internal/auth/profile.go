// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Ayush-G09/gemini-tui/internal/util"
)

// ProfileFileName is where the logged-in identity lives inside the data
// directory.
const ProfileFileName = "userdata.json"

// Profile is the persisted login identity. Its presence on disk is what
// marks the user as logged in.
type Profile struct {
	CallingCode string    `json:"callingCode"`
	Phone       string    `json:"phone"`
	LoggedInAt  time.Time `json:"loggedInAt"`
}

// ProfileStore reads and writes the profile file.
type ProfileStore struct {
	Path string
}

// NewProfileStore creates a store rooted in dir.
func NewProfileStore(dir string) *ProfileStore {
	return &ProfileStore{Path: filepath.Join(dir, ProfileFileName)}
}

// Load returns the saved profile, or nil if none exists or the file is
// unreadable. Login state degrades to logged-out, never to an error.
func (s *ProfileStore) Load() *Profile {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.Phone == "" {
		return nil
	}
	return &p
}

// Save persists the profile atomically.
func (s *ProfileStore) Save(p *Profile) error {
	if p.LoggedInAt.IsZero() {
		p.LoggedInAt = time.Now()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return util.AtomicWriteFile(s.Path, data, 0o600)
}

// Clear removes the profile, logging the user out. Missing file is fine.
func (s *ProfileStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
