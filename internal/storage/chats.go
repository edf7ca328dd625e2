// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/util"
)

// DefaultFileName is the chat collection file inside the data directory.
const DefaultFileName = "chats.json"

// =============================================================================
// CHAT STORE
// =============================================================================

// ChatStore handles durable conversation persistence in one JSON file.
//
// The store is deliberately dumb: it has no partial updates and no caching.
// Mutating callers (the lifecycle manager) re-read immediately before
// writing, because multiple UI surfaces observe the store between actions.
type ChatStore struct {
	// Path is the JSON file holding the whole collection.
	Path string
}

// NewChatStore creates a store rooted at the user's data directory
// (~/.gemini-tui/chats.json).
func NewChatStore() (*ChatStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(homeDir, ".gemini-tui")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &ChatStore{Path: filepath.Join(dir, DefaultFileName)}, nil
}

// NewChatStoreWithPath creates a store backed by a specific file.
func NewChatStoreWithPath(path string) (*ChatStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &ChatStore{Path: path}, nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ReadAll returns every conversation currently durable, in storage order.
// Storage order is not guaranteed chronological; callers needing order must
// sort by CreatedAt (see ReadAllByCreation).
//
// ReadAll never fails: a missing file or corrupt JSON yields an empty
// collection. Losing a broken local demo file is better than wedging the
// whole client behind an unrecoverable parse error.
func (s *ChatStore) ReadAll() []*model.Conversation {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return []*model.Conversation{}
	}

	var conversations []*model.Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return []*model.Conversation{}
	}

	// Drop null entries a hand-edited file might contain.
	out := conversations[:0]
	for _, conv := range conversations {
		if conv != nil {
			out = append(out, conv)
		}
	}
	return out
}

// ReadAllByCreation returns all conversations sorted newest-first.
func (s *ChatStore) ReadAllByCreation() []*model.Conversation {
	conversations := s.ReadAll()
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations
}

// FindByID returns a deep copy of the conversation with the given id, or
// nil if absent.
func (s *ChatStore) FindByID(id string) *model.Conversation {
	for _, conv := range s.ReadAll() {
		if conv.ID == id {
			return conv.Clone()
		}
	}
	return nil
}

// Count returns the number of durable conversations.
func (s *ChatStore) Count() int {
	return len(s.ReadAll())
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// WriteAll replaces the entire durable collection. The write is atomic from
// the caller's perspective: on failure the prior collection is untouched.
// Last writer wins; there is no merge and no optimistic concurrency.
func (s *ChatStore) WriteAll(conversations []*model.Conversation) error {
	if conversations == nil {
		conversations = []*model.Conversation{}
	}

	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize conversations: %w", err)
	}

	if err := util.AtomicWriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write chat store: %w", err)
	}
	return nil
}
