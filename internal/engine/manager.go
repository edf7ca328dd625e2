// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sync"

	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/storage"
)

// =============================================================================
// INDEXER HOOK
// =============================================================================

// Indexer receives conversation mutations for secondary indexing. The chat
// store stays the source of truth; index failures are ignored because the
// index can always be rebuilt from the store.
type Indexer interface {
	// IndexConversation (re)indexes a whole conversation.
	IndexConversation(conv *model.Conversation) error

	// RemoveConversation drops a conversation from the index.
	RemoveConversation(id string) error
}

// =============================================================================
// LIFECYCLE MANAGER
// =============================================================================

// Manager creates, mutates, and tears down conversation records. It is the
// single writer to the store; every mutation is a locked
// read-modify-write of the whole collection, which gives the same
// run-to-completion atomicity the browser client got for free from its
// single-threaded event loop.
type Manager struct {
	mu    sync.Mutex
	store *storage.ChatStore

	indexer  Indexer
	onChange func()

	// removeHooks run outside a Remove's critical section so a pending
	// reply timer for the deleted conversation is cancelled immediately.
	removeHooks []func(id string)
}

// NewManager creates a lifecycle manager over the given store.
func NewManager(store *storage.ChatStore) *Manager {
	return &Manager{store: store}
}

// SetIndexer attaches a secondary index. Pass nil to detach.
func (m *Manager) SetIndexer(idx Indexer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexer = idx
}

// SetOnChange registers a callback fired after every durable mutation.
// The callback runs on the mutating goroutine and must not call back into
// the Manager.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// registerRemoveHook adds a hook invoked with the conversation id after a
// successful Remove. Used by the reply scheduler to cancel pending tasks.
func (m *Manager) registerRemoveHook(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeHooks = append(m.removeHooks, fn)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Create inserts a new empty conversation unless the id already exists.
// Creating twice with the same id is a no-op, not an error.
func (m *Manager) Create(id string) error {
	if id == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conversations := m.store.ReadAll()
	for _, conv := range conversations {
		if conv.ID == id {
			return nil
		}
	}

	conversations = append(conversations, model.NewConversation(id))
	if err := m.store.WriteAll(conversations); err != nil {
		return err
	}

	m.notifyChangeLocked()
	return nil
}

// AppendMessage appends a message with a fresh timestamp and persists. If
// the id does not resolve to an existing conversation the call is a silent
// no-op: a reply timer racing a deletion must not resurrect anything.
func (m *Manager) AppendMessage(id string, sender model.Sender, body string) error {
	if id == "" || !sender.Valid() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-read before mutating; never trust a conversation cached earlier.
	conversations := m.store.ReadAll()

	var target *model.Conversation
	for _, conv := range conversations {
		if conv.ID == id {
			target = conv
			break
		}
	}
	if target == nil {
		return nil
	}

	target.Append(sender, body)
	if err := m.store.WriteAll(conversations); err != nil {
		return err
	}

	if m.indexer != nil {
		_ = m.indexer.IndexConversation(target)
	}
	m.notifyChangeLocked()
	return nil
}

// Remove deletes the conversation. Subsequent Get calls return nil and
// subsequent AppendMessage calls are no-ops. Removing an absent id is a
// no-op.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()

	conversations := m.store.ReadAll()
	kept := conversations[:0]
	removed := false
	for _, conv := range conversations {
		if conv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, conv)
	}

	if !removed {
		m.mu.Unlock()
		return nil
	}

	if err := m.store.WriteAll(kept); err != nil {
		m.mu.Unlock()
		return err
	}

	if m.indexer != nil {
		_ = m.indexer.RemoveConversation(id)
	}
	m.notifyChangeLocked()

	hooks := make([]func(string), len(m.removeHooks))
	copy(hooks, m.removeHooks)
	m.mu.Unlock()

	for _, hook := range hooks {
		hook(id)
	}
	return nil
}

// Get returns a deep copy of the conversation, or nil if absent. Callers
// treat nil as the not-found condition and redirect to the new-chat state.
func (m *Manager) Get(id string) *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.FindByID(id)
}

// List returns deep copies of all conversations, newest first.
func (m *Manager) List() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	conversations := m.store.ReadAllByCreation()
	out := make([]*model.Conversation, len(conversations))
	for i, conv := range conversations {
		out[i] = conv.Clone()
	}
	return out
}

// notifyChangeLocked fires the change callback. Caller holds m.mu.
func (m *Manager) notifyChangeLocked() {
	if m.onChange != nil {
		m.onChange()
	}
}
