// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/storage"
)

// ErrIndexClosed is returned by operations on a closed index.
var ErrIndexClosed = errors.New("search index closed")

// schema holds every message body so deep search can look beyond the first
// message the sidebar filter is defined over.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	conversation_id TEXT    NOT NULL,
	seq             INTEGER NOT NULL,
	sender          TEXT    NOT NULL,
	body            TEXT    NOT NULL,
	timestamp       TEXT    NOT NULL,
	PRIMARY KEY (conversation_id, seq)
);
`

// =============================================================================
// MESSAGE INDEX
// =============================================================================

// Index is a sqlite mirror of the chat store used for content search across
// whole conversations. The store remains the source of truth: the index can
// be dropped and rebuilt at any time.
type Index struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// MessageMatch is one message hit from a deep search.
type MessageMatch struct {
	ConversationID string
	Seq            int
	Sender         model.Sender
	Preview        string
	Timestamp      time.Time
}

// NewIndex opens (or creates) the index database at path.
func NewIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil
	}
	ix.closed = true
	return ix.db.Close()
}

// =============================================================================
// WRITE PATH (driven by the lifecycle manager)
// =============================================================================

// IndexConversation (re)indexes a whole conversation. Replacing all rows on
// every append keeps the write path trivial; collections here are tiny.
func (ix *Index) IndexConversation(conv *model.Conversation) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return ErrIndexClosed
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO conversations (id, created_at) VALUES (?, ?)`,
		conv.ID, conv.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	for seq, msg := range conv.Messages {
		if _, err := tx.Exec(
			`INSERT INTO messages (conversation_id, seq, sender, body, timestamp) VALUES (?, ?, ?, ?, ?)`,
			conv.ID, seq, msg.Sender.String(), msg.Body, msg.Timestamp.Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveConversation drops a conversation and its messages from the index.
func (ix *Index) RemoveConversation(id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return ErrIndexClosed
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Rebuild re-creates the whole index from the store.
func (ix *Index) Rebuild(store *storage.ChatStore) error {
	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return ErrIndexClosed
	}
	if _, err := ix.db.Exec(`DELETE FROM messages; DELETE FROM conversations;`); err != nil {
		ix.mu.Unlock()
		return err
	}
	ix.mu.Unlock()

	for _, conv := range store.ReadAll() {
		if err := ix.IndexConversation(conv); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchMessages returns messages whose body contains the query,
// case-insensitively, across all conversations. The empty query returns no
// matches; deep search is explicit, unlike the sidebar filter.
func (ix *Index) SearchMessages(query string) ([]MessageMatch, error) {
	if query == "" {
		return []MessageMatch{}, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil, ErrIndexClosed
	}

	rows, err := ix.db.Query(
		`SELECT conversation_id, seq, sender, body, timestamp
		   FROM messages
		  WHERE lower(body) LIKE '%' || lower(?) || '%'
		  ORDER BY timestamp DESC`,
		query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MessageMatch
	for rows.Next() {
		var (
			m      MessageMatch
			sender string
			body   string
			ts     string
		)
		if err := rows.Scan(&m.ConversationID, &m.Seq, &sender, &body, &ts); err != nil {
			return nil, err
		}
		m.Sender = model.Sender(sender)
		m.Preview = model.Message{Sender: m.Sender, Body: body}.Preview(80)
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.Timestamp = parsed
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ConversationCount returns the number of indexed conversations.
func (ix *Index) ConversationCount() (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return 0, ErrIndexClosed
	}

	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n)
	return n, err
}
