// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ayush-G09/gemini-tui/internal/model"
)

func newTestStore(t *testing.T) *ChatStore {
	t.Helper()
	store, err := NewChatStoreWithPath(filepath.Join(t.TempDir(), "chats.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestReadAllMissingFile(t *testing.T) {
	store := newTestStore(t)

	got := store.ReadAll()
	if got == nil {
		t.Fatal("ReadAll should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("ReadAll on missing file = %d conversations, want 0", len(got))
	}
}

func TestReadAllCorruptFile(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Fail-open: corrupt data reads as empty, never errors.
	if got := store.ReadAll(); len(got) != 0 {
		t.Errorf("ReadAll on corrupt file = %d conversations, want 0", len(got))
	}
}

func TestWriteAllReadAllRoundTrip(t *testing.T) {
	store := newTestStore(t)

	a := model.NewConversation("aaaa11112222")
	a.Append(model.SenderUser, "hello world")
	a.Append(model.SenderAssistant, "This is a simulated AI reply.")
	b := model.NewConversation("bbbb33334444")

	if err := store.WriteAll([]*model.Conversation{a, b}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	got := store.ReadAll()
	if len(got) != 2 {
		t.Fatalf("ReadAll = %d conversations, want 2", len(got))
	}

	byID := map[string]*model.Conversation{}
	for _, conv := range got {
		byID[conv.ID] = conv
	}

	gotA, ok := byID["aaaa11112222"]
	if !ok {
		t.Fatal("conversation a missing after round trip")
	}
	if gotA.MessageCount() != 2 {
		t.Errorf("a.MessageCount = %d, want 2", gotA.MessageCount())
	}
	if gotA.Messages[0].Body != "hello world" || gotA.Messages[0].Sender != model.SenderUser {
		t.Errorf("a.Messages[0] = %+v", gotA.Messages[0])
	}
	if gotA.Messages[1].Sender != model.SenderAssistant {
		t.Errorf("a.Messages[1].Sender = %q", gotA.Messages[1].Sender)
	}

	gotB, ok := byID["bbbb33334444"]
	if !ok {
		t.Fatal("conversation b missing after round trip")
	}
	if !gotB.IsEmpty() {
		t.Error("empty conversation should survive the round trip empty")
	}
}

func TestWriteAllReplacesCollection(t *testing.T) {
	store := newTestStore(t)

	a := model.NewConversation("aaaa11112222")
	if err := store.WriteAll([]*model.Conversation{a}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	b := model.NewConversation("bbbb33334444")
	if err := store.WriteAll([]*model.Conversation{b}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	got := store.ReadAll()
	if len(got) != 1 || got[0].ID != "bbbb33334444" {
		t.Errorf("WriteAll should replace, not merge; got %d conversations", len(got))
	}
}

func TestWriteAllNil(t *testing.T) {
	store := newTestStore(t)

	if err := store.WriteAll(nil); err != nil {
		t.Fatalf("WriteAll(nil) failed: %v", err)
	}
	if len(store.ReadAll()) != 0 {
		t.Error("WriteAll(nil) should persist an empty collection")
	}
}

func TestFindByID(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("aaaa11112222")
	conv.Append(model.SenderUser, "hello")
	if err := store.WriteAll([]*model.Conversation{conv}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	if got := store.FindByID("nope"); got != nil {
		t.Error("FindByID for absent id should return nil")
	}

	got := store.FindByID("aaaa11112222")
	if got == nil {
		t.Fatal("FindByID returned nil for existing id")
	}

	// Returned value must be a copy: mutating it must not corrupt the store.
	got.Messages[0].Body = "mutated"
	again := store.FindByID("aaaa11112222")
	if again.Messages[0].Body != "hello" {
		t.Error("FindByID must return copies, not live references")
	}
}

func TestReadAllByCreation(t *testing.T) {
	store := newTestStore(t)

	old := model.NewConversation("old000000000")
	old.CreatedAt = time.Now().Add(-time.Hour)
	mid := model.NewConversation("mid000000000")
	mid.CreatedAt = time.Now().Add(-time.Minute)
	recent := model.NewConversation("new000000000")

	if err := store.WriteAll([]*model.Conversation{old, recent, mid}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	got := store.ReadAllByCreation()
	if len(got) != 3 {
		t.Fatalf("got %d conversations", len(got))
	}
	if got[0].ID != "new000000000" || got[1].ID != "mid000000000" || got[2].ID != "old000000000" {
		t.Errorf("order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestWatcherFiresOnWrite(t *testing.T) {
	store := newTestStore(t)

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(store, 50*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	conv := model.NewConversation("aaaa11112222")
	if err := store.WriteAll([]*model.Conversation{conv}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe the store write")
	}
}

func TestWatcherCloseStopsCallbacks(t *testing.T) {
	store := newTestStore(t)

	changed := make(chan struct{}, 8)
	w, err := NewWatcher(store, 20*time.Millisecond, func() {
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := store.WriteAll([]*model.Conversation{model.NewConversation("aaaa11112222")}); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	select {
	case <-changed:
		t.Error("closed watcher should not deliver callbacks")
	case <-time.After(200 * time.Millisecond):
	}
}
