// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewConversation(t *testing.T) {
	conv := NewConversation("abc123")

	if conv.ID != "abc123" {
		t.Errorf("ID = %q, want %q", conv.ID, "abc123")
	}
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}
	if conv.Messages == nil {
		t.Error("Messages should be initialized, not nil")
	}
	if conv.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestConversationAppendPreservesOrder(t *testing.T) {
	conv := NewConversation("abc123")

	bodies := []string{"first", "second", "third", "fourth"}
	for _, b := range bodies {
		conv.Append(SenderUser, b)
	}

	if conv.MessageCount() != len(bodies) {
		t.Fatalf("MessageCount = %d, want %d", conv.MessageCount(), len(bodies))
	}
	for i, b := range bodies {
		if conv.Messages[i].Body != b {
			t.Errorf("Messages[%d].Body = %q, want %q", i, conv.Messages[i].Body, b)
		}
	}
}

func TestConversationTimestampsNonDecreasing(t *testing.T) {
	conv := NewConversation("abc123")
	for i := 0; i < 10; i++ {
		conv.Append(SenderUser, "msg")
	}

	for i := 1; i < len(conv.Messages); i++ {
		if conv.Messages[i].Timestamp.Before(conv.Messages[i-1].Timestamp) {
			t.Errorf("timestamp at %d precedes timestamp at %d", i, i-1)
		}
	}
}

func TestConversationFirstAndLast(t *testing.T) {
	conv := NewConversation("abc123")

	if _, ok := conv.FirstMessage(); ok {
		t.Error("FirstMessage on empty conversation should report !ok")
	}
	if _, ok := conv.LastMessage(); ok {
		t.Error("LastMessage on empty conversation should report !ok")
	}

	conv.Append(SenderUser, "hello")
	conv.Append(SenderAssistant, "hi there")

	first, _ := conv.FirstMessage()
	if first.Body != "hello" {
		t.Errorf("FirstMessage.Body = %q", first.Body)
	}
	last, _ := conv.LastMessage()
	if last.Body != "hi there" || last.Sender != SenderAssistant {
		t.Errorf("LastMessage = %+v", last)
	}
}

func TestConversationCloneIsDeep(t *testing.T) {
	conv := NewConversation("abc123")
	conv.Append(SenderUser, "original")

	clone := conv.Clone()
	clone.Messages[0].Body = "mutated"
	clone.Append(SenderUser, "extra")

	if conv.Messages[0].Body != "original" {
		t.Error("mutating clone changed the original message")
	}
	if conv.MessageCount() != 1 {
		t.Error("appending to clone changed the original length")
	}
}

func TestMessageIsImage(t *testing.T) {
	img := NewMessage(SenderUser, "data:image/png;base64,iVBORw0KGgo=")
	if !img.IsImage() {
		t.Error("data-URI body should be detected as image")
	}

	text := NewMessage(SenderUser, "just some text about data:image formats")
	if text.IsImage() {
		t.Error("prefix check must anchor at the start of the body")
	}
}

func TestMessagePreview(t *testing.T) {
	img := NewMessage(SenderUser, "data:image/png;base64,AAAA")
	if img.Preview(60) != "[image]" {
		t.Errorf("image preview = %q", img.Preview(60))
	}

	long := NewMessage(SenderUser, strings.Repeat("a", 100))
	got := long.Preview(20)
	if len([]rune(got)) != 20 || !strings.HasSuffix(got, "...") {
		t.Errorf("long preview = %q", got)
	}

	multi := NewMessage(SenderUser, "line one\nline two")
	if strings.Contains(multi.Preview(60), "\n") {
		t.Error("preview should collapse newlines")
	}
}

func TestSenderValid(t *testing.T) {
	if !SenderUser.Valid() || !SenderAssistant.Valid() {
		t.Error("known senders should be valid")
	}
	if Sender("system").Valid() {
		t.Error("unknown sender should be invalid")
	}
}

func TestSenderWireLiterals(t *testing.T) {
	// The durable record uses "user" and "assistant"; these literals are
	// load-bearing for anything reading chats.json.
	data, err := json.Marshal(NewMessage(SenderAssistant, "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sender":"assistant"`) {
		t.Errorf("assistant message serialized as %s", data)
	}

	data, err = json.Marshal(NewMessage(SenderUser, "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sender":"user"`) {
		t.Errorf("user message serialized as %s", data)
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != IDLength {
			t.Fatalf("id length = %d, want %d", len(id), IDLength)
		}
		for _, r := range id {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Fatalf("id contains unexpected rune %q", r)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewMessageStampsTime(t *testing.T) {
	before := time.Now()
	msg := NewMessage(SenderAssistant, "hello")
	after := time.Now()

	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", msg.Timestamp, before, after)
	}
}
