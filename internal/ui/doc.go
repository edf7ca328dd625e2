// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the Bubble Tea terminal interface.
//
// The interface has three screens: login (phone + one-time code), chat
// (sidebar of conversations plus the message view), and search. A root
// model owns the screen routing, the shared theme, and the notification
// stack; each screen is its own model updated only while active.
//
// Engine callbacks (simulated replies landing, notifications ticking,
// the chats file changing on disk) arrive as messages through
// program.Send, so all state changes flow through Update.
package ui
