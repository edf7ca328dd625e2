// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the gemini-tui.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Blue - Primary accent, send button, links, selections
var Blue = lipgloss.AdaptiveColor{Light: "#388BFF", Dark: "#388BFF"}

// BlueDeep - Darker blue for backgrounds behind the accent
var BlueDeep = lipgloss.AdaptiveColor{Light: "#1D5FCC", Dark: "#123C7A"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Success notifications, sent-code confirmations
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, delete confirmations, failed fetches
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#131314"}

// SurfaceDim - Sidebar and header background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F0F4F9", Dark: "#1E1F20"}

// SurfaceBright - Message bubbles, hover highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#E9EEF6", Dark: "#282A2C"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#DDE3EA", Dark: "#3C4043"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#E3E3E3"}

// TextSecondary - Labels, previews, timestamps
var TextSecondary = lipgloss.AdaptiveColor{Light: "#575B5F", Dark: "#9AA0A6"}

// TextMuted - Placeholders, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#9AA0A6", Dark: "#5F6368"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#131314"}
