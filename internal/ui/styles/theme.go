// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarPreview   lipgloss.Style
	SidebarTimestamp lipgloss.Style
	NewChatButton    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	TypingIndicator lipgloss.Style
	ImagePlaceholder lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// LOGIN SCREEN STYLES
	// ==========================================================================

	LoginBox     lipgloss.Style
	LoginTitle   lipgloss.Style
	LoginLabel   lipgloss.Style
	LoginError   lipgloss.Style
	CountryItem  lipgloss.Style
	CountryMatch lipgloss.Style

	// ==========================================================================
	// SEARCH VIEW STYLES
	// ==========================================================================

	SearchBox      lipgloss.Style
	SearchResult   lipgloss.Style
	SearchSelected lipgloss.Style
	SearchEmpty    lipgloss.Style

	// ==========================================================================
	// NOTIFICATION STYLES
	// ==========================================================================

	NotifySuccess   lipgloss.Style
	NotifyError     lipgloss.Style
	NotifyCountdown lipgloss.Style

	// ==========================================================================
	// DELETE CONFIRMATION STYLES
	// ==========================================================================

	ConfirmBox    lipgloss.Style
	ConfirmButton lipgloss.Style
	ConfirmDanger lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. The mode argument
// is "dark", "light", or "auto"; auto uses the terminal's background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.SidebarSelected = lipgloss.NewStyle().
		Background(SurfaceBright).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.SidebarPreview = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SidebarTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.NewChatButton = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 2).
		MarginRight(4)

	t.TypingIndicator = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ImagePlaceholder = lipgloss.NewStyle().
		Foreground(Blue).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Login
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)

	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue).
		MarginBottom(1)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(Rose)

	t.CountryItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CountryMatch = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	// Search
	t.SearchBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Blue).
		Padding(0, 1)

	t.SearchResult = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.SearchSelected = lipgloss.NewStyle().
		Background(SurfaceBright).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.SearchEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Notifications
	t.NotifySuccess = lipgloss.NewStyle().
		Foreground(Emerald).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Emerald).
		PaddingLeft(2)

	t.NotifyError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(2)

	t.NotifyCountdown = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Delete confirmation
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(1, 2)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ConfirmDanger = lipgloss.NewStyle().
		Background(Rose).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}
