// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

// ThemeState is the persisted theme preference.
type ThemeState struct {
	Mode string
}

// Theme actions. Reduce applies exactly one of these.
type (
	// SetMode sets an explicit color mode.
	SetMode struct{ Mode string }
	// ToggleMode flips between light and dark.
	ToggleMode struct{}
)

// DefaultThemeState returns the initial theme preference.
func DefaultThemeState() ThemeState {
	return ThemeState{Mode: "dark"}
}

// Reduce returns the theme state after applying action. Unknown actions
// and unknown modes leave the state untouched.
func Reduce(state ThemeState, action any) ThemeState {
	switch a := action.(type) {
	case SetMode:
		switch a.Mode {
		case "light", "dark", "auto":
			state.Mode = a.Mode
		}
	case ToggleMode:
		if state.Mode == "light" {
			state.Mode = "dark"
		} else {
			state.Mode = "light"
		}
	}
	return state
}
