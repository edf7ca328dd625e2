// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Ayush-G09/gemini-tui/internal/auth"
	"github.com/Ayush-G09/gemini-tui/internal/directory"
	"github.com/Ayush-G09/gemini-tui/internal/notify"
)

// loginStep tracks progress through the login form.
type loginStep int

const (
	stepCountry loginStep = iota
	stepPhone
	stepCode
)

// countryList adapts the directory entries to fuzzy.Source.
type countryList []directory.CountryCode

func (c countryList) String(i int) string { return c[i].Name }
func (c countryList) Len() int            { return len(c) }

// loginModel is the phone + one-time code login screen.
type loginModel struct {
	app *App

	step      loginStep
	countries countryList
	filtered  []int // indices into countries
	selected  int

	filterInput textinput.Model
	phoneInput  textinput.Model
	codeInput   textinput.Model

	country directory.CountryCode
	errText string
}

func newLoginModel(app *App) *loginModel {
	filter := textinput.New()
	filter.Placeholder = "Search country"
	filter.CharLimit = 40
	filter.Focus()

	phone := textinput.New()
	phone.Placeholder = "Phone number"
	phone.CharLimit = auth.MaxPhoneDigits

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	return &loginModel{
		app:         app,
		filterInput: filter,
		phoneInput:  phone,
		codeInput:   code,
	}
}

// setCountries installs the fetched directory and resets the filter.
func (m *loginModel) setCountries(codes []directory.CountryCode) {
	m.countries = countryList(codes)
	m.refilter()
}

// refilter recomputes the visible country indices from the filter text.
func (m *loginModel) refilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.filtered = m.filtered[:0]
		for i := range m.countries {
			m.filtered = append(m.filtered, i)
		}
	} else {
		matches := fuzzy.FindFrom(query, m.countries)
		m.filtered = m.filtered[:0]
		for _, match := range matches {
			m.filtered = append(m.filtered, match.Index)
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

func (m *loginModel) update(msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}

	switch m.step {
	case stepCountry:
		return m.updateCountry(key)
	case stepPhone:
		return m.updatePhone(key)
	default:
		return m.updateCode(key)
	}
}

func (m *loginModel) updateCountry(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return nil
	case "down":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return nil
	case "enter":
		if len(m.filtered) == 0 {
			return nil
		}
		m.country = m.countries[m.filtered[m.selected]]
		m.step = stepPhone
		m.errText = ""
		m.filterInput.Blur()
		return m.phoneInput.Focus()
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(key)
	m.refilter()
	return cmd
}

func (m *loginModel) updatePhone(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.step = stepCountry
		m.errText = ""
		m.phoneInput.Blur()
		return m.filterInput.Focus()
	case "enter":
		phone := strings.TrimSpace(m.phoneInput.Value())
		if err := auth.ValidatePhone(phone); err != nil {
			m.errText = err.Error()
			return nil
		}
		code, err := m.app.deps.Verifier.SendCode(m.country.CallingCode, phone)
		if err != nil {
			m.errText = err.Error()
			return nil
		}
		// The notification stands in for the SMS.
		m.app.deps.Queue.Enqueue(notify.KindSuccess, "OTP Sent",
			fmt.Sprintf("Your verification code is %s", code))
		m.step = stepCode
		m.errText = ""
		m.phoneInput.Blur()
		return m.codeInput.Focus()
	}

	var cmd tea.Cmd
	m.phoneInput, cmd = m.phoneInput.Update(key)
	return cmd
}

func (m *loginModel) updateCode(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.step = stepPhone
		m.errText = ""
		m.codeInput.Blur()
		return m.phoneInput.Focus()
	case "enter":
		phone := strings.TrimSpace(m.phoneInput.Value())
		code := strings.TrimSpace(m.codeInput.Value())
		if err := m.app.deps.Verifier.Verify(m.country.CallingCode, phone, code); err != nil {
			m.errText = err.Error()
			return nil
		}
		if err := m.app.deps.Profiles.Save(&auth.Profile{
			CallingCode: m.country.CallingCode,
			Phone:       phone,
		}); err != nil {
			m.errText = "could not save login: " + err.Error()
			return nil
		}
		m.app.deps.Queue.Enqueue(notify.KindSuccess, "Welcome", "Logged in successfully")
		m.errText = ""
		return m.app.navigate(screenChat)
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(key)
	return cmd
}

// maxVisibleCountries bounds the picker height.
const maxVisibleCountries = 8

func (m *loginModel) view() string {
	t := m.app.theme
	var b strings.Builder

	b.WriteString(t.LoginTitle.Render("Sign in"))
	b.WriteString("\n")

	switch m.step {
	case stepCountry:
		b.WriteString(t.LoginLabel.Render("Select your country"))
		b.WriteString("\n")
		b.WriteString(m.filterInput.View())
		b.WriteString("\n\n")
		if len(m.countries) == 0 {
			b.WriteString(t.InputPlaceholder.Render("Loading countries..."))
		} else {
			start := 0
			if m.selected >= maxVisibleCountries {
				start = m.selected - maxVisibleCountries + 1
			}
			for i := start; i < len(m.filtered) && i < start+maxVisibleCountries; i++ {
				c := m.countries[m.filtered[i]]
				line := fmt.Sprintf("%s  %s", c.Name, c.CallingCode)
				if i == m.selected {
					b.WriteString(t.CountryMatch.Render("> " + line))
				} else {
					b.WriteString(t.CountryItem.Render("  " + line))
				}
				b.WriteString("\n")
			}
		}

	case stepPhone:
		b.WriteString(t.LoginLabel.Render(fmt.Sprintf("Phone number (%s %s)", m.country.Name, m.country.CallingCode)))
		b.WriteString("\n")
		b.WriteString(m.phoneInput.View())

	case stepCode:
		b.WriteString(t.LoginLabel.Render(fmt.Sprintf("Code sent to %s %s", m.country.CallingCode, m.phoneInput.Value())))
		b.WriteString("\n")
		b.WriteString(m.codeInput.View())
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(t.LoginError.Render(m.errText))
	}

	box := t.LoginBox.Render(b.String())
	if m.app.width > 0 && m.app.height > 0 {
		return lipgloss.Place(m.app.width, m.app.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
