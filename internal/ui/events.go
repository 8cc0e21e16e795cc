package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novelia/novelia/internal/events"
	"github.com/novelia/novelia/internal/session"
)

// renderEvents renders the store event calendar.
func (m Model) renderEvents() string {
	styles := m.theme.Styles()
	list := m.events.List()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Upcoming events"))
	b.WriteString("\n\n")

	for i, event := range list {
		b.WriteString(m.renderEventCard(event, i == m.eventRow))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderEventCard(event events.Event, selected bool) string {
	styles := m.theme.Styles()

	var b strings.Builder
	if selected {
		b.WriteString(styles.Selected.Bold(true).Render(" " + event.Title + " "))
	} else {
		b.WriteString(styles.Text.Bold(true).Render(event.Title))
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(event.Date.Format("Mon 2 Jan, 15:04") + " · " + event.Venue))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(event.Description))
	b.WriteString("\n")

	count := fmt.Sprintf("%d attending", m.events.Headcount(event))
	if m.events.IsAttending(event.ID) {
		b.WriteString(styles.SuccessText.Render("✓ You are attending") +
			styles.MutedText.Render("  "+count))
	} else {
		b.WriteString(styles.MutedText.Render(count))
	}

	borderColor := m.theme.Border
	if selected {
		borderColor = m.theme.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Render(b.String())
}

// handleEventsKey processes keyboard input for the events view.
func (m Model) handleEventsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.events.List()

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.Attend):
		if m.eventRow < 0 || m.eventRow >= len(list) {
			return m, nil
		}
		return m.attendEvent(list[m.eventRow])

	case key.Matches(msg, m.keys.Down):
		if m.eventRow < len(list)-1 {
			m.eventRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.eventRow > 0 {
			m.eventRow--
		}
	}

	return m, nil
}

// attendEvent joins the selected event. Attending needs an account, so a
// guest is sent to the sign-in form first.
func (m Model) attendEvent(event events.Event) (tea.Model, tea.Cmd) {
	if _, err := m.gate.Require(false); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = ViewEvents
			return m.enterLogin("Sign in to attend events")
		}
		m.setError(err)
		return m, nil
	}

	switch err := m.events.Attend(event.ID); {
	case errors.Is(err, events.ErrAlreadyAttending):
		m.setNotice("Already attending " + event.Title)
	case err != nil:
		m.setError(err)
	default:
		m.setNotice("See you at " + event.Title)
	}
	return m, nil
}
