package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// renderProfile renders the signed-in user's account details.
func (m Model) renderProfile() string {
	styles := m.theme.Styles()

	sess, ok := m.sessions.Get()
	if !ok {
		return m.renderCentered(styles.MutedText.Render("Not signed in"))
	}
	user := sess.User

	name := user.FullName()
	if name == "" {
		name = user.Username
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(name))
	if user.IsAdmin() {
		b.WriteString("  ")
		b.WriteString(styles.GenreStyle("").Render("admin"))
	}
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Email", user.Email},
		{"Username", user.Username},
		{"Phone", user.PhoneNumber},
		{"City", user.City},
		{"State", user.State},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(styles.MutedText.Render(padRight(row.label, 10)))
		b.WriteString(styles.Text.Render(row.value))
		b.WriteString("\n")
	}

	if joined := user.ParsedDateJoined(); !joined.IsZero() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Member since " + joined.Format("January 2006")))
	}

	return m.renderFormBox(b.String())
}

// handleProfileKey processes keyboard input for the profile view.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	}
	return m, nil
}

// fetchProfile asks the backend for the signed-in account.
func (m Model) fetchProfile() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		user, err := client.CurrentUser(ctx)
		return profileMsg{user: user, err: err}
	}
}

// handleProfileResult replaces the cached profile with the backend's copy.
// A revoked token surfaces here as unauthorized and tears the session down.
func (m Model) handleProfileResult(msg profileMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	if sess, ok := m.sessions.Get(); ok {
		sess.User = msg.user
		if err := m.sessions.Set(sess); err != nil {
			m.setError(err)
		}
	}
	return m, nil
}

// logout revokes the token on the backend; the local session is cleared
// when the result arrives, whether or not the revoke succeeded.
func (m Model) logout() (tea.Model, tea.Cmd) {
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		return logoutMsg{err: client.Logout(ctx)}
	}
}
