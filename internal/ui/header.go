package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("novelia", styles.Logo))

	// Session indicator
	if sess, ok := m.sessions.Get(); ok {
		name := sess.User.FullName()
		if name == "" {
			name = sess.User.Email
		}
		label := "● " + truncate(name, 24)
		if sess.User.IsAdmin() {
			label += " (admin)"
		}
		parts = append(parts, bg.Render(label, styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("● guest", styles.MutedText))
	}

	// Catalog count
	parts = append(parts,
		bg.Render("Books:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Books)), styles.Text),
	)

	// Active filter
	if m.genre != "" {
		parts = append(parts,
			bg.Render("Genre:", styles.MutedText)+bg.Space()+
				bg.Render(m.genre, styles.AccentText))
	}
	if m.search != "" {
		parts = append(parts,
			bg.Render("/"+truncate(m.search, 18), styles.AccentText))
	}

	if m.refreshing {
		parts = append(parts, bg.Render("Refreshing...", styles.FaintText))
	} else if !m.lastUpdated.IsZero() && !compact {
		parts = append(parts, bg.Render(m.lastUpdated.Format("15:04:05"), styles.MutedText))
	}

	// Status line notice or error
	if m.notice != "" {
		style := styles.InfoText
		if m.noticeErr {
			style = styles.DangerText
		}
		maxLen := 80
		if compact {
			maxLen = 40
		}
		parts = append(parts, bg.Render(truncate(m.notice, maxLen), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the command hints bar for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDetail:
		commands = []cmd{
			{"d", "Download"},
			{"e", "Edit"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case ViewLogin:
		commands = []cmd{
			{"enter", "Sign in"},
			{"tab", "Next field"},
			{"esc", "Cancel"},
		}
	case ViewSignup:
		commands = []cmd{
			{"enter", "Create account"},
			{"tab", "Next field"},
			{"esc", "Cancel"},
		}
	case ViewAdmin:
		commands = []cmd{
			{"tab", ternary(m.adminTab == TabBooks, "Users", "Books")},
			{"n", "New"},
			{"e", "Edit"},
			{"x", "Delete"},
			{"j/k", "Navigate"},
			{"b", "Browse"},
			{"?", "More"},
		}
	case ViewEvents:
		commands = []cmd{
			{"enter", "Attend"},
			{"j/k", "Navigate"},
			{"b", "Browse"},
			{"?", "More"},
		}
	case ViewProfile:
		commands = []cmd{
			{"o", "Sign out"},
			{"b", "Browse"},
			{"?", "More"},
		}
	default: // ViewBrowse
		commands = []cmd{
			{"/", "Search"},
			{"f", ternary(m.genre == "", "All genres", m.genre)},
			{"enter", "Open"},
			{"d", "Download"},
			{"r", "Refresh"},
			{"v", "Events"},
			{"A", "Admin"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Live search input replaces the hints while typing
	if m.searching {
		return styles.Header.Width(m.width).Render(m.searchInput.View())
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
