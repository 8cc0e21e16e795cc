package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/session"
)

// renderAdmin renders the management view with its books and users tabs.
func (m Model) renderAdmin() string {
	styles := m.theme.Styles()

	var b strings.Builder

	booksTab := "Books"
	usersTab := "Users"
	if m.adminTab == TabBooks {
		b.WriteString(styles.Selected.Padding(0, 1).Render(booksTab))
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(usersTab))
	} else {
		b.WriteString(styles.MutedText.Render(booksTab))
		b.WriteString(" ")
		b.WriteString(styles.Selected.Padding(0, 1).Render(usersTab))
	}
	b.WriteString("\n\n")

	if m.adminTab == TabBooks {
		b.WriteString(m.renderBooksTable())
	} else {
		b.WriteString(m.renderUsersTable())
	}

	return b.String()
}

func (m Model) renderBooksTable() string {
	styles := m.theme.Styles()

	if len(m.snapshot.Books) == 0 {
		return styles.MutedText.Render("No books. Press n to add one.")
	}

	titleW, authorW, genreW := 34, 24, 12

	var b strings.Builder
	header := padRight("TITLE", titleW) + padRight("AUTHOR", authorW) + padRight("GENRE", genreW) + "PDF"
	b.WriteString(styles.FaintText.Bold(true).Render(header))
	b.WriteString("\n")

	for i, book := range m.snapshot.Books {
		row := padRight(truncate(book.Title, titleW-2), titleW) +
			padRight(truncate(book.Author, authorW-2), authorW) +
			padRight(truncate(book.Genre, genreW-2), genreW) +
			ternary(book.HasPDF(), "yes", "-")
		if i == m.adminRow {
			b.WriteString(styles.Selected.Render(row))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderUsersTable() string {
	styles := m.theme.Styles()

	if !m.usersFetched {
		return styles.MutedText.Render("Loading users...")
	}
	if len(m.users) == 0 {
		return styles.MutedText.Render("No registered users.")
	}

	nameW, emailW, cityW := 26, 32, 16

	var b strings.Builder
	header := padRight("NAME", nameW) + padRight("EMAIL", emailW) + padRight("CITY", cityW) + "ROLE"
	b.WriteString(styles.FaintText.Bold(true).Render(header))
	b.WriteString("\n")

	for i, user := range m.users {
		name := user.FullName()
		if name == "" {
			name = user.Username
		}
		row := padRight(truncate(name, nameW-2), nameW) +
			padRight(truncate(user.Email, emailW-2), emailW) +
			padRight(truncate(user.City, cityW-2), cityW) +
			ternary(user.IsAdmin(), "admin", "member")
		if i == m.adminRow {
			b.WriteString(styles.Selected.Render(row))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// handleAdminKey processes keyboard input for the admin view.
func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(m.snapshot.Books)
	if m.adminTab == TabUsers {
		rows = len(m.users)
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.SwitchTab):
		if m.adminTab == TabBooks {
			m.adminTab = TabUsers
		} else {
			m.adminTab = TabBooks
		}
		m.adminRow = 0
		if m.adminTab == TabUsers && !m.usersFetched {
			return m, m.fetchUsers()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.adminTab == TabUsers {
			return m, m.fetchUsers()
		}
		return m, m.refreshCatalog()

	case key.Matches(msg, m.keys.NewBook):
		if m.adminTab != TabBooks {
			return m, nil
		}
		return m.startCreate()

	case key.Matches(msg, m.keys.EditBook), key.Matches(msg, m.keys.Confirm):
		if m.adminTab != TabBooks {
			return m, nil
		}
		if book, ok := m.adminBook(); ok {
			return m.startEdit(book.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.adminTab != TabBooks {
			return m, nil
		}
		if book, ok := m.adminBook(); ok {
			return m.deleteBook(book)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.adminRow < rows-1 {
			m.adminRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.adminRow > 0 {
			m.adminRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.adminRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.adminRow = max(0, rows-1)
	}

	return m, nil
}

// adminBook returns the highlighted row of the books tab.
func (m Model) adminBook() (api.Book, bool) {
	if m.adminRow < 0 || m.adminRow >= len(m.snapshot.Books) {
		return api.Book{}, false
	}
	return m.snapshot.Books[m.adminRow], true
}

// deleteBook removes the record after an admin gate check.
func (m Model) deleteBook(book api.Book) (tea.Model, tea.Cmd) {
	if _, err := m.gate.Require(true); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = ViewAdmin
			return m.enterLogin("Sign in to manage books")
		}
		m.setError(err)
		return m, nil
	}

	m.setNotice(fmt.Sprintf("Deleting %q...", book.Title))
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		err := client.DeleteBook(ctx, book.ID)
		return deleteMsg{title: book.Title, err: err}
	}
}
