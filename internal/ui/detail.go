package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/session"
)

// renderDetail renders the book detail view inside a viewport.
func (m Model) renderDetail() string {
	return m.detailViewport.View()
}

// renderDetailContent builds the scrollable body for one book.
func (m Model) renderDetailContent(book api.Book) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(book.Title))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("by " + book.Author))
	b.WriteString("\n\n")

	if book.Genre != "" {
		b.WriteString(styles.GenreStyle(book.Genre).Render(book.Genre))
		b.WriteString("\n\n")
	}

	if book.Description != "" {
		b.WriteString(styles.Text.Render(book.Description))
		b.WriteString("\n\n")
	}

	if book.CoverImage != "" {
		b.WriteString(styles.FaintText.Render("Cover: " + truncateMiddle(book.CoverImage, 70)))
		b.WriteString("\n")
	}
	if book.HasPDF() {
		b.WriteString(styles.SuccessText.Render("PDF available") +
			styles.MutedText.Render("  press d to download"))
	} else {
		b.WriteString(styles.FaintText.Render("No PDF for this title"))
	}
	b.WriteString("\n")

	if created := book.ParsedCreatedAt(); !created.IsZero() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Added " + created.Format("2 Jan 2006")))
	}

	return b.String()
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.Download):
		return m.startDownload(m.detailBook)

	case key.Matches(msg, m.keys.EditBook):
		return m.startEdit(m.detailBook.ID)
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// startDownload checks the session, then streams the PDF to the download
// directory in the background.
func (m Model) startDownload(book api.Book) (tea.Model, tea.Cmd) {
	if !book.HasPDF() {
		m.setNotice("This title has no PDF")
		return m, nil
	}
	if m.downloading {
		return m, nil
	}
	if _, err := m.gate.Require(false); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = m.currentView
			return m.enterLogin("Sign in to download books")
		}
		m.setError(err)
		return m, nil
	}

	m.downloading = true
	m.setNotice(fmt.Sprintf("Downloading %q...", book.Title))
	ctx, client, dir := m.ctx, m.client, m.config.DownloadDir
	return m, func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return downloadMsg{err: fmt.Errorf("create download dir: %w", err)}
		}
		path := filepath.Join(dir, downloadFilename(book.Title))
		f, err := os.Create(path)
		if err != nil {
			return downloadMsg{err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := client.DownloadBook(ctx, book.ID, f); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return downloadMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return downloadMsg{err: err}
		}
		return downloadMsg{path: path}
	}
}

// downloadFilename derives a safe file name from a book title.
func downloadFilename(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "book"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	name = replacer.Replace(name)
	return name + ".pdf"
}
