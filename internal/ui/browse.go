package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novelia/novelia/internal/api"
)

// renderBrowse renders the catalog as a card grid.
func (m Model) renderBrowse() string {
	styles := m.theme.Styles()

	if m.snapshot.LastError != nil && len(m.snapshot.Books) == 0 {
		return m.renderCentered(styles.DangerText.Render("Could not load the catalog") +
			"\n" + styles.MutedText.Render(humanize(m.snapshot.LastError)) +
			"\n\n" + styles.FaintText.Render("Press r to retry"))
	}

	if !m.snapshot.Fetched {
		return m.renderCentered(styles.MutedText.Render("Loading catalog..."))
	}

	if m.snapshot.Empty() {
		msg := "No books in the catalog yet"
		if m.search != "" || m.genre != "" {
			msg = "No books match the current filter"
		}
		return m.renderCentered(styles.MutedText.Render(msg))
	}

	cols := m.gridColumns()
	cards := make([]string, 0, len(m.snapshot.Books))
	for i, book := range m.snapshot.Books {
		cards = append(cards, m.renderCard(book, i == m.selected))
	}

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return strings.Join(rows, "\n")
}

// renderCard renders one book card.
func (m Model) renderCard(book api.Book, selected bool) string {
	styles := m.theme.Styles()
	inner := cardWidth - 4 // border + padding

	title := truncate(book.Title, inner)
	author := truncate("by "+book.Author, inner)

	var b strings.Builder
	if selected {
		b.WriteString(styles.Selected.Bold(true).Render(padRight(title, inner)))
	} else {
		b.WriteString(styles.Text.Bold(true).Render(title))
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(author))
	b.WriteString("\n")
	if book.Genre != "" {
		b.WriteString(styles.GenreStyle(book.Genre).Render(truncate(book.Genre, inner-2)))
	}
	b.WriteString("\n")
	if book.HasPDF() {
		b.WriteString(styles.SuccessText.Bold(false).Render("PDF available"))
	} else {
		b.WriteString(styles.FaintText.Render("No PDF"))
	}

	borderColor := m.theme.Border
	if selected {
		borderColor = m.theme.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(cardWidth - 2).
		Height(cardBodyLines).
		Render(b.String())
}

func (m Model) renderCentered(content string) string {
	return lipgloss.Place(
		m.width,
		max(1, m.height-headerLines),
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// gridColumns computes how many cards fit per row.
func (m Model) gridColumns() int {
	return max(1, m.width/cardWidth)
}

// handleBrowseKey processes keyboard input for the browse view.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Books)
	cols := m.gridColumns()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.CycleGenre):
		m.genre = nextGenre(m.genres(), m.genre)
		m.selected = 0
		m.savePrefs()
		return m, m.refreshCatalog()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCatalog()

	case key.Matches(msg, m.keys.Escape):
		if m.search != "" || m.genre != "" {
			m.search = ""
			m.genre = ""
			m.selected = 0
			return m, m.refreshCatalog()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if book, ok := m.selectedBook(); ok {
			return m, m.fetchDetail(book.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Download):
		if book, ok := m.selectedBook(); ok {
			return m.startDownload(book)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < count {
			m.selected += cols
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, count-1)
	}

	return m, nil
}

// handleSearchKey processes input while the search field is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		m.search = strings.TrimSpace(m.searchInput.Value())
		m.selected = 0
		return m, m.refreshCatalog()

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// selectedBook returns the highlighted catalog entry.
func (m Model) selectedBook() (api.Book, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Books) {
		return api.Book{}, false
	}
	return m.snapshot.Books[m.selected], true
}

// genres returns the distinct genres present in the loaded catalog,
// in first-seen order.
func (m Model) genres() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, book := range m.snapshot.Books {
		g := strings.TrimSpace(book.Genre)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// nextGenre cycles All -> g1 -> g2 -> ... -> All.
func nextGenre(genres []string, current string) string {
	if current == "" {
		if len(genres) == 0 {
			return ""
		}
		return genres[0]
	}
	for i, g := range genres {
		if g == current {
			if i+1 < len(genres) {
				return genres[i+1]
			}
			return ""
		}
	}
	return ""
}
