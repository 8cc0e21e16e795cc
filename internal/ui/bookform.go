package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/form"
	"github.com/novelia/novelia/internal/session"
)

// Form field indices, in render order.
const (
	formTitle = iota
	formAuthor
	formGenre
	formDescription
	formCover
	formPDF
	formFieldCount
)

var formLabels = [formFieldCount]string{
	"Title", "Author", "Genre", "Description", "Cover image path", "PDF path",
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, formFieldCount)
	placeholders := [formFieldCount]string{
		"required", "required", "required", "",
		"path to a local image (optional)", "path to a local pdf (optional)",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 500
		inputs[i].Width = 48
		inputs[i].Placeholder = placeholders[i]
	}
	return inputs
}

func (m *Model) focusForm() {
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// startCreate opens the form modal for a new book.
func (m Model) startCreate() (tea.Model, tea.Cmd) {
	if _, err := m.gate.Require(true); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = ViewAdmin
			return m.enterLogin("Sign in to manage books")
		}
		m.setError(err)
		return m, nil
	}

	m.form.OpenCreate()
	m.loadDraftInputs()
	m.formOpen = true
	m.formEditing = false
	m.formErr = ""
	m.lastSubmitErr = nil
	m.formFocus = 0
	m.focusForm()
	return m, nil
}

// startEdit fetches the record, then opens the form modal pre-filled.
func (m Model) startEdit(id int64) (tea.Model, tea.Cmd) {
	if _, err := m.gate.Require(true); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = m.currentView
			return m.enterLogin("Sign in to manage books")
		}
		m.setError(err)
		return m, nil
	}

	ctx, ctrl := m.ctx, m.form
	return m, func() tea.Msg {
		return editReadyMsg{err: ctrl.OpenEdit(ctx, id)}
	}
}

func (m Model) handleEditReady(msg editReadyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.loadDraftInputs()
	m.formOpen = true
	m.formEditing = true
	m.formErr = ""
	m.lastSubmitErr = nil
	m.formFocus = 0
	m.focusForm()
	return m, nil
}

// loadDraftInputs copies the controller draft into the text inputs.
func (m *Model) loadDraftInputs() {
	d := m.form.Draft()
	m.formInputs[formTitle].SetValue(d.Title)
	m.formInputs[formAuthor].SetValue(d.Author)
	m.formInputs[formGenre].SetValue(d.Genre)
	m.formInputs[formDescription].SetValue(d.Description)
	m.formInputs[formCover].SetValue(d.CoverPath)
	m.formInputs[formPDF].SetValue(d.PDFPath)
}

// draftFromInputs builds a draft from the current input values.
func (m Model) draftFromInputs() form.Draft {
	return form.Draft{
		Title:       m.formInputs[formTitle].Value(),
		Author:      m.formInputs[formAuthor].Value(),
		Genre:       m.formInputs[formGenre].Value(),
		Description: m.formInputs[formDescription].Value(),
		CoverPath:   strings.TrimSpace(m.formInputs[formCover].Value()),
		PDFPath:     strings.TrimSpace(m.formInputs[formPDF].Value()),
	}
}

// handleFormKey processes keyboard input while the form modal is open.
// Everything except quit is ignored while a submit is in flight.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.form.Close()
		m.formOpen = false
		m.formErr = ""
		m.lastSubmitErr = nil
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.formFocus = (m.formFocus + 1) % formFieldCount
		m.focusForm()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.formFocus = (m.formFocus + formFieldCount - 1) % formFieldCount
		m.focusForm()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.Confirm):
		if m.formFocus < formFieldCount-1 {
			m.formFocus++
			m.focusForm()
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// submitForm hands the draft to the controller and runs the submit in the
// background. The controller uploads any attached files first and issues
// the create or update exactly once, only after every upload resolved.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	m.form.SetDraft(m.draftFromInputs())
	m.submitting = true
	m.formErr = ""

	ctx, ctrl := m.ctx, m.form
	return m, func() tea.Msg {
		result, err := ctrl.Submit(ctx)
		return submitMsg{result: result, err: err}
	}
}

func (m Model) handleSubmitResult(msg submitMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	if msg.err != nil {
		slog.Warn("book submit failed", "err", msg.err)
		if m.gate.Invalidate(msg.err) {
			m.form.Close()
			m.formOpen = false
			m.currentView = ViewLogin
			m.pendingView = ViewAdmin
			m.loginFocus = 0
			m.focusLogin()
			m.notice = "Session expired, sign in again"
			m.noticeErr = true
			return m, nil
		}

		m.formErr = humanize(msg.err)
		m.lastSubmitErr = msg.err
		// A failed upload clears the attached paths so they must be
		// re-attached deliberately; mirror that in the inputs.
		d := m.form.Draft()
		m.formInputs[formCover].SetValue(d.CoverPath)
		m.formInputs[formPDF].SetValue(d.PDFPath)
		return m, nil
	}

	m.formOpen = false
	m.lastSubmitErr = nil
	verb := "updated"
	if msg.result.Created {
		verb = "added"
	}
	m.setNotice(fmt.Sprintf("%q %s", msg.result.Book.Title, verb))
	return m, m.refreshCatalog()
}

// renderFormModal renders the create/edit dialog as a centered overlay.
func (m Model) renderFormModal() string {
	styles := m.theme.Styles()

	title := "Add a book"
	if m.formEditing {
		title = "Edit book"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i := range m.formInputs {
		label := formLabels[i]
		if i == m.formFocus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(m.formInputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(styles.WarningText.Render("Saving... uploads run first"))
	case m.formErr != "":
		b.WriteString(styles.DangerText.Render(truncate(m.formErr, 60)))
	default:
		b.WriteString(styles.FaintText.Render("ctrl+s to save, esc to discard"))
	}

	if len(m.fieldErrors()) > 0 {
		for _, line := range m.fieldErrors() {
			b.WriteString("\n")
			b.WriteString(styles.DangerText.Bold(false).Render(line))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// fieldErrors extracts per-field messages from the last submit failure.
func (m Model) fieldErrors() []string {
	var verr *api.ValidationError
	if !errors.As(m.lastSubmitErr, &verr) {
		return nil
	}
	var out []string
	for _, name := range []string{"title", "author", "genre", "description"} {
		if msg := verr.FieldError(name); msg != "" {
			out = append(out, titleCase(name)+": "+msg)
		}
	}
	return out
}
