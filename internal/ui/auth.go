package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/session"
)

// Login field indices.
const (
	loginEmail = iota
	loginPassword
	loginFieldCount
)

// Signup field indices, in render order.
const (
	signupFirstName = iota
	signupLastName
	signupUsername
	signupEmail
	signupPhone
	signupState
	signupCity
	signupPassword
	signupConfirm
	signupFieldCount
)

func newLoginInputs() []textinput.Model {
	inputs := make([]textinput.Model, loginFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 120
		inputs[i].Width = 36
	}
	inputs[loginEmail].Placeholder = "email"
	inputs[loginPassword].Placeholder = "password"
	inputs[loginPassword].EchoMode = textinput.EchoPassword
	return inputs
}

func newSignupInputs() []textinput.Model {
	inputs := make([]textinput.Model, signupFieldCount)
	placeholders := [signupFieldCount]string{
		"first name", "last name", "username", "email",
		"phone number", "state", "city", "password", "confirm password",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 120
		inputs[i].Width = 36
		inputs[i].Placeholder = placeholders[i]
	}
	inputs[signupPassword].EchoMode = textinput.EchoPassword
	inputs[signupConfirm].EchoMode = textinput.EchoPassword
	return inputs
}

func (m *Model) focusLogin() {
	for i := range m.loginInputs {
		if i == m.loginFocus {
			m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
}

func (m *Model) focusSignup() {
	for i := range m.signupInputs {
		if i == m.signupFocus {
			m.signupInputs[i].Focus()
		} else {
			m.signupInputs[i].Blur()
		}
	}
}

// renderLogin renders the sign-in form.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sign in to Novelia"))
	b.WriteString("\n\n")
	for i := range m.loginInputs {
		b.WriteString(m.loginInputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.authBusy {
		b.WriteString(styles.MutedText.Render("Signing in..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter to sign in, S to create an account"))
	}

	return m.renderFormBox(b.String())
}

// renderSignup renders the account creation form.
func (m Model) renderSignup() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Create a Novelia account"))
	b.WriteString("\n\n")
	for i := range m.signupInputs {
		b.WriteString(m.signupInputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.authBusy {
		b.WriteString(styles.MutedText.Render("Creating account..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter to create the account"))
	}

	return m.renderFormBox(b.String())
}

func (m Model) renderFormBox(content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(content)
	return m.renderCentered(box)
}

// handleLoginKey processes keyboard input for the sign-in form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.ViewSignup):
		// Mirrors the site flow where the sign-in page links to signup.
		if m.loginInputs[m.loginFocus].Value() == "" {
			m.currentView = ViewSignup
			m.signupFocus = 0
			m.focusSignup()
			return m, nil
		}

	case key.Matches(msg, m.keys.NextField):
		m.loginFocus = (m.loginFocus + 1) % loginFieldCount
		m.focusLogin()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.loginFocus = (m.loginFocus + loginFieldCount - 1) % loginFieldCount
		m.focusLogin()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.loginFocus < loginFieldCount-1 {
			m.loginFocus++
			m.focusLogin()
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

// handleSignupKey processes keyboard input for the signup form.
func (m Model) handleSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.signupFocus = (m.signupFocus + 1) % signupFieldCount
		m.focusSignup()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.signupFocus = (m.signupFocus + signupFieldCount - 1) % signupFieldCount
		m.focusSignup()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.signupFocus < signupFieldCount-1 {
			m.signupFocus++
			m.focusSignup()
			return m, nil
		}
		return m.submitSignup()
	}

	var cmd tea.Cmd
	m.signupInputs[m.signupFocus], cmd = m.signupInputs[m.signupFocus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.loginInputs[loginEmail].Value())
	password := m.loginInputs[loginPassword].Value()
	if email == "" || password == "" {
		m.notice = "Email and password are required"
		m.noticeErr = true
		return m, nil
	}

	m.authBusy = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		creds, err := client.Login(ctx, email, password)
		return loginMsg{creds: creds, err: err}
	}
}

func (m Model) submitSignup() (tea.Model, tea.Cmd) {
	payload := api.SignupPayload{
		FirstName:       strings.TrimSpace(m.signupInputs[signupFirstName].Value()),
		LastName:        strings.TrimSpace(m.signupInputs[signupLastName].Value()),
		Username:        strings.TrimSpace(m.signupInputs[signupUsername].Value()),
		Email:           strings.TrimSpace(m.signupInputs[signupEmail].Value()),
		PhoneNumber:     strings.TrimSpace(m.signupInputs[signupPhone].Value()),
		State:           strings.TrimSpace(m.signupInputs[signupState].Value()),
		City:            strings.TrimSpace(m.signupInputs[signupCity].Value()),
		Password:        m.signupInputs[signupPassword].Value(),
		PasswordConfirm: m.signupInputs[signupConfirm].Value(),
	}

	if payload.Password != payload.PasswordConfirm {
		m.notice = "Passwords do not match"
		m.noticeErr = true
		return m, nil
	}

	m.authBusy = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		creds, err := client.Signup(ctx, payload)
		return signupMsg{creds: creds, err: err}
	}
}

func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	return m.installSession(msg.creds, "Welcome back")
}

func (m Model) handleSignupResult(msg signupMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	return m.installSession(msg.creds, "Account created")
}

// installSession persists the credentials and resumes the interrupted view.
func (m Model) installSession(creds api.Credentials, greeting string) (tea.Model, tea.Cmd) {
	if err := m.sessions.Set(session.Session{Token: creds.Token, User: creds.User}); err != nil {
		m.setError(err)
		return m, nil
	}

	m.loginInputs[loginPassword].SetValue("")
	m.signupInputs[signupPassword].SetValue("")
	m.signupInputs[signupConfirm].SetValue("")

	target := m.pendingView
	if target == ViewLogin || target == ViewSignup {
		target = ViewBrowse
	}
	m.pendingView = ViewBrowse

	// Re-check the gate for admin-only targets: the account that just
	// signed in may not hold the role the redirect was for.
	if target == ViewAdmin {
		if _, err := m.gate.Require(true); err != nil {
			m.setError(err)
			m.currentView = ViewBrowse
			return m, nil
		}
	}

	m.currentView = target
	name := creds.User.FullName()
	if name == "" {
		name = creds.User.Email
	}
	m.setNotice(greeting + ", " + name)
	return m, nil
}

func (m Model) handleLogoutResult(msg logoutMsg) (tea.Model, tea.Cmd) {
	// The local session is cleared regardless: a failed revoke on the
	// backend must not leave the client signed in.
	if err := m.sessions.Clear(); err != nil {
		m.setError(err)
		return m, nil
	}
	m.currentView = ViewBrowse
	if msg.err != nil {
		m.setNotice("Signed out (token revoke failed)")
	} else {
		m.setNotice("Signed out")
	}
	return m, nil
}
