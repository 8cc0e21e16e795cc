// Package ui provides the Bubble Tea terminal interface for Novelia.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/config"
	"github.com/novelia/novelia/internal/events"
	"github.com/novelia/novelia/internal/form"
	"github.com/novelia/novelia/internal/media"
	"github.com/novelia/novelia/internal/prefs"
	"github.com/novelia/novelia/internal/session"
	"github.com/novelia/novelia/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewDetail
	ViewLogin
	ViewSignup
	ViewAdmin
	ViewEvents
	ViewProfile
)

// AdminTab selects the active admin panel.
type AdminTab int

const (
	TabBooks AdminTab = iota
	TabUsers
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       *api.Client
	Catalog      *state.Store
	Sessions     *session.Store
	Gate         *session.Gate
	Form         *form.Controller
	Events       *events.Service
	Config       *config.Config
	ThemeName    string
	PrefsPath    string
	DefaultGenre string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx       context.Context
	client    *api.Client
	catalog   *state.Store
	sessions  *session.Store
	gate      *session.Gate
	form      *form.Controller
	events    *events.Service
	config    *config.Config
	prefsPath string

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	pendingView View // restored after a sign-in redirect
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string
	noticeErr   bool

	// Catalog state
	snapshot    state.Snapshot
	lastUpdated time.Time
	refreshing  bool

	// Browse state
	selected    int
	searchInput textinput.Model
	searching   bool
	search      string
	genre       string

	// Detail state
	detailViewport viewport.Model
	detailBook     api.Book
	downloading    bool

	// Auth state
	loginInputs  []textinput.Model
	loginFocus   int
	signupInputs []textinput.Model
	signupFocus  int
	authBusy     bool

	// Admin state
	adminTab     AdminTab
	adminRow     int
	users        []api.User
	usersFetched bool

	// Form modal state
	formOpen      bool
	formEditing   bool
	formInputs    []textinput.Model
	formFocus     int
	submitting    bool
	formErr       string
	lastSubmitErr error

	// Events state
	eventRow int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		catalog:     opts.Catalog,
		sessions:    opts.Sessions,
		gate:        opts.Gate,
		form:        opts.Form,
		events:      opts.Events,
		config:      opts.Config,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewBrowse,
		genre:       opts.DefaultGenre,
	}

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "title or author"
	m.searchInput.Prompt = "/ "
	m.searchInput.CharLimit = 80

	m.loginInputs = newLoginInputs()
	m.signupInputs = newSignupInputs()
	m.formInputs = newFormInputs()

	// Init starts the first refresh on a copy of the model, so the
	// indicator has to be set here to survive.
	m.refreshing = true

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.refreshCatalog(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, max(1, msg.Height-headerLines))
		} else {
			m.detailViewport.Width = msg.Width
			m.detailViewport.Height = max(1, msg.Height-headerLines)
		}
		m.ready = true
		return m, nil

	case catalogMsg:
		return m.handleCatalog(msg)

	case detailMsg:
		return m.handleDetail(msg)

	case loginMsg:
		return m.handleLoginResult(msg)

	case signupMsg:
		return m.handleSignupResult(msg)

	case logoutMsg:
		return m.handleLogoutResult(msg)

	case usersMsg:
		return m.handleUsers(msg)

	case profileMsg:
		return m.handleProfileResult(msg)

	case editReadyMsg:
		return m.handleEditReady(msg)

	case submitMsg:
		return m.handleSubmitResult(msg)

	case deleteMsg:
		return m.handleDeleteResult(msg)

	case downloadMsg:
		return m.handleDownloadResult(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.formOpen {
		return m.renderFormModal()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBrowse:
		return m.renderBrowse()
	case ViewDetail:
		return m.renderDetail()
	case ViewLogin:
		return m.renderLogin()
	case ViewSignup:
		return m.renderSignup()
	case ViewAdmin:
		return m.renderAdmin()
	case ViewEvents:
		return m.renderEvents()
	case ViewProfile:
		return m.renderProfile()
	default:
		return ""
	}
}

// handleKey routes keyboard input by mode, then by view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, even mid-submit.
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.formOpen {
		return m.handleFormKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	// Text-entry views consume keys before global bindings.
	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewSignup:
		return m.handleSignupKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewBrowse):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.ViewEvents):
		m.currentView = ViewEvents
		return m, nil

	case key.Matches(msg, m.keys.ViewAdmin):
		return m.enterProtected(ViewAdmin, true)

	case key.Matches(msg, m.keys.ViewProfile):
		return m.enterProtected(ViewProfile, false)

	case key.Matches(msg, m.keys.ViewLogin):
		m.pendingView = ViewBrowse
		return m.enterLogin("")

	case key.Matches(msg, m.keys.ViewSignup):
		m.currentView = ViewSignup
		m.signupFocus = 0
		m.focusSignup()
		return m, nil
	}

	switch m.currentView {
	case ViewBrowse:
		return m.handleBrowseKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewAdmin:
		return m.handleAdminKey(msg)
	case ViewEvents:
		return m.handleEventsKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	}

	return m, nil
}

// enterProtected switches to a view that needs a session, redirecting to the
// sign-in form when none is held.
func (m Model) enterProtected(view View, admin bool) (tea.Model, tea.Cmd) {
	if _, err := m.gate.Require(admin); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.pendingView = view
			return m.enterLogin("Sign in to continue")
		}
		m.setError(err)
		return m, nil
	}
	m.currentView = view
	if view == ViewAdmin && m.adminTab == TabUsers && !m.usersFetched {
		return m, m.fetchUsers()
	}
	if view == ViewProfile {
		// Re-fetch the profile so the view shows the backend's copy, not
		// the cached one; this also surfaces a revoked token immediately.
		return m, m.fetchProfile()
	}
	return m, nil
}

func (m Model) enterLogin(notice string) (tea.Model, tea.Cmd) {
	m.currentView = ViewLogin
	m.loginFocus = 0
	m.loginInputs[1].SetValue("")
	m.focusLogin()
	if notice != "" {
		m.notice = notice
		m.noticeErr = false
	}
	return m, nil
}

// filter returns the active catalog filter.
func (m Model) filter() api.Filter {
	return api.Filter{Search: m.search, Genre: m.genre}
}

// setError records a failure on the status line. An unauthorized error
// additionally clears the session and forces the sign-in view.
func (m *Model) setError(err error) {
	if m.gate.Invalidate(err) {
		slog.Warn("session invalidated", "err", err)
		m.currentView = ViewLogin
		m.pendingView = ViewBrowse
		m.loginFocus = 0
		m.focusLogin()
		m.notice = "Session expired, sign in again"
		m.noticeErr = true
		return
	}
	m.notice = humanize(err)
	m.noticeErr = true
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeErr = false
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, DefaultGenre: m.genre})
}

// humanize shortens a failure for the status line.
func humanize(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrUnreachable):
		return "Cannot reach the Novelia backend"
	case errors.Is(err, api.ErrForbidden):
		return "You do not have permission to do that"
	case errors.Is(err, api.ErrNotFound):
		return "Not found"
	case errors.Is(err, media.ErrUploadRejected):
		return truncate("Upload rejected: "+err.Error(), 90)
	default:
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			return truncate(verr.Error(), 90)
		}
		return truncate(err.Error(), 90)
	}
}

// Messages

type catalogMsg struct {
	gen   uint64
	books []api.Book
	err   error
}

type detailMsg struct {
	book api.Book
	err  error
}

type loginMsg struct {
	creds api.Credentials
	err   error
}

type signupMsg struct {
	creds api.Credentials
	err   error
}

type logoutMsg struct {
	err error
}

type usersMsg struct {
	users []api.User
	err   error
}

type profileMsg struct {
	user api.User
	err  error
}

type editReadyMsg struct {
	err error
}

type submitMsg struct {
	result form.Result
	err    error
}

type deleteMsg struct {
	title string
	err   error
}

type downloadMsg struct {
	path string
	err  error
}

// Commands

// refreshCatalog begins a new catalog generation and fetches the listing.
// The generation travels with the result so a slow response for an old
// filter can never overwrite a newer one.
func (m *Model) refreshCatalog() tea.Cmd {
	gen := m.catalog.Begin(m.filter())
	m.refreshing = true
	ctx, client, filter := m.ctx, m.client, m.filter()
	return func() tea.Msg {
		books, err := client.ListBooks(ctx, filter)
		return catalogMsg{gen: gen, books: books, err: err}
	}
}

func (m Model) fetchDetail(id int64) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		book, err := client.GetBook(ctx, id)
		return detailMsg{book: book, err: err}
	}
}

func (m Model) fetchUsers() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		users, err := client.ListUsers(ctx)
		return usersMsg{users: users, err: err}
	}
}

// Message handlers

func (m Model) handleCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	if !m.catalog.Apply(msg.gen, msg.books, msg.err) {
		// A newer refresh is already in flight; drop this response whole.
		return m, nil
	}
	m.refreshing = false
	m.snapshot = m.catalog.Snapshot()
	m.lastUpdated = time.Now()
	if msg.err != nil {
		slog.Warn("catalog refresh failed", "err", msg.err)
		m.setError(msg.err)
	} else if m.selected >= len(m.snapshot.Books) {
		m.selected = max(0, len(m.snapshot.Books)-1)
	}
	return m, nil
}

func (m Model) handleDetail(msg detailMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.detailBook = msg.book
	m.detailViewport.SetContent(m.renderDetailContent(msg.book))
	m.detailViewport.GotoTop()
	m.currentView = ViewDetail
	return m, nil
}

func (m Model) handleUsers(msg usersMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.users = msg.users
	m.usersFetched = true
	if m.adminRow >= len(m.users) {
		m.adminRow = max(0, len(m.users)-1)
	}
	return m, nil
}

func (m Model) handleDeleteResult(msg deleteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.setNotice(fmt.Sprintf("Deleted %q", msg.title))
	return m, m.refreshCatalog()
}

func (m Model) handleDownloadResult(msg downloadMsg) (tea.Model, tea.Cmd) {
	m.downloading = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.setNotice("Saved to " + truncateMiddle(msg.path, 60))
	return m, nil
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
