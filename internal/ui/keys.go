package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// View switching
	ViewBrowse  key.Binding
	ViewEvents  key.Binding
	ViewAdmin   key.Binding
	ViewProfile key.Binding
	ViewLogin   key.Binding
	ViewSignup  key.Binding

	// Browse actions
	Search     key.Binding
	CycleGenre key.Binding
	Refresh    key.Binding
	Open       key.Binding
	Download   key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Admin actions
	SwitchTab key.Binding
	NewBook   key.Binding
	EditBook  key.Binding
	Delete    key.Binding

	// Form / input
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
	Submit    key.Binding

	// Events / profile
	Attend key.Binding
	Logout key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / close"),
		),

		ViewBrowse: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Browse books"),
		),
		ViewEvents: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Events"),
		),
		ViewAdmin: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Admin"),
		),
		ViewProfile: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Profile"),
		),
		ViewLogin: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Sign in"),
		),
		ViewSignup: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Sign up"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleGenre: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle genre"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open book"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Download PDF"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First entry"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last entry"),
		),

		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch tab"),
		),
		NewBook: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New book"),
		),
		EditBook: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit book"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete book"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),

		Attend: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "Attend event"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Sign out"),
		),
	}
}
