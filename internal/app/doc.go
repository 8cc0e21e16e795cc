// Package app is the composition root for the Novelia client.
//
// Run wires configuration, the session store, the backend API client, the
// media uploader, the form controller, and the catalog store together, then
// hands everything to the UI and blocks until exit.
//
// Initialization order:
//
//  1. config.Load reads ~/.config/novelia/config.toml plus .env and
//     NOVELIA_* environment overrides
//  2. prefs.Load restores the theme and default genre filter
//  3. session.Open restores the saved token and profile, if any
//  4. api.NewClient talks to the bookstore backend, reading the token
//     through the session store on every request
//  5. media.NewCloudinary uploads cover images and PDFs ahead of saves
//  6. ui.Run starts the Bubble Tea loop (blocks)
//
// Fatal errors are limited to configuration and wiring problems. A missing
// or corrupt session file is not fatal: the client starts signed out. An
// unreachable backend is not fatal either; the UI shows the failure and the
// user can retry.
package app
