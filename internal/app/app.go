package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/config"
	"github.com/novelia/novelia/internal/events"
	"github.com/novelia/novelia/internal/form"
	"github.com/novelia/novelia/internal/media"
	"github.com/novelia/novelia/internal/prefs"
	"github.com/novelia/novelia/internal/session"
	"github.com/novelia/novelia/internal/state"
	"github.com/novelia/novelia/internal/ui"
)

// Options configure the Novelia application.
type Options struct {
	ConfigPath  string // empty uses default ~/.config/novelia/config.toml
	PrefsPath   string // empty uses default ~/.config/novelia/prefs.toml
	SessionPath string // empty uses default ~/.config/novelia/session.toml
	LogPath     string // empty uses default ~/.local/state/novelia/novelia.log
	APIURL      string // overrides the configured backend URL
}

// Run boots the Novelia TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	// A broken log file degrades to discarded logs, not a dead app.
	if logFile, err := initLogging(opts.LogPath); err == nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	sessions, err := session.Open(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL, sessions)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	uploader, err := media.NewCloudinary(cfg.UploadURL, cfg.UploadPreset, cfg.CoverFolder, cfg.PDFFolder)
	if err != nil {
		return fmt.Errorf("init uploader: %w", err)
	}

	gate := session.NewGate(sessions)
	controller := form.NewController(client, uploader)

	slog.Info("starting", "api", cfg.APIURL)

	return ui.Run(ui.Options{
		Context:      ctx,
		Client:       client,
		Catalog:      state.NewStore(),
		Sessions:     sessions,
		Gate:         gate,
		Form:         controller,
		Events:       events.NewService(sessions),
		Config:       &cfg,
		ThemeName:    userPrefs.Theme,
		DefaultGenre: userPrefs.DefaultGenre,
		PrefsPath:    opts.PrefsPath,
	})
}
