package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the endpoints and upload settings the client needs.
type Config struct {
	APIURL       string
	MediaURL     string
	UploadURL    string
	UploadPreset string
	CoverFolder  string
	PDFFolder    string
	DownloadDir  string
}

const (
	defaultConfigPath   = "~/.config/novelia/config.toml"
	defaultAPIURL       = "http://127.0.0.1:8000/api"
	defaultMediaURL     = "http://127.0.0.1:8000"
	defaultUploadURL    = "https://api.cloudinary.com/v1_1/dcw1m1rak/auto/upload"
	defaultUploadPreset = "book_uploads"
	defaultCoverFolder  = "books/covers"
	defaultPDFFolder    = "books/pdfs"
	defaultDownloadDir  = "~/Downloads"
)

// Load locates and parses the novelia config, falling back to defaults when
// missing. A .env file in the working directory and NOVELIA_* environment
// variables override whatever the file provides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return finish(cfg)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL       string `toml:"api_url"`
		MediaURL     string `toml:"media_url"`
		UploadURL    string `toml:"upload_url"`
		UploadPreset string `toml:"upload_preset"`
		CoverFolder  string `toml:"cover_folder"`
		PDFFolder    string `toml:"pdf_folder"`
		DownloadDir  string `toml:"download_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	overlay(&cfg.APIURL, raw.APIURL)
	overlay(&cfg.MediaURL, raw.MediaURL)
	overlay(&cfg.UploadURL, raw.UploadURL)
	overlay(&cfg.UploadPreset, raw.UploadPreset)
	overlay(&cfg.CoverFolder, raw.CoverFolder)
	overlay(&cfg.PDFFolder, raw.PDFFolder)
	overlay(&cfg.DownloadDir, raw.DownloadDir)

	applyEnv(&cfg)
	return finish(cfg)
}

func defaults() Config {
	return Config{
		APIURL:       defaultAPIURL,
		MediaURL:     defaultMediaURL,
		UploadURL:    defaultUploadURL,
		UploadPreset: defaultUploadPreset,
		CoverFolder:  defaultCoverFolder,
		PDFFolder:    defaultPDFFolder,
		DownloadDir:  defaultDownloadDir,
	}
}

// applyEnv overlays NOVELIA_* variables, loading a .env file first when one
// is present in the working directory.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	overlay(&cfg.APIURL, os.Getenv("NOVELIA_API_URL"))
	overlay(&cfg.MediaURL, os.Getenv("NOVELIA_MEDIA_URL"))
	overlay(&cfg.UploadURL, os.Getenv("NOVELIA_UPLOAD_URL"))
	overlay(&cfg.UploadPreset, os.Getenv("NOVELIA_UPLOAD_PRESET"))
	overlay(&cfg.DownloadDir, os.Getenv("NOVELIA_DOWNLOAD_DIR"))
}

func finish(cfg Config) (Config, error) {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.MediaURL = strings.TrimRight(strings.TrimSpace(cfg.MediaURL), "/")
	cfg.DownloadDir = mustExpand(cfg.DownloadDir)
	return cfg, nil
}

func overlay(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
