package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLogging_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "novelia.log")

	closer, err := initLogging(path)
	if err != nil {
		t.Fatalf("initLogging: %v", err)
	}
	t.Cleanup(func() { closer.Close() })

	slog.Info("hello", "answer", 42)

	bytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(bytes), "msg=hello") || !strings.Contains(string(bytes), "answer=42") {
		t.Fatalf("log file = %q, want the record written through slog", bytes)
	}
}

func TestInitLogging_BadPathDiscardsInsteadOfFailingLoud(t *testing.T) {
	dir := t.TempDir()

	// A directory where the file should be makes OpenFile fail.
	if _, err := initLogging(dir); err == nil {
		t.Fatalf("initLogging accepted a directory as the log file")
	}

	// The default logger must still be safe to use.
	slog.Info("dropped")
}
