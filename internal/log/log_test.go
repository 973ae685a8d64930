package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wallgrab/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &config.LoggingConfig{
		File:  "~/logs/wallgrab.log",
		Level: "DEBUG",
	}
	logger, err := SetupLogger(cfg)
	if err != nil {
		t.Fatalf("SetupLogger() error: %v", err)
	}
	logger.Debug("hello", "k", "v")

	path := filepath.Join(os.Getenv("HOME"), "logs", "wallgrab.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log entry not written as JSON:\n%s", data)
	}
}
