package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giygas/symptoms-api/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      config.Environment
		level    string
		expected slog.Level
	}{
		{"dev defaults to info", config.EnvDevelopment, "", slog.LevelInfo},
		{"prod defaults to warn", config.EnvProduction, "", slog.LevelWarn},
		{"staging defaults to warn", config.EnvStaging, "", slog.LevelWarn},
		{"prod with debug override", config.EnvProduction, "debug", slog.LevelDebug},
		{"test ignores override", config.EnvTest, "debug", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsoleLogLevel(tt.env, tt.level); got != tt.expected {
				t.Errorf("ConsoleLogLevel(%v, %q) = %v, want %v", tt.env, tt.level, got, tt.expected)
			}
		})
	}
}

func TestPackageFunctionsUseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	InitTestLogger(&buf)
	defer func() { DefaultLoggingService = nil }()

	Debug("debug line", "k", 1)
	Info("info line")
	Warn("warn line")
	Error("error line")

	for _, want := range []string{"debug line", "k=1", "info line", "warn line", "error line"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got: %s", want, buf.String())
		}
	}
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	InitLogger(Options{Dir: dir, Env: config.EnvTest, RetentionWeeks: 1, MaxFileSize: 1024 * 1024})
	defer func() {
		_ = Close()
		DefaultLoggingService = nil
	}()

	Info("dataset loaded", "diseases", 3)

	content, err := os.ReadFile(filepath.Join(dir, logFilePrefix+weekKey(time.Now())+".log"))
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if !strings.Contains(string(content), `"msg":"dataset loaded"`) || !strings.Contains(string(content), `"diseases":3`) {
		t.Errorf("unexpected file content: %s", content)
	}
}

func TestRotatingFileSizeRollover(t *testing.T) {
	dir := t.TempDir()
	rf, err := NewRotatingFile(dir, 1, 10)
	if err != nil {
		t.Fatalf("NewRotatingFile: %v", err)
	}
	defer rf.Close()

	if _, err := rf.Write([]byte("12345678\n")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := rf.Write([]byte("abcdefgh\n")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	week := weekKey(time.Now())
	first, err := os.ReadFile(rf.fileName(week, 0))
	if err != nil || string(first) != "12345678\n" {
		t.Errorf("first file = %q, %v", first, err)
	}
	second, err := os.ReadFile(rf.fileName(week, 1))
	if err != nil || string(second) != "abcdefgh\n" {
		t.Errorf("second file = %q, %v", second, err)
	}
}

func TestRotatingFileWeekChange(t *testing.T) {
	dir := t.TempDir()
	rf, err := NewRotatingFile(dir, 1, 0)
	if err != nil {
		t.Fatalf("NewRotatingFile: %v", err)
	}
	defer rf.Close()

	next := time.Now().Add(8 * 24 * time.Hour)
	rf.mu.Lock()
	rf.nowFunc = func() time.Time { return next }
	rf.mu.Unlock()

	if _, err := rf.Write([]byte("next week\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(rf.fileName(weekKey(next), 0)); err != nil {
		t.Errorf("expected file for next week: %v", err)
	}
}

func TestRemoveExpired(t *testing.T) {
	dir := t.TempDir()
	rf, err := NewRotatingFile(dir, 1, 0)
	if err != nil {
		t.Fatalf("NewRotatingFile: %v", err)
	}
	defer rf.Close()

	old := filepath.Join(dir, logFilePrefix+"2020-W01.log")
	other := filepath.Join(dir, "unrelated.log")
	for _, p := range []string{old, other} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		past := time.Now().Add(-30 * 24 * time.Hour)
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := rf.removeExpired()
	if err != nil {
		t.Fatalf("removeExpired: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated file should be kept: %v", err)
	}
}
