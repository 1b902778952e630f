// Package logging wires slog for the symptoms API: console text output,
// a weekly rotating JSON file and a request logging middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/symptoms-api/config"
)

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingFile
}

var DefaultLoggingService *LoggingService

// Options controls where and how verbosely the service logs
type Options struct {
	Dir            string
	Env            config.Environment
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
}

// InitLogger initializes the global logger instance.
// An empty Dir logs to the console only.
func InitLogger(opts Options) {
	consoleLevel := ConsoleLogLevel(opts.Env, opts.Level)
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: consoleLevel}),
	}

	var file *RotatingFile
	if opts.Dir != "" {
		rf, err := NewRotatingFile(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			slog.New(handlers[0]).Error("Failed to initialize rotating log file, logging to console only", "error", err)
		} else {
			file = rf
			handlers = append(handlers, slog.NewJSONHandler(rf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	DefaultLoggingService = &LoggingService{
		Logger: slog.New(&multiHandler{handlers: handlers}),
		file:   file,
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

// InitTestLogger routes all logs to w, used by package tests
func InitTestLogger(w io.Writer) {
	DefaultLoggingService = &LoggingService{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

// Close flushes and closes the rotating file, if any
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		return nil
	}
	return DefaultLoggingService.file.Close()
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConsoleLogLevel picks the console level: an explicit LOG_LEVEL wins,
// otherwise prod and staging only print warnings and tests only errors.
func ConsoleLogLevel(env config.Environment, level string) slog.Level {
	if env == config.EnvTest {
		return slog.LevelError
	}
	if level != "" {
		return parseLogLevel(level)
	}
	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}
