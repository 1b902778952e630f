package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const logFilePrefix = "symptoms-"

// RotatingFile is an io.Writer that starts a new file every ISO week and
// whenever the current file reaches maxSize. Files older than the retention
// period are removed by a daily cleanup goroutine.
type RotatingFile struct {
	dir       string
	retention time.Duration
	maxSize   int64

	mu      sync.Mutex
	file    *os.File
	week    string
	seq     int
	size    int64
	nowFunc func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRotatingFile creates dir if needed and opens the file for the current week
func NewRotatingFile(dir string, retentionWeeks int, maxSize int64) (*RotatingFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	if retentionWeeks <= 0 {
		retentionWeeks = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	rf := &RotatingFile{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxSize:   maxSize,
		nowFunc:   time.Now,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	rf.mu.Lock()
	err := rf.openLocked(weekKey(rf.nowFunc()))
	rf.mu.Unlock()
	if err != nil {
		cancel()
		return nil, err
	}

	go rf.cleanupLoop(ctx)
	return rf, nil
}

// weekKey returns the ISO week in YYYY-Www form
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rf *RotatingFile) fileName(week string, seq int) string {
	if seq == 0 {
		return filepath.Join(rf.dir, fmt.Sprintf("%s%s.log", logFilePrefix, week))
	}
	return filepath.Join(rf.dir, fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, seq))
}

// openLocked opens the first file of week that still has room. Caller holds mu.
func (rf *RotatingFile) openLocked(week string) error {
	if rf.file != nil {
		if err := rf.file.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
		rf.file = nil
	}

	if week != rf.week {
		rf.seq = 0
	}

	for {
		path := rf.fileName(week, rf.seq)
		info, err := os.Stat(path)
		if err == nil && rf.maxSize > 0 && info.Size() >= rf.maxSize {
			rf.seq++
			continue
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}

		rf.file = file
		rf.week = week
		rf.size = 0
		if info != nil {
			rf.size = info.Size()
		}
		return nil
	}
}

// Write implements io.Writer
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	week := weekKey(rf.nowFunc())
	switch {
	case week != rf.week:
		if err := rf.openLocked(week); err != nil {
			return 0, err
		}
	case rf.maxSize > 0 && rf.size > 0 && rf.size+int64(len(p)) > rf.maxSize:
		rf.seq++
		if err := rf.openLocked(week); err != nil {
			return 0, err
		}
	}

	if rf.file == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

func (rf *RotatingFile) cleanupLoop(ctx context.Context) {
	defer close(rf.done)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := rf.removeExpired(); err != nil {
				slog.Warn("Failed to clean up old log files", "error", err)
			}
		}
	}
}

// removeExpired deletes log files last modified before the retention cutoff
func (rf *RotatingFile) removeExpired() (int, error) {
	entries, err := os.ReadDir(rf.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rf.nowFunc().Add(-rf.retention)
	removed := 0

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rf.dir, name)); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// Close stops the cleanup goroutine and closes the current file
func (rf *RotatingFile) Close() error {
	rf.cancel()

	select {
	case <-rf.done:
	case <-time.After(time.Second):
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}

// multiHandler fans a record out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
