package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/feedsconverter/config"
)

const logFilePrefix = "feeds-"

// WeeklyLogFile appends to one log file per ISO week and removes files
// older than the retention period when opened.
type WeeklyLogFile struct {
	logDir    string
	retention time.Duration
	file      *os.File
	week      string
}

// OpenWeeklyLogFile opens (or creates) the log file of the current week in logDir
func OpenWeeklyLogFile(logDir string, retentionWeeks int) (*WeeklyLogFile, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	wl := &WeeklyLogFile{
		logDir:    logDir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		week:      getWeekKey(time.Now()),
	}

	if err := wl.cleanupOldLogs(); err != nil {
		slog.Warn("Failed to cleanup old logs", "error", err)
	}

	logPath := filepath.Join(logDir, wl.fileName())
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	wl.file = file

	return wl, nil
}

// getWeekKey returns the week key in YYYY-Www format (ISO week)
func getWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (wl *WeeklyLogFile) fileName() string {
	return logFilePrefix + wl.week + ".log"
}

// Path returns the path of the file being written
func (wl *WeeklyLogFile) Path() string {
	return filepath.Join(wl.logDir, wl.fileName())
}

func (wl *WeeklyLogFile) Write(p []byte) (int, error) {
	if wl.file == nil {
		return 0, fmt.Errorf("no log file available")
	}
	return wl.file.Write(p)
}

func (wl *WeeklyLogFile) Close() error {
	if wl.file == nil {
		return nil
	}
	err := wl.file.Close()
	wl.file = nil
	return err
}

// cleanupOldLogs removes log files older than the retention period
func (wl *WeeklyLogFile) cleanupOldLogs() error {
	entries, err := os.ReadDir(wl.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-wl.retention)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), logFilePrefix) || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(wl.logDir, entry.Name())); err != nil {
				slog.Warn("Failed to remove old log file", "file", entry.Name(), "error", err)
			}
		}
	}

	return nil
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// GetConsoleLogLevel picks the console level for an environment.
// An explicit LOG_LEVEL wins, except in tests where the console stays quiet.
func GetConsoleLogLevel(env config.Environment, logLevelStr string) slog.Level {
	if env == config.EnvTest {
		return slog.LevelError
	}

	if logLevelStr != "" {
		return parseLogLevel(logLevelStr)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the level of the file handler, which keeps everything
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

// SetupLogger builds a logger writing text to console and, when file is not
// nil, JSON to file.
func SetupLogger(console io.Writer, consoleLevel slog.Level, file io.Writer) *slog.Logger {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: consoleLevel,
	})

	if file == nil {
		return slog.New(consoleHandler)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: GetFileLogLevel(),
	})

	return slog.New(&multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})
}

// multiHandler implements slog.Handler to write to multiple handlers
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
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
