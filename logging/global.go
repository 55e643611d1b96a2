package logging

import (
	"log/slog"
	"os"

	"github.com/giygas/feedsconverter/config"
)

type LoggingService struct {
	Logger  *slog.Logger
	logFile *WeeklyLogFile
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger from the configuration.
// Console logs go to stderr, stdout is reserved for progress lines.
func InitLogger(cfg *config.Config) {
	service := &LoggingService{}
	consoleLevel := GetConsoleLogLevel(cfg.Env, cfg.LogLevel)

	if cfg.LogDir != "" {
		logFile, err := OpenWeeklyLogFile(cfg.LogDir, cfg.LogRetentionWeeks)
		if err != nil {
			// Keep going with console logging only
			service.Logger = SetupLogger(os.Stderr, consoleLevel, nil)
			service.Logger.Error("Failed to initialize log file", "error", err)
		} else {
			service.logFile = logFile
			service.Logger = SetupLogger(os.Stderr, consoleLevel, logFile)
		}
	} else {
		service.Logger = SetupLogger(os.Stderr, consoleLevel, nil)
	}

	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// Close releases the log file, if any
func Close() {
	if DefaultLoggingService == nil || DefaultLoggingService.logFile == nil {
		return
	}
	if err := DefaultLoggingService.logFile.Close(); err != nil {
		slog.Warn("Failed to close log file", "error", err)
	}
	DefaultLoggingService.logFile = nil
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger(slog.LevelDebug).Debug(msg, args...)
}

// logger falls back to a console logger at level if not initialized
func logger(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return DefaultLoggingService.Logger
}
