package logi

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Config holds the logging configuration
type Config struct {
	// LogDir is the directory where log files will be stored
	// Default: /var/log/microlink (or ./logs if not writable)
	LogDir string
	// LogFileName is the name of the log file
	// Default: app.log
	LogFileName string
	// Level is the minimum log level to write
	// Default: slog.LevelInfo
	Level slog.Level
	// Console also writes every record to stderr
	Console bool
}

// NewLog creates or returns the singleton logger instance.
// It's safe for concurrent use across multiple goroutines.
// The logger writes JSON records to a file, and to stderr when Console is set.
func NewLog(cfg *Config) (*slog.Logger, error) {
	var initErr error

	once.Do(func() {
		if cfg == nil {
			cfg = &Config{}
		}

		if cfg.LogDir == "" {
			// Try /var/log/microlink first (works in Docker)
			// Fall back to ./logs if not writable
			cfg.LogDir = "/var/log/microlink"
			if !isDirWritable(cfg.LogDir) {
				cfg.LogDir = "./logs"
			}
		}

		if cfg.LogFileName == "" {
			cfg.LogFileName = "app.log"
		}

		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create log directory %s: %w", cfg.LogDir, err)
			return
		}

		logPath := filepath.Join(cfg.LogDir, cfg.LogFileName)

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file %s: %w", logPath, err)
			return
		}

		var out io.Writer = file
		if cfg.Console {
			out = io.MultiWriter(file, os.Stderr)
		}

		opts := &slog.HandlerOptions{
			Level: cfg.Level,
			// Remove source info for max performance
			AddSource: false,
		}

		logger = slog.New(slog.NewJSONHandler(out, opts))

		logger.Info("logger initialized",
			"log_path", logPath,
			"level", cfg.Level.String(),
			"console", cfg.Console,
		)
	})

	if initErr != nil {
		return nil, initErr
	}

	return logger, nil
}

// GetLogger returns the existing logger instance.
// Panics if NewLog hasn't been called yet - call NewLog once at startup.
func GetLogger() *slog.Logger {
	if logger == nil {
		panic("logger not initialized - call NewLog first")
	}
	return logger
}

// Discard returns a logger that drops every record. Used by tests and by
// components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a slog
// level. An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// isDirWritable checks if a directory is writable
func isDirWritable(path string) bool {
	if err := os.MkdirAll(path, 0755); err != nil {
		return false
	}

	testFile := filepath.Join(path, ".write_test")
	file, err := os.OpenFile(testFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	file.Close()
	os.Remove(testFile)
	return true
}
