// Package logger provides a minimal slog-based logging wrapper.
//
// Console output goes to stderr so diagnostics never interleave with the
// reply text written to stdout.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Stderr  bool
	File    string
}

var (
	mu      sync.RWMutex
	base    *slog.Logger
	enabled = true

	savedCfg  Config
	savedFile *os.File // log file opened during Init
	console   io.Writer = os.Stderr
)

// Init initializes the logger with the provided config.
// A relative File is resolved against configDir.
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	savedCfg = cfg
	if savedFile != nil {
		_ = savedFile.Close()
		savedFile = nil
	}

	if !cfg.Enabled {
		enabled = false
		base = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
		return nil
	}

	var initErr error
	if cfg.File != "" {
		path := expandPath(cfg.File, configDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			savedFile = f
		}
	}

	rebuild()
	return initErr
}

// setConsole replaces the console sink (stderr by default).
func setConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	console = w
	rebuild()
}

// rebuild reconstructs the slog handler from current state.
// Must be called with mu held.
func rebuild() {
	if !savedCfg.Enabled {
		return
	}
	opts := &slog.HandlerOptions{Level: parseLevel(savedCfg.Level)}

	var writers []io.Writer
	if savedCfg.Stderr {
		writers = append(writers, console)
	}
	if savedFile != nil {
		writers = append(writers, savedFile)
	}
	if len(writers) == 0 {
		writers = append(writers, console)
	}

	base = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
	enabled = true
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	on := enabled
	mu.RUnlock()

	if !on || l == nil {
		return
	}

	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func expandPath(path, configDir string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	if configDir != "" {
		return filepath.Join(configDir, path)
	}
	return path
}
