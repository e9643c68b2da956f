// Package logging provides file-backed structured logging. The browser owns
// the terminal, so log output never goes to stdout or stderr.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger settings. An empty FilePath disables logging.
type Config struct {
	FilePath   string
	Level      slog.Level
	Format     Format
	MaxSizeMB  int
	MaxBackups int
}

var (
	mu      sync.RWMutex
	global  *slog.Logger
	enabled bool
	closer  io.Closer

	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init installs the global logger. Calling it again replaces the previous
// logger and closes its file.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer.Close()
		closer = nil
	}

	if cfg.FilePath == "" {
		global, enabled = discard, false
		return nil
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}

	w := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	global, enabled, closer = slog.New(h), true, w
	return nil
}

// Get returns the global logger, or a discarding logger before Init.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return discard
	}
	return global
}

// Enabled reports whether log output goes anywhere.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Shutdown closes the log file.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	global, enabled = discard, false
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// With returns the global logger with attrs attached.
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

// Time runs fn and logs how long it took at debug level.
func Time(name string, fn func()) {
	if !Enabled() {
		fn()
		return
	}
	start := time.Now()
	fn()
	d := time.Since(start)
	Debug(name, "duration", d.String(), "ms", d.Milliseconds())
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// ParseFormat maps "json" to FormatJSON and everything else to FormatText.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return FormatJSON
	}
	return FormatText
}
