// Package logger provides structured diagnostic logging for wren.
//
// User-facing messages go through the output package; this logger is for
// diagnostics (anchor offsets, template sources, timings) and writes to
// stderr so it never mixes with generated summaries.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level is a logging level name as accepted by --log-level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Logger is the logging surface used across wren.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// Config controls logger construction.
type Config struct {
	Level  Level
	JSON   bool
	Output io.Writer
}

// DefaultConfig logs warnings and above to stderr as text.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Output: os.Stderr,
	}
}

type charmLogger struct {
	l *charmlog.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	l := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLevel(string(cfg.Level)),
		Prefix:          "wren",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}

	return &charmLogger{l: l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

// ParseLevel maps a level name to a charm log level. Unknown names map to info.
func ParseLevel(s string) charmlog.Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}

var (
	mu            sync.RWMutex
	defaultLogger = New(DefaultConfig())
)

// Init replaces the process-wide logger.
func Init(cfg Config) {
	l := New(cfg)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Default returns the process-wide logger.
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}
