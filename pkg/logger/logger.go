// Package logger builds level-filtered slog loggers for the zhook client.
// Verbosity is an ordered five-level scale (silent < error < warn < info <
// debug); "silent" discards all output so library consumers can run quiet.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Level is the client log verbosity.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the textual name used in configuration.
func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a configuration string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "silent":
		return LevelSilent, nil
	case "error":
		return LevelError, nil
	case "warn":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelSilent, fmt.Errorf("unknown log level %q (want silent, error, warn, info or debug)", s)
	}
}

// slogLevel maps a Level to the slog threshold that admits it.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelError
	}
}

// New creates a text logger on w admitting records at or above level.
// Source file paths are shortened to basename:line.
func New(w io.Writer, level Level) *slog.Logger {
	if level == LevelSilent {
		w = io.Discard
	}
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level.slogLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
					source.Function = ""
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Default returns an info-level logger on stderr.
func Default() *slog.Logger {
	return New(os.Stderr, LevelInfo)
}
