package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, levelFor(cfg.Debug, os.Getenv("SLING_LOG_LEVEL")), cfg.Debug)
}

// levelFor maps --debug and SLING_LOG_LEVEL to a slog level; the
// environment wins when it names a known level
func levelFor(debug bool, env string) slog.Level {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		// unknown value, keep default
	}

	return level
}

func newLogger(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop time for cleaner CLI output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// shortPath trims source paths to the repository-relative part
func shortPath(file string) string {
	if idx := strings.Index(file, "sling/"); idx != -1 {
		return file[idx+len("sling/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
