package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
)

// Logger is the structured logger used throughout cueboard-core. It embeds
// *slog.Logger, so the usual Info/Warn/Error methods are available directly.
// Every entry carries the service name and version.
type Logger struct {
	*slog.Logger
}

// New builds a logger from config: JSON or text format, level filtering,
// stdout or stderr.
func New(cfg config.LoggingConfig, version string) *Logger {
	return NewWithWriter(cfg, version, writerFor(cfg.Output))
}

// NewWithWriter is New with an explicit destination. Tests use it to
// capture output.
func NewWithWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: levelFor(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "cueboard"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// Default is the early-startup logger, used before config is loaded:
// JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

// With returns a child logger carrying extra default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component returns a child logger tagged with a component name, the
// convention for subsystem loggers (relay, dispatch, watcher).
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// levelFor maps a config string to a slog level, defaulting to info.
func levelFor(level string) slog.Level {
	if l, ok := levelNames[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}
