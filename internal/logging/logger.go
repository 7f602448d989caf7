package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"voicebooth/internal/config"
)

// terminalLevel is what the operator sees next to the prompts.
const terminalLevel = "warn"

// Options describes one log sink.
type Options struct {
	Level  string
	Format string
	Output io.Writer
	// Terminal drops the clock and bookkeeping fields from console lines.
	Terminal bool
}

// New constructs a slog logger writing to opts.Output, or stderr when unset.
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return newPrettyHandler(out, level, opts.Terminal), nil
	case "json":
		return newJSONHandler(out, level), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates the session logger: warnings and errors are shown on
// stderr next to the operator prompts, and everything at the configured level
// is appended to the log file when a log directory is configured.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	return newSessionLogger(os.Stderr, cfg)
}

func newSessionLogger(terminal io.Writer, cfg *config.Config) (*slog.Logger, error) {
	term, err := newHandler(Options{Level: terminalLevel, Output: terminal, Terminal: true})
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.LogPath() == "" {
		return slog.New(term), nil
	}

	logPath := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}
	fileHandler, err := newHandler(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: file})
	if err != nil {
		file.Close()
		return nil, err
	}
	return slog.New(teeHandler{terminal: term, file: fileHandler}), nil
}

// newJSONHandler renames the slog keys to the short ts/level/msg form and
// stamps times in UTC with millisecond precision.
func newJSONHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() != slog.KindTime {
					return attr
				}
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			}
			return attr
		},
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
