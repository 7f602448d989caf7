package logging

import (
	"context"
	"log/slog"
)

// teeHandler writes each record to the operator's terminal and to the
// session log file. Each side keeps its own level, so the terminal can stay
// at warn while the file records debug detail.
type teeHandler struct {
	terminal slog.Handler
	file     slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.terminal.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var termErr error
	if h.terminal.Enabled(ctx, record.Level) {
		termErr = h.terminal.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	return termErr
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{terminal: h.terminal.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{terminal: h.terminal.WithGroup(name), file: h.file.WithGroup(name)}
}
