package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders key=value lines. In terminal mode the line is
// printed between operator prompts, so it has no clock and omits the fields
// that only help when reading the log file later.
type prettyHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	level    *slog.LevelVar
	attrs    []kv
	prefix   string
	terminal bool
}

type kv struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, level *slog.LevelVar, terminal bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: level, terminal: terminal}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	fields := append([]kv(nil), h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, attr)
		return true
	})

	var component, hint string
	var buf bytes.Buffer
	rest := fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			if component == "" {
				component = f.value.String()
			}
		case FieldErrorHint:
			hint = f.value.String()
		case FieldEventType, FieldSessionID, FieldImpact:
			if !h.terminal {
				rest = append(rest, f)
			}
		default:
			rest = append(rest, f)
		}
	}

	if !h.terminal {
		ts := record.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		buf.WriteString(ts.Local().Format(time.DateTime))
		buf.WriteByte(' ')
	}
	buf.WriteString(levelLabel(record.Level))
	buf.WriteByte(' ')
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	buf.WriteString(strings.TrimSpace(record.Message))
	for _, f := range rest {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
	}
	if hint != "" {
		buf.WriteString(" (hint: ")
		buf.WriteString(hint)
		buf.WriteByte(')')
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]kv(nil), h.attrs...)
	for _, attr := range attrs {
		clone.attrs = appendAttr(clone.attrs, h.prefix, attr)
	}
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(dst []kv, prefix string, attr slog.Attr) []kv {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			dst = appendAttr(dst, prefix, member)
		}
		return dst
	}
	return append(dst, kv{key: prefix + attr.Key, value: attr.Value})
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
