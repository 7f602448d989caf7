package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	sentenceKey
)

// WithSessionID tags ctx with the recording session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the session identifier stored in ctx.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithSentence tags ctx with the sentence index being recorded.
func WithSentence(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, sentenceKey, index)
}

// SentenceFromContext returns the sentence index stored in ctx.
func SentenceFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	idx, ok := ctx.Value(sentenceKey).(int)
	return idx, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if idx, ok := SentenceFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldSentence, idx))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
