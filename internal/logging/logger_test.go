package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voicebooth/internal/config"
	"voicebooth/internal/logging"
)

func TestNewFromConfigWritesFileLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message", logging.Int(logging.FieldSentence, 12))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "voicebooth.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") || !strings.Contains(string(content), "sentence=12") {
		t.Fatalf("expected debug line in file log, got %q", content)
	}
}

func TestConsoleLoggerFileLineHasClock(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("take saved", logging.Int(logging.FieldSentence, 3))

	line := strings.TrimSpace(buf.String())
	if _, err := time.ParseInLocation(time.DateTime, line[:len(time.DateTime)], time.Local); err != nil {
		t.Fatalf("expected leading timestamp, got %q", line)
	}
	if !strings.HasSuffix(line, "INFO take saved sentence=3") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestConsoleLoggerMovesHintToEnd(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logging.NewComponentLogger(logger, "capture"), "stream read failed", "capture_read_failed",
		logging.String(logging.FieldErrorHint, "check the microphone cable"))

	line := buf.String()
	if !strings.Contains(line, "WARN capture: stream read failed") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.HasSuffix(strings.TrimSpace(line), "(hint: check the microphone cable)") {
		t.Fatalf("expected hint suffix, got %q", line)
	}
	if !strings.Contains(line, "event_type=capture_read_failed") || !strings.Contains(line, `impact="recording continues"`) {
		t.Fatalf("expected bookkeeping fields in file output, got %q", line)
	}
}

func TestConsoleLoggerTerminalModeIsBare(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Output: &buf, Terminal: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logger.With(logging.String(logging.FieldSessionID, "sess-1"))
	logging.WarnWithContext(logger, "device removed", "device_removed", logging.Int("device", 2))

	want := `WARN device removed device=2 (hint: check the session log for details)` + "\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestConsoleLoggerGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Output: &buf, Terminal: true})
	if err != nil {
		t.Fatal(err)
	}
	logger.WithGroup("take").Info("scored", logging.Float64("rms", 81.5), slog.Group("window", slog.Int("start", 2)))
	if !strings.Contains(buf.String(), "take.rms=81.5 take.window.start=2") {
		t.Fatalf("expected grouped keys, got %q", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "json message" || entry["level"] != "info" || entry["k"] != "v" {
		t.Fatalf("unexpected json entry: %v", entry)
	}
	ts, _ := entry["ts"].(string)
	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", ts); err != nil || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC millisecond timestamp, got %q", ts)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.WithSessionID(context.Background(), "sess-1")
	ctx = logging.WithSentence(ctx, 4)
	logging.WithContext(ctx, base).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldSessionID] != "sess-1" {
		t.Fatalf("expected session id field, got %v", entry)
	}
	if entry[logging.FieldSentence] != float64(4) {
		t.Fatalf("expected sentence field, got %v", entry)
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	base := logging.NewNop()
	if got := logging.WithContext(context.Background(), base); got != base {
		t.Fatal("expected logger to be returned unchanged")
	}
}
