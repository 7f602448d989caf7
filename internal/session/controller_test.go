package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"voicebooth/internal/audio"
	"voicebooth/internal/clips"
	"voicebooth/internal/corpus"
	"voicebooth/internal/journal"
	"voicebooth/internal/progress"
	"voicebooth/internal/testsupport"
)

type harness struct {
	ctrl     *Controller
	out      *syncBuffer
	stream   *scriptedStream
	progress *progress.Store
	clips    *clips.Store
	journal  *journal.Store
	manifest string
	writer   *io.PipeWriter
}

func newHarness(t *testing.T, texts []string, stream Stream, clipWriter ClipWriter) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	store, err := clips.NewStore(clips.Options{
		Dir:             cfg.Paths.OutputDir,
		Format:          audio.Format{Channels: 1, SampleRate: cfg.Audio.SampleRate, BitsPerSample: 16},
		ResampleEnabled: true,
		ResampleRate:    cfg.Audio.ResampleRate,
	}, nil)
	if err != nil {
		t.Fatalf("clips.NewStore: %v", err)
	}
	if clipWriter == nil {
		clipWriter = store
	}

	sentences := make([]corpus.Sentence, len(texts))
	for i, text := range texts {
		sentences[i] = corpus.Sentence{Index: i, ID: text, Text: text}
	}

	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	out := &syncBuffer{}
	console := NewConsole(r, out)

	j := testsupport.MustOpenJournal(t, cfg)
	recorder := NewRecorder(console, stream, clipWriter, RecorderOptions{
		Thresholds: audio.DefaultThresholds(),
		OnTake:     JournalObserver(j, "test-session", nil),
	})

	h := &harness{
		out:      out,
		progress: progress.NewStore(cfg.ProgressPath(), nil),
		clips:    store,
		journal:  j,
		manifest: cfg.ManifestPath(),
		writer:   w,
	}
	if s, ok := stream.(*scriptedStream); ok {
		h.stream = s
	}
	h.ctrl, err = NewController(ControllerOptions{
		Console:   console,
		Recorder:  recorder,
		Progress:  h.progress,
		Assembler: corpus.NewAssembler(store, cfg.ManifestPath(), nil),
		Sentences: sentences,
		ListDevices: func(w io.Writer) error {
			_, err := io.WriteString(w, "0 Test Mic\n")
			return err
		},
		SessionID: "test-session",
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return h
}

func (h *harness) outcomes(t *testing.T) []journal.Outcome {
	t.Helper()
	takes, err := h.journal.Recent(context.Background(), 100)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	out := make([]journal.Outcome, len(takes))
	for i, take := range takes {
		out[len(takes)-1-i] = take.Outcome
	}
	return out
}

func (h *harness) cursor(t *testing.T) int {
	t.Helper()
	n, err := h.progress.Read()
	if err != nil {
		t.Fatalf("progress.Read: %v", err)
	}
	return n
}

func goodTake() []audio.Chunk {
	return testsupport.Speech(20, 6, 14, 5, 120)
}

func TestAcceptSkipUndoAssemble(t *testing.T) {
	stream := newScriptedStream(goodTake(), goodTake())
	h := newHarness(t, []string{"zero", "one", "two"}, stream, nil)
	operator(t, h.writer, stream.drained,
		"go", "", stopLine, "",
		"go", "", stopLine, "s",
		"undo",
		"assemble",
	)

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := h.cursor(t); got != 1 {
		t.Fatalf("expected progress 1 after undo, got %d", got)
	}
	manifest, err := os.ReadFile(h.manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(manifest) != "0_22050|zero|zero\n" {
		t.Fatalf("unexpected manifest %q", manifest)
	}
	if _, err := os.Stat(filepath.Join(h.clips.Dir(), "1.wav")); !os.IsNotExist(err) {
		t.Fatalf("skipped sentence must not have a clip, stat err=%v", err)
	}
	if want := []journal.Outcome{journal.OutcomeAccepted, journal.OutcomeSkipped}; !reflect.DeepEqual(h.outcomes(t), want) {
		t.Fatalf("expected outcomes %v, got %v", want, h.outcomes(t))
	}
	if !strings.Contains(h.out.String(), msgExiting) {
		t.Fatalf("expected exit message on EOF, got %q", h.out.String())
	}
}

func TestAcceptedClipIsTrimmed(t *testing.T) {
	stream := newScriptedStream(goodTake())
	h := newHarness(t, []string{"zero", "one"}, stream, nil)
	operator(t, h.writer, stream.drained, "go", "", stopLine, "")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	_, pcm := testsupport.ReadWAV(t, h.clips.RawPath(0))
	if want := 15 * testsupport.DefaultChunkSamples * 2; len(pcm) != want {
		t.Fatalf("expected %d bytes for window [3,17], got %d", want, len(pcm))
	}
	if stream.playCount() != 1 || len(stream.played[0]) != 15 {
		t.Fatalf("expected the trimmed take to be replayed once, got %d plays", stream.playCount())
	}
}

func TestRejectedTakesRecaptureImmediately(t *testing.T) {
	silent := testsupport.Speech(20, 0, -1, 2, 0)
	quiet := testsupport.Speech(20, 6, 14, 0, 30)
	stream := newScriptedStream(silent, quiet, goodTake())
	h := newHarness(t, []string{"zero", "one"}, stream, nil)
	operator(t, h.writer, stream.drained, "go", "", stopLine, stopLine, stopLine, "")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, msgGarbage) || !strings.Contains(out, msgTooQuiet) {
		t.Fatalf("expected rejection messages, got %q", out)
	}
	if strings.Count(out, promptPractice) != 1 {
		t.Fatalf("rejections must not re-prompt for practice: %q", out)
	}
	if got := h.cursor(t); got != 1 {
		t.Fatalf("expected progress 1, got %d", got)
	}
	want := []journal.Outcome{journal.OutcomeRejectedSilence, journal.OutcomeRejectedQuiet, journal.OutcomeAccepted}
	if got := h.outcomes(t); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected outcomes %v, got %v", want, got)
	}
}

func TestRedoReshowsSentence(t *testing.T) {
	stream := newScriptedStream(goodTake(), goodTake())
	h := newHarness(t, []string{"the quick brown fox", "one"}, stream, nil)
	operator(t, h.writer, stream.drained, "go", "", stopLine, "r", stopLine, "")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(h.out.String(), "> the quick brown fox"); n != 2 {
		t.Fatalf("expected sentence shown twice, got %d", n)
	}
	if stream.playCount() != 2 {
		t.Fatalf("expected two replays, got %d", stream.playCount())
	}
	if got := h.cursor(t); got != 1 {
		t.Fatalf("expected progress 1, got %d", got)
	}
	want := []journal.Outcome{journal.OutcomeRedo, journal.OutcomeAccepted}
	if got := h.outcomes(t); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected outcomes %v, got %v", want, got)
	}
}

func TestFinishingCorpusEndsSession(t *testing.T) {
	stream := newScriptedStream(goodTake())
	h := newHarness(t, []string{"only"}, stream, nil)
	operator(t, h.writer, stream.drained, "go", "", stopLine, "")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(h.out.String(), msgDone) {
		t.Fatalf("expected completion message, got %q", h.out.String())
	}
	if strings.Contains(h.out.String(), msgExiting) {
		t.Fatal("session should end on completion, not on EOF")
	}
}

func TestProceedPastEndReportsDone(t *testing.T) {
	h := newHarness(t, []string{"a", "b"}, newScriptedStream(), nil)
	if err := h.progress.Write(9); err != nil {
		t.Fatal(err)
	}
	operator(t, h.writer, nil, "status", "go")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "2/2") {
		t.Fatalf("expected clamped status, got %q", out)
	}
	if !strings.Contains(out, msgDone) {
		t.Fatalf("expected completion message, got %q", out)
	}
}

func TestEmptyCommandTerminates(t *testing.T) {
	h := newHarness(t, []string{"a"}, newScriptedStream(), nil)
	operator(t, h.writer, nil, "devices", "status", "")

	if err := h.ctrl.Run(withTimeout(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "0 Test Mic") || !strings.Contains(out, "0/1") {
		t.Fatalf("expected devices and status output, got %q", out)
	}
	if strings.Contains(out, msgExiting) {
		t.Fatal("empty command should end quietly")
	}
}

func TestInterruptDuringCaptureDoesNotCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(withTimeout(t))
	defer cancel()
	stream := &endlessStream{chunk: testsupport.LevelChunk(120, testsupport.DefaultChunkSamples)}
	stream.onRead = func(n int) {
		if n == 5 {
			cancel()
		}
	}
	h := newHarness(t, []string{"a", "b"}, stream, nil)
	go func() {
		_, _ = io.WriteString(h.writer, "go\n\n")
	}()

	if err := h.ctrl.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.cursor(t); got != 0 {
		t.Fatalf("expected progress untouched, got %d", got)
	}
	if _, err := os.Stat(h.clips.RawPath(0)); !os.IsNotExist(err) {
		t.Fatalf("expected no clip after interrupt, stat err=%v", err)
	}
	if !strings.Contains(h.out.String(), msgExiting) {
		t.Fatalf("expected exit message, got %q", h.out.String())
	}
}

func TestClipWriteFailureIsFatal(t *testing.T) {
	stream := newScriptedStream(goodTake())
	h := newHarness(t, []string{"a", "b"}, stream, failingClips{})
	operator(t, h.writer, stream.drained, "go", "", stopLine, "")

	err := h.ctrl.Run(withTimeout(t))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected clip write error, got %v", err)
	}
	if got := h.cursor(t); got != 0 {
		t.Fatalf("expected progress untouched, got %d", got)
	}
}

func TestCaptureStopsOnOperatorLine(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	console := NewConsole(r, io.Discard)
	stream := &endlessStream{chunk: testsupport.LevelChunk(80, 256)}
	stream.onRead = func(n int) {
		if n == 10 {
			go func() { _, _ = io.WriteString(w, "\n") }()
		}
	}
	rec := NewRecorder(console, stream, nil, RecorderOptions{Thresholds: audio.DefaultThresholds()})

	chunks, err := rec.capture(withTimeout(t), rec.logger)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(chunks) < 10 {
		t.Fatalf("expected at least 10 chunks before stop, got %d", len(chunks))
	}
	if len(chunks) != stream.reads {
		t.Fatalf("every read chunk must be kept: %d reads, %d chunks", stream.reads, len(chunks))
	}
}

func TestNewControllerValidates(t *testing.T) {
	if _, err := NewController(ControllerOptions{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
