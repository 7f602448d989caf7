package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"voicebooth/internal/audio"
	"voicebooth/internal/clips"
	"voicebooth/internal/corpus"
	"voicebooth/internal/journal"
	"voicebooth/internal/logging"
)

// Operator-facing text.
const (
	promptPractice = "Practice now. Press enter to start recording."
	msgRecording   = "Recording... Press enter to stop."
	msgGarbage     = "Sire, your audio was garbage. Please try again."
	msgTooQuiet    = "Your audio was too quiet. Get closer to the mic, sire."
	msgReplaying   = "Replaying..."
	promptReview   = "Redo [r] or skip [s] (default is to commit)? "
)

// Stream is the audio device as seen by the recorder.
type Stream interface {
	Read() (audio.Chunk, error)
	Play(chunks []audio.Chunk) error
}

// ClipWriter persists accepted takes.
type ClipWriter interface {
	Save(index int, chunks []audio.Chunk) (clips.Saved, error)
}

// Outcome is the result of one pass over a sentence.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished pass.
type Result struct {
	Outcome Outcome
	Window  audio.Window
	Saved   clips.Saved
	Takes   int
}

// TakeEvent is emitted for every take, including rejected and redone ones.
// Kept is the trim window length, or 0 when no window was found.
type TakeEvent struct {
	Sentence int
	Outcome  journal.Outcome
	Chunks   int
	Kept     int
	Window   audio.Window
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	Thresholds  audio.Thresholds
	SampleWidth int

	// OnTake is called synchronously after each take is classified.
	OnTake func(context.Context, TakeEvent)
	Logger *slog.Logger
}

// Recorder drives one sentence through capture, trim, playback and review.
type Recorder struct {
	console *Console
	stream  Stream
	clips   ClipWriter
	opts    RecorderOptions
	logger  *slog.Logger
}

// NewRecorder wires a recorder. A zero SampleWidth means 16-bit.
func NewRecorder(console *Console, stream Stream, clipWriter ClipWriter, opts RecorderOptions) *Recorder {
	if opts.SampleWidth == 0 {
		opts.SampleWidth = audio.SampleWidth16
	}
	return &Recorder{
		console: console,
		stream:  stream,
		clips:   clipWriter,
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "recorder"),
	}
}

// Record runs the per-sentence state machine. It returns io.EOF or
// ErrInterrupted when the operator leaves before the sentence is resolved,
// and a wrapped error when a clip cannot be written; in both cases nothing
// should be committed.
func (r *Recorder) Record(ctx context.Context, sentence corpus.Sentence) (Result, error) {
	logger := logging.WithContext(logging.WithSentence(ctx, sentence.Index), r.logger)

	r.showSentence(sentence)
	if _, err := r.console.Prompt(ctx, promptPractice); err != nil {
		return Result{}, err
	}

	takes := 0
	for {
		chunks, err := r.capture(ctx, logger)
		if err != nil {
			return Result{}, err
		}
		takes++

		window, err := audio.Trim(chunks, r.opts.SampleWidth, r.opts.Thresholds)
		if err != nil {
			if !audio.IsRejection(err) {
				return Result{}, fmt.Errorf("trim take: %w", err)
			}
			r.reject(ctx, logger, sentence.Index, len(chunks), window, err)
			continue
		}
		kept := window.Apply(chunks)

		r.console.Println(msgReplaying)
		if err := r.stream.Play(kept); err != nil {
			logging.WarnWithContext(logger, "playback failed", "playback_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the output device; the take can still be committed"),
				logging.String(logging.FieldImpact, "take not replayed"),
			)
		}

		answer, err := r.console.Prompt(ctx, promptReview)
		if err != nil {
			return Result{}, err
		}

		switch strings.ToLower(answer) {
		case "r":
			r.emit(ctx, TakeEvent{Sentence: sentence.Index, Outcome: journal.OutcomeRedo, Chunks: len(chunks), Kept: window.Len(), Window: window})
			r.showSentence(sentence)
			continue
		case "s":
			r.emit(ctx, TakeEvent{Sentence: sentence.Index, Outcome: journal.OutcomeSkipped, Chunks: len(chunks), Kept: window.Len(), Window: window})
			logger.Info("sentence skipped", logging.Int("takes", takes))
			return Result{Outcome: OutcomeSkipped, Window: window, Takes: takes}, nil
		}

		saved, err := r.clips.Save(sentence.Index, kept)
		if err != nil {
			return Result{}, fmt.Errorf("save sentence %d: %w", sentence.Index, err)
		}
		r.emit(ctx, TakeEvent{Sentence: sentence.Index, Outcome: journal.OutcomeAccepted, Chunks: len(chunks), Kept: window.Len(), Window: window})
		logger.Info("sentence accepted",
			logging.Int("takes", takes),
			logging.Int("kept_chunks", window.Len()),
			logging.Float64("avg_rms", window.AvgRMS),
			logging.String("path", saved.RawPath),
		)
		return Result{Outcome: OutcomeAccepted, Window: window, Saved: saved, Takes: takes}, nil
	}
}

func (r *Recorder) showSentence(sentence corpus.Sentence) {
	r.console.Println()
	r.console.Println(">", sentence.Text)
	r.console.Println()
}

// capture reads chunks until the operator enters a line. The line is read by
// a listener goroutine that flips an atomic flag checked after every chunk.
// A stream read failure ends the take early; the listener is still awaited so
// the operator's stop line does not leak into the review prompt.
func (r *Recorder) capture(ctx context.Context, logger *slog.Logger) ([]audio.Chunk, error) {
	r.console.Println(msgRecording)

	var stop atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := r.console.ReadLine(ctx)
		stop.Store(true)
		done <- err
	}()

	var chunks []audio.Chunk
	for !stop.Load() && ctx.Err() == nil {
		chunk, err := r.stream.Read()
		if err != nil {
			logging.WarnWithContext(logger, "audio read failed; ending take", "capture_read_failed",
				logging.Error(err),
				logging.Int("chunks", len(chunks)),
				logging.String(logging.FieldErrorHint, "check the microphone connection"),
				logging.String(logging.FieldImpact, "take ends at the last good chunk"),
			)
			break
		}
		chunks = append(chunks, chunk)
	}

	if err := <-done; err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
			return nil, err
		}
		return nil, fmt.Errorf("read stop line: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}
	logger.Debug("take captured", logging.Int("chunks", len(chunks)))
	return chunks, nil
}

func (r *Recorder) reject(ctx context.Context, logger *slog.Logger, index, chunks int, window audio.Window, err error) {
	outcome := journal.OutcomeRejectedSilence
	kept := 0
	switch {
	case errors.Is(err, audio.ErrTooQuiet):
		outcome = journal.OutcomeRejectedQuiet
		kept = window.Len()
		r.console.Println(msgTooQuiet)
	case errors.Is(err, audio.ErrTooShort):
		outcome = journal.OutcomeRejectedShort
		r.console.Println(msgGarbage)
	default:
		r.console.Println(msgGarbage)
	}
	logger.Info("take rejected",
		logging.String("reason", err.Error()),
		logging.Int("chunks", chunks),
		logging.Float64("avg_rms", window.AvgRMS),
	)
	r.emit(ctx, TakeEvent{Sentence: index, Outcome: outcome, Chunks: chunks, Kept: kept, Window: window})
}

func (r *Recorder) emit(ctx context.Context, ev TakeEvent) {
	if r.opts.OnTake != nil {
		r.opts.OnTake(ctx, ev)
	}
}
