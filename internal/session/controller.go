package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"voicebooth/internal/corpus"
	"voicebooth/internal/journal"
	"voicebooth/internal/logging"
)

const (
	promptCommand = "Your next sentence/command, sire? "
	msgDone       = "You are done, sire."
	msgExiting    = "Exiting, sire."
)

// Commands understood at the main prompt. Anything else records the next sentence.
const (
	CommandDevices  = "devices"
	CommandUndo     = "undo"
	CommandAssemble = "assemble"
	CommandStatus   = "status"
)

// ProgressStore is the persisted cursor.
type ProgressStore interface {
	Read() (int, error)
	Write(n int) error
	Undo() (int, error)
}

// Assembler rebuilds the manifest.
type Assembler interface {
	Run(sentences []corpus.Sentence) (corpus.Manifest, error)
}

// TakeJournal records takes. Failures are logged and ignored.
type TakeJournal interface {
	Record(ctx context.Context, take journal.Take) (journal.Take, error)
}

// ControllerOptions wires a Controller.
type ControllerOptions struct {
	Console   *Console
	Recorder  *Recorder
	Progress  ProgressStore
	Assembler Assembler
	Sentences []corpus.Sentence

	// ListDevices writes the input device list for the devices command.
	ListDevices func(w io.Writer) error
	SessionID   string
	Logger      *slog.Logger
}

// Controller is the command loop.
type Controller struct {
	opts   ControllerOptions
	logger *slog.Logger
}

// NewController validates opts and returns a controller.
func NewController(opts ControllerOptions) (*Controller, error) {
	switch {
	case opts.Console == nil:
		return nil, errors.New("controller: console is required")
	case opts.Recorder == nil:
		return nil, errors.New("controller: recorder is required")
	case opts.Progress == nil:
		return nil, errors.New("controller: progress store is required")
	case opts.Assembler == nil:
		return nil, errors.New("controller: assembler is required")
	}
	return &Controller{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "controller"),
	}, nil
}

// JournalObserver returns a take callback that writes to j under sessionID.
func JournalObserver(j TakeJournal, sessionID string, logger *slog.Logger) func(context.Context, TakeEvent) {
	if j == nil {
		return nil
	}
	logger = logging.NewComponentLogger(logger, "journal")
	return func(ctx context.Context, ev TakeEvent) {
		take := journal.Take{
			SessionID:     sessionID,
			SentenceIndex: ev.Sentence,
			Outcome:       ev.Outcome,
			ChunkCount:    ev.Chunks,
			KeptChunks:    ev.Kept,
			AvgRMS:        ev.Window.AvgRMS,
		}
		// Record even when the session is being torn down.
		if _, err := j.Record(context.WithoutCancel(ctx), take); err != nil {
			logging.WarnWithContext(logger, "failed to record take", "journal_write_failed",
				logging.Error(err),
				logging.Int(logging.FieldSentence, ev.Sentence),
				logging.String(logging.FieldErrorHint, "check journal.path permissions or disable [journal]"),
				logging.String(logging.FieldImpact, "take missing from history"),
			)
		}
	}
}

// Run dispatches commands until the operator enters an empty line, closes
// input or interrupts, or the corpus is finished. Those endings return nil;
// only persistence and capture failures are returned as errors.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logging.WithSessionID(ctx, c.opts.SessionID)
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("session started", logging.Int("sentences", len(c.opts.Sentences)))

	for {
		command, err := c.opts.Console.Prompt(ctx, promptCommand)
		if err != nil {
			if isTerminal(err) {
				c.opts.Console.Println()
				c.opts.Console.Println(msgExiting)
				return nil
			}
			return err
		}

		switch strings.ToLower(command) {
		case "":
			logger.Info("session ended by operator")
			return nil
		case CommandDevices:
			c.listDevices(logger)
		case CommandUndo:
			if err := c.undo(logger); err != nil {
				return err
			}
		case CommandAssemble:
			if err := c.assemble(); err != nil {
				return err
			}
		case CommandStatus:
			if err := c.status(); err != nil {
				return err
			}
		default:
			finished, err := c.proceed(ctx, logger)
			if err != nil {
				if isTerminal(err) {
					c.opts.Console.Println()
					c.opts.Console.Println(msgExiting)
					return nil
				}
				return err
			}
			if finished {
				return nil
			}
		}
	}
}

// proceed records the sentence at the cursor and commits progress. It
// reports true once every sentence has been handled.
func (c *Controller) proceed(ctx context.Context, logger *slog.Logger) (bool, error) {
	idx, err := c.cursor()
	if err != nil {
		return false, err
	}
	total := len(c.opts.Sentences)
	if idx >= total {
		c.opts.Console.Println(msgDone)
		return true, nil
	}

	result, err := c.opts.Recorder.Record(ctx, c.opts.Sentences[idx])
	if err != nil {
		return false, err
	}
	if err := c.opts.Progress.Write(idx + 1); err != nil {
		return false, fmt.Errorf("commit progress: %w", err)
	}
	logger.Debug("progress committed",
		logging.Int(logging.FieldSentence, idx),
		logging.String("outcome", result.Outcome.String()),
	)

	if idx+1 >= total {
		c.opts.Console.Println(msgDone)
		return true, nil
	}
	return false, nil
}

// cursor reads progress, clamping values past the end of the corpus.
func (c *Controller) cursor() (int, error) {
	idx, err := c.opts.Progress.Read()
	if err != nil {
		return 0, fmt.Errorf("read progress: %w", err)
	}
	return min(idx, len(c.opts.Sentences)), nil
}

func (c *Controller) undo(logger *slog.Logger) error {
	n, err := c.opts.Progress.Undo()
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	logger.Info("progress rewound", logging.Int(logging.FieldSentence, n))
	c.opts.Console.Printf("Back to sentence %d.\n", n)
	return nil
}

func (c *Controller) assemble() error {
	m, err := c.opts.Assembler.Run(c.opts.Sentences)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	c.opts.Console.Printf("Assembled %d clips.\n", len(m.Entries))
	return nil
}

func (c *Controller) status() error {
	idx, err := c.cursor()
	if err != nil {
		return err
	}
	c.opts.Console.Printf("%d/%d\n", idx, len(c.opts.Sentences))
	return nil
}

func (c *Controller) listDevices(logger *slog.Logger) {
	if c.opts.ListDevices == nil {
		c.opts.Console.Println("Device listing unavailable.")
		return
	}
	if err := c.opts.ListDevices(c.opts.Console.Out()); err != nil {
		logging.WarnWithContext(logger, "device listing failed", "device_list_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that PortAudio can see the sound server"),
		)
	}
}
