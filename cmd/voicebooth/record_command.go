package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"voicebooth/internal/audio"
	"voicebooth/internal/capture"
	"voicebooth/internal/clips"
	"voicebooth/internal/config"
	"voicebooth/internal/corpus"
	"voicebooth/internal/journal"
	"voicebooth/internal/logging"
	"voicebooth/internal/preflight"
	"voicebooth/internal/progress"
	"voicebooth/internal/session"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "record [device-index]",
		Short: "Start an interactive recording session",
		Long: `Start an interactive recording session at the saved progress cursor.

At the prompt, press Enter on an empty line to quit, type devices, undo,
assemble or status to run that command, or type anything else to record the
next sentence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, ctx, args)
		},
	}
}

func runRecord(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		index, err := parseDeviceIndex(args[0])
		if err != nil {
			return err
		}
		cfg.Audio.DeviceIndex = index
	}

	baseLogger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	logger := baseLogger.With(logging.String(logging.FieldSessionID, sessionID))

	results := preflight.RunAll(cfg)
	if failed := preflight.Failures(results); len(failed) > 0 {
		errOut := cmd.ErrOrStderr()
		colorize := shouldColorize(errOut)
		for _, line := range preflightLines(failed, colorize) {
			fmt.Fprintln(errOut, line)
		}
		return fmt.Errorf("preflight: %d check(s) failed", len(failed))
	}

	lock, err := acquireSessionLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release session lock", logging.Error(err))
		}
	}()

	sentences, err := corpus.Load(cfg.Paths.CorpusFile, logger)
	if err != nil {
		return err
	}

	sampleWidth, err := referenceSampleWidth(cfg, logger)
	if err != nil {
		return err
	}

	runCtx := cmd.Context()

	stream, err := capture.Open(capture.Options{
		DeviceIndex: cfg.Audio.DeviceIndex,
		SampleRate:  cfg.Audio.SampleRate,
		ChunkSize:   cfg.Audio.ChunkSize,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Warn("failed to close audio stream", logging.Error(err))
		}
	}()

	if cfg.Hotplug.Enabled {
		monitor := capture.NewHotplugMonitor(logger, nil)
		if err := monitor.Start(runCtx); err != nil {
			logger.Warn("hotplug monitor unavailable", logging.Error(err))
		}
		defer monitor.Stop()
	}

	clipStore, err := clips.NewStore(clips.Options{
		Dir:             cfg.Paths.OutputDir,
		Format:          stream.Format(),
		ResampleEnabled: cfg.Audio.ResampleEnabled,
		ResampleRate:    cfg.Audio.ResampleRate,
	}, logger)
	if err != nil {
		return err
	}

	recorderOpts := session.RecorderOptions{
		Thresholds:  thresholdsFromConfig(cfg),
		SampleWidth: sampleWidth,
		Logger:      logger,
	}
	if cfg.Journal.Enabled {
		store, err := journal.Open(runCtx, cfg.Journal.Path)
		if err != nil {
			logging.WarnWithContext(logger, "take journal unavailable", "journal_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check journal.path or set journal.enabled = false"),
				logging.String(logging.FieldImpact, "takes are not recorded in history"),
			)
		} else {
			defer store.Close()
			recorderOpts.OnTake = session.JournalObserver(store, sessionID, logger)
		}
	}

	console := session.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	recorder := session.NewRecorder(console, stream, clipStore, recorderOpts)

	controller, err := session.NewController(session.ControllerOptions{
		Console:     console,
		Recorder:    recorder,
		Progress:    progress.NewStore(cfg.ProgressPath(), logger),
		Assembler:   corpus.NewAssembler(clipStore, cfg.ManifestPath(), logger),
		Sentences:   sentences,
		ListDevices: writeDeviceTable,
		SessionID:   sessionID,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	return controller.Run(runCtx)
}

func parseDeviceIndex(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid device index %q: must be an integer", value)
	}
	return index, nil
}

func thresholdsFromConfig(cfg *config.Config) audio.Thresholds {
	return audio.Thresholds{
		RMSThreshold:  cfg.Trim.RMSThreshold,
		MinAvgRMS:     cfg.Trim.MinAvgRMS,
		IgnorePadding: cfg.Trim.IgnorePadding,
		KeepPadding:   cfg.Trim.KeepPadding,
		QualityGate:   cfg.Trim.QualityGate,
	}
}

// referenceSampleWidth reads the optional reference WAV and returns the sample
// width the trimmer should decode with.
func referenceSampleWidth(cfg *config.Config, logger *slog.Logger) (int, error) {
	ref := strings.TrimSpace(cfg.Paths.ReferenceAudio)
	if ref == "" {
		return audio.SampleWidth16, nil
	}
	format, err := audio.ReadWAVFormatFile(ref)
	if err != nil {
		return 0, fmt.Errorf("read reference audio: %w", err)
	}
	if format.SampleWidth() != audio.SampleWidth16 {
		return 0, fmt.Errorf("reference audio %s: %w", ref, audio.ErrUnsupportedSampleWidth)
	}
	if format.SampleRate != cfg.Audio.SampleRate {
		logging.WarnWithContext(logger, "reference sample rate differs from capture rate", "reference_rate_mismatch",
			logging.Int("reference_rate", format.SampleRate),
			logging.Int("capture_rate", cfg.Audio.SampleRate),
			logging.String(logging.FieldErrorHint, "set audio.sample_rate to the reference rate"),
		)
	}
	logger.Info("reference profile loaded", logging.String("path", ref), logging.String("format", format.String()))
	return format.SampleWidth(), nil
}

func writeDeviceTable(w io.Writer) error {
	devices, err := listDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errors.New("no input-capable audio devices found")
	}
	fmt.Fprintln(w, formatDevices(devices))
	return nil
}
