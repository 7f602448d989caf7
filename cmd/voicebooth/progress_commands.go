package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"voicebooth/internal/audio"
	"voicebooth/internal/clips"
	"voicebooth/internal/config"
	"voicebooth/internal/corpus"
	"voicebooth/internal/logging"
	"voicebooth/internal/progress"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble",
		Short: "Rebuild metadata.csv from the recorded clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sentences, err := corpus.Load(cfg.Paths.CorpusFile, logger)
			if err != nil {
				return err
			}
			store, err := clipStoreFromConfig(cfg)
			if err != nil {
				return err
			}
			assembler := corpus.NewAssembler(store, cfg.ManifestPath(), logger)
			manifest, err := assembler.Run(sentences)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Assembled %d clips into %s\n", len(manifest.Entries), assembler.Path())
			if len(manifest.Orphans) > 0 {
				fmt.Fprintf(out, "Ignored %d clip(s) with no corpus sentence: %v\n", len(manifest.Orphans), manifest.Orphans)
			}
			return nil
		},
	}
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Move the progress cursor back one sentence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
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

			n, err := progress.NewStore(cfg.ProgressPath(), logger).Undo()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Back to sentence %d.\n", n)
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show recording progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sentences, err := corpus.Load(cfg.Paths.CorpusFile, logger)
			if err != nil {
				return err
			}
			cursor, err := progress.NewStore(cfg.ProgressPath(), logger).Read()
			if err != nil {
				return err
			}
			store, err := clipStoreFromConfig(cfg)
			if err != nil {
				return err
			}
			indices, err := store.Indices()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			progressKind := statusInfo
			if cursor >= len(sentences) {
				progressKind = statusOK
			}
			manifestKind, manifestMsg := statusOK, cfg.ManifestPath()
			if _, err := os.Stat(cfg.ManifestPath()); errors.Is(err, fs.ErrNotExist) {
				manifestKind, manifestMsg = statusWarn, "not assembled yet"
			} else if err != nil {
				manifestKind, manifestMsg = statusError, err.Error()
			}

			lines := renderSectionHeader("Session", colorize)
			lines = append(lines,
				renderStatusLine("Progress", progressKind, fmt.Sprintf("%d/%d", cursor, len(sentences)), colorize),
				renderStatusLine("Clips", statusInfo, fmt.Sprintf("%d recorded", len(indices)), colorize),
				renderStatusLine("Manifest", manifestKind, manifestMsg, colorize),
			)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// clipStoreFromConfig opens the clip directory with the configured capture format.
func clipStoreFromConfig(cfg *config.Config) (*clips.Store, error) {
	return clips.NewStore(clips.Options{
		Dir:             cfg.Paths.OutputDir,
		Format:          audio.Format{Channels: 1, SampleRate: cfg.Audio.SampleRate, BitsPerSample: 16},
		ResampleEnabled: cfg.Audio.ResampleEnabled,
		ResampleRate:    cfg.Audio.ResampleRate,
	}, nil)
}
