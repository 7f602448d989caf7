package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voicebooth/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks against the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Preflight", colorize)
			lines = append(lines, preflightLines(results, colorize)...)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if failed := preflight.Failures(results); len(failed) > 0 {
				return fmt.Errorf("preflight: %d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
