package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voicebooth/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var sentence int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded takes from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("take journal is disabled (journal.enabled = false)")
			}
			store, err := journal.Open(cmd.Context(), cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var takes []journal.Take
			if cmd.Flags().Changed("sentence") {
				takes, err = store.ForSentence(cmd.Context(), sentence)
			} else {
				takes, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			summary, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(takes) == 0 {
				fmt.Fprintln(out, "No takes recorded")
				return nil
			}
			fmt.Fprintln(out, formatTakes(takes))
			fmt.Fprintln(out, formatSummary(summary))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent takes to show")
	cmd.Flags().IntVar(&sentence, "sentence", 0, "Show every take of one sentence index")
	return cmd
}

func formatTakes(takes []journal.Take) string {
	rows := make([][]string, 0, len(takes))
	for _, t := range takes {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.CreatedAt.Local().Format(time.DateTime),
			shortSessionID(t.SessionID),
			strconv.Itoa(t.SentenceIndex),
			string(t.Outcome),
			strconv.Itoa(t.ChunkCount),
			strconv.Itoa(t.KeptChunks),
			fmt.Sprintf("%.1f", t.AvgRMS),
		})
	}
	return renderTable([]column{
		{title: "ID", numeric: true},
		{title: "Time"},
		{title: "Session"},
		{title: "Sentence", numeric: true},
		{title: "Outcome"},
		{title: "Chunks", numeric: true},
		{title: "Kept", numeric: true},
		{title: "Avg RMS", numeric: true},
	}, rows)
}

func formatSummary(s journal.Summary) string {
	parts := make([]string, 0, len(s.Counts))
	for _, outcome := range journal.Outcomes() {
		if n := s.Counts[outcome]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", outcome, n))
		}
	}
	return fmt.Sprintf("%d takes across %d session(s): %s", s.Total(), s.Sessions, strings.Join(parts, " "))
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
