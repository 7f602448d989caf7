package main

import (
	"context"
	"strings"
	"testing"

	"voicebooth/internal/journal"
	"voicebooth/internal/testsupport"
)

func TestHistoryEmptyJournal(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No takes recorded")
}

func TestHistoryListsTakes(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenJournal(t, env.cfg)
	ctx := context.Background()
	for _, take := range []journal.Take{
		{SessionID: "0123456789abcdef", SentenceIndex: 4, Outcome: journal.OutcomeRejectedQuiet, ChunkCount: 30, KeptChunks: 12, AvgRMS: 31.5},
		{SessionID: "0123456789abcdef", SentenceIndex: 4, Outcome: journal.OutcomeAccepted, ChunkCount: 40, KeptChunks: 22, AvgRMS: 88.4},
		{SessionID: "fedcba9876543210", SentenceIndex: 5, Outcome: journal.OutcomeSkipped, ChunkCount: 18, KeptChunks: 9, AvgRMS: 60},
	} {
		if _, err := store.Record(ctx, take); err != nil {
			t.Fatalf("record take: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Outcome")
	requireContains(t, out, "rejected_quiet")
	requireContains(t, out, "01234567")
	requireContains(t, out, "88.4")
	requireContains(t, out, "3 takes across 2 session(s): accepted=1 skipped=1 rejected_quiet=1")

	out, _, err = runCLI(t, []string{"history", "--sentence", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history --sentence: %v", err)
	}
	requireContains(t, out, "skipped")
	if strings.Contains(out, "│ accepted ") || strings.Contains(out, "│ rejected_quiet ") {
		t.Fatalf("expected only sentence 5 takes, got %q", out)
	}
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutJournal())
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when journal disabled")
	}
	requireContains(t, err.Error(), "journal is disabled")
}
