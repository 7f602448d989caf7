package testsupport

import (
	"context"
	"testing"

	"voicebooth/internal/config"
	"voicebooth/internal/journal"
)

// MustOpenJournal opens the configured take journal and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
