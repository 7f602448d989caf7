package journal

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var takesSchema string

// migrations[i] moves a journal from user_version i to i+1. Append to change
// the schema; never edit an entry that has shipped.
var migrations = []string{
	takesSchema,
}

// ErrSchemaMismatch reports a journal written by a newer voicebooth.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// migrate brings the journal up to the latest version, tracked in SQLite's
// user_version pragma.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read journal version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: journal has version %d, this build knows %d (delete %s to start a fresh journal)",
			ErrSchemaMismatch, version, len(migrations), s.path)
	}

	for next := version; next < len(migrations); next++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin journal migration: %w", err)
		}
		if _, err := tx.ExecContext(ctx, migrations[next]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate journal to version %d: %w", next+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", next+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record journal version %d: %w", next+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit journal version %d: %w", next+1, err)
		}
	}
	return nil
}
