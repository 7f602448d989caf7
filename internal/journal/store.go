package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists takes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a take and returns it with ID and CreatedAt populated.
func (s *Store) Record(ctx context.Context, take Take) (Take, error) {
	if take.SessionID == "" {
		return Take{}, errors.New("record take: session id is required")
	}
	if take.Outcome == "" {
		return Take{}, errors.New("record take: outcome is required")
	}
	if take.CreatedAt.IsZero() {
		take.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO takes (
            session_id, sentence_index, outcome, chunk_count, kept_chunks, avg_rms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		take.SessionID,
		take.SentenceIndex,
		string(take.Outcome),
		take.ChunkCount,
		take.KeptChunks,
		take.AvgRMS,
		take.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Take{}, fmt.Errorf("insert take: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Take{}, fmt.Errorf("last insert id: %w", err)
	}
	take.ID = id
	return take, nil
}

// Recent returns up to limit takes, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Take, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, sentence_index, outcome, chunk_count, kept_chunks, avg_rms, created_at
         FROM takes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query takes: %w", err)
	}
	defer rows.Close()

	var takes []Take
	for rows.Next() {
		take, err := scanTake(rows)
		if err != nil {
			return nil, err
		}
		takes = append(takes, take)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate takes: %w", err)
	}
	return takes, nil
}

// ForSentence returns every take of one sentence, oldest first.
func (s *Store) ForSentence(ctx context.Context, index int) ([]Take, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, sentence_index, outcome, chunk_count, kept_chunks, avg_rms, created_at
         FROM takes WHERE sentence_index = ? ORDER BY id`, index)
	if err != nil {
		return nil, fmt.Errorf("query sentence takes: %w", err)
	}
	defer rows.Close()

	var takes []Take
	for rows.Next() {
		take, err := scanTake(rows)
		if err != nil {
			return nil, err
		}
		takes = append(takes, take)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentence takes: %w", err)
	}
	return takes, nil
}

// Summary counts takes per outcome and distinct sessions.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	summary := Summary{Counts: make(map[Outcome]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM takes GROUP BY outcome`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize takes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		summary.Counts[Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate summary: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM takes`).Scan(&summary.Sessions); err != nil {
		return Summary{}, fmt.Errorf("count sessions: %w", err)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTake(row rowScanner) (Take, error) {
	var (
		take      Take
		outcome   string
		createdAt string
	)
	if err := row.Scan(
		&take.ID,
		&take.SessionID,
		&take.SentenceIndex,
		&outcome,
		&take.ChunkCount,
		&take.KeptChunks,
		&take.AvgRMS,
		&createdAt,
	); err != nil {
		return Take{}, fmt.Errorf("scan take: %w", err)
	}
	take.Outcome = Outcome(outcome)
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		take.CreatedAt = ts
	}
	return take, nil
}
