// Package progress persists the session cursor: the index of the next
// sentence to record.
package progress

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"voicebooth/internal/fileutil"
	"voicebooth/internal/logging"
)

// Store reads and writes the progress file. A Store is safe for concurrent use
// but assumes it is the only writer of the file; the session lock guards that
// across processes.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore returns a store backed by path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "progress"),
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the persisted cursor. A missing, empty, unparsable or negative
// value is treated as 0 and the file is re-initialised.
func (s *Store) Read() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Write persists n atomically.
func (s *Store) Write(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(n)
}

// Undo decrements the cursor, floored at 0, and returns the new value.
func (s *Store) Undo() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readLocked()
	if err != nil {
		return 0, err
	}
	next := max(current-1, 0)
	if err := s.writeLocked(next); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) readLocked() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("read progress: %w", err)
		}
		s.logger.Info("progress file absent; starting at sentence 0", logging.String("path", s.path))
		return 0, s.writeLocked(0)
	}

	raw := strings.TrimSpace(string(data))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logging.WarnWithContext(s.logger, "progress file unreadable; resetting to 0", "progress_reset",
			logging.String("path", s.path),
			logging.String("value", raw),
			logging.String(logging.FieldErrorHint, "restore progress.txt from backup or run undo/record to rebuild it"),
			logging.String(logging.FieldImpact, "session restarts at sentence 0"),
		)
		return 0, s.writeLocked(0)
	}
	return n, nil
}

func (s *Store) writeLocked(n int) error {
	if n < 0 {
		return fmt.Errorf("write progress: negative value %d", n)
	}
	if err := fileutil.WriteFileAtomic(s.path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}
