package journal

import "context"

// Exec runs raw SQL against the journal for tests.
func (s *Store) Exec(query string) error {
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Version returns the journal's user_version.
func (s *Store) Version() (int, error) {
	var v int
	err := s.db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&v)
	return v, err
}
