// Package journal records every take of a recording session in SQLite so the
// operator can review what was accepted, skipped or rejected across sessions.
//
// The journal is advisory. Session code logs write failures and keeps going;
// progress.txt and the clip directory remain the source of truth.
package journal
