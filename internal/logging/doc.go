// Package logging builds the slog loggers used by voicebooth.
//
// A recording session logs to two places: warnings and errors appear on the
// terminal between operator prompts, and everything at the configured level
// is appended to voicebooth.log. Context helpers tag lines with the session
// ID and the sentence being recorded.
package logging
