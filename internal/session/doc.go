// Package session runs the interactive recording workflow.
//
// Controller reads operator commands and, for anything that is not a known
// command, hands the sentence at the current progress cursor to Recorder.
// Recorder walks one sentence through capture, trimming, playback and review
// and reports whether the take was accepted, skipped or abandoned. Progress is
// committed by the controller only after the recorder returns, so a crash
// mid-take leaves the cursor on the same sentence.
//
// Console owns stdin. Every operator read, including the line that stops a
// capture, goes through it, so nothing else in the process may read stdin.
package session
