// Package main hosts the voicebooth CLI entrypoint and command graph.
//
// Running voicebooth with no subcommand starts an interactive recording
// session, optionally on the input device given as the only argument. The
// remaining commands inspect or repair the session state on disk: device
// listing, manifest assembly, progress undo and status, take history, and
// preflight checks. Configuration resolution and logger setup are centralized
// here so the internal packages stay free of CLI concerns.
package main
