package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// exitInterrupted is the conventional status for a process ended by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()
	os.Exit(exitCode(os.Stderr, err, interrupted))
}

// exitCode reports err and maps it to a process status. A recording session
// that the operator interrupts saves its progress and returns nil, so only
// commands cut short before finishing end up with 130.
func exitCode(stderr io.Writer, err error, interrupted bool) int {
	switch {
	case err == nil:
		return 0
	case interrupted || errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "voicebooth: interrupted")
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "voicebooth: %v\n", err)
		return 1
	}
}
