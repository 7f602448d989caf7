package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInterrupted is returned when the operator interrupts a read (SIGINT) or
// the session context is otherwise canceled.
var ErrInterrupted = errors.New("session interrupted")

// Console serializes operator input and output. A single goroutine reads
// lines from the input; ReadLine hands them out one at a time.
type Console struct {
	in    io.Reader
	out   io.Writer
	lines chan string

	once sync.Once
	mu   sync.Mutex
	err  error
}

// NewConsole wraps in and out. Reading does not start until the first ReadLine.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

func (c *Console) start() {
	c.once.Do(func() {
		go c.readLoop()
	})
}

func (c *Console) readLoop() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.lines <- strings.TrimRight(scanner.Text(), "\r")
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.lines)
}

// ReadLine returns the next operator line with surrounding whitespace removed.
// It returns io.EOF once input is exhausted and ErrInterrupted when ctx ends
// first.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.start()
	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case line, ok := <-c.lines:
		if !ok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return "", c.err
		}
		return strings.TrimSpace(line), nil
	}
}

// Prompt writes text without a trailing newline and reads the answer.
func (c *Console) Prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(c.out, text)
	return c.ReadLine(ctx)
}

// Println writes a line of operator-facing text.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted operator-facing text.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Out returns the output writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// isTerminal reports whether err ends the session without being a failure.
func isTerminal(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled)
}
