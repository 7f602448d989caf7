package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"voicebooth/internal/audio"
	"voicebooth/internal/clips"
)

// stopLine marks where the operator presses enter to end a capture. The
// operator waits for the fake stream to drain the current take first.
const stopLine = "\x00stop"

var errTakeOver = errors.New("scripted take exhausted")

// scriptedStream plays back one scripted take per capture. When a take runs
// out it signals drained and fails the read, which ends the capture.
type scriptedStream struct {
	mu      sync.Mutex
	takes   [][]audio.Chunk
	take    int
	pos     int
	reads   int
	drained chan struct{}
	played  [][]audio.Chunk
	onRead  func(n int)
}

func newScriptedStream(takes ...[]audio.Chunk) *scriptedStream {
	return &scriptedStream{takes: takes, drained: make(chan struct{}, 16)}
}

func (s *scriptedStream) Read() (audio.Chunk, error) {
	s.mu.Lock()
	s.reads++
	n := s.reads
	hook := s.onRead
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.take >= len(s.takes) {
		return nil, errTakeOver
	}
	cur := s.takes[s.take]
	if s.pos < len(cur) {
		c := cur[s.pos]
		s.pos++
		return c, nil
	}
	s.take++
	s.pos = 0
	s.drained <- struct{}{}
	return nil, errTakeOver
}

func (s *scriptedStream) Play(chunks []audio.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, chunks)
	return nil
}

func (s *scriptedStream) playCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.played)
}

// endlessStream returns the same chunk forever.
type endlessStream struct {
	chunk  audio.Chunk
	reads  int
	onRead func(n int)
}

func (s *endlessStream) Read() (audio.Chunk, error) {
	s.reads++
	if s.onRead != nil {
		s.onRead(s.reads)
	}
	return s.chunk, nil
}

func (s *endlessStream) Play([]audio.Chunk) error { return nil }

type failingClips struct{}

func (failingClips) Save(int, []audio.Chunk) (clips.Saved, error) {
	return clips.Saved{}, errors.New("disk full")
}

// operator writes scripted lines into the console pipe. It closes the pipe
// after the last line, which the console reports as EOF.
func operator(t *testing.T, w *io.PipeWriter, drained <-chan struct{}, lines ...string) {
	t.Helper()
	go func() {
		defer w.Close()
		for _, line := range lines {
			if line == stopLine {
				select {
				case <-drained:
				case <-time.After(5 * time.Second):
					t.Errorf("timed out waiting for capture to drain")
					return
				}
				line = ""
			}
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return
			}
		}
	}()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func withTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
