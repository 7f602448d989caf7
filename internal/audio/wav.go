package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cryptix/wav"
)

// ErrInvalidWAV reports a file that is not a readable PCM WAV stream.
var ErrInvalidWAV = errors.New("invalid wav file")

// keepOpen lets the wav writer finalize its header without closing the
// destination; the caller syncs and closes it.
type keepOpen struct {
	io.WriteSeeker
}

func (keepOpen) Close() error { return nil }

// WriteWAV writes pcm to out as a mono 16-bit WAV file. The header is patched
// with the final sizes before WriteWAV returns; out is not closed.
func WriteWAV(out io.WriteSeeker, pcm []byte, f Format) error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("write wav: sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels != 1 || f.SampleWidth() != SampleWidth16 {
		return fmt.Errorf("write wav: only 16-bit mono is supported, got %s", f)
	}
	if len(pcm)%SampleWidth16 != 0 {
		return fmt.Errorf("write wav: %w: %d bytes is not a whole number of samples", ErrMalformedChunk, len(pcm))
	}

	file := wav.File{
		Channels:        uint16(f.Channels),
		SampleRate:      uint32(f.SampleRate),
		SignificantBits: uint16(f.BitsPerSample),
	}
	w, err := file.NewWriter(keepOpen{out})
	if err != nil {
		return fmt.Errorf("write wav: create writer: %w", err)
	}
	for off := 0; off < len(pcm); off += SampleWidth16 {
		if err := w.WriteSample(pcm[off : off+SampleWidth16]); err != nil {
			return fmt.Errorf("write wav: sample %d: %w", off/SampleWidth16, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write wav: finalize header: %w", err)
	}
	return nil
}

// ReadWAVFormat parses the header of a size-byte WAV stream.
func ReadWAVFormat(r io.ReadSeeker, size int64) (Format, error) {
	rd, err := wav.NewReader(r, size)
	if err != nil {
		return Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	info := rd.GetFile()
	return Format{
		Channels:      int(info.Channels),
		SampleRate:    int(info.SampleRate),
		BitsPerSample: int(info.SignificantBits),
	}, nil
}

// ReadWAVFormatFile opens path and reads its format.
func ReadWAVFormatFile(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return Format{}, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return Format{}, fmt.Errorf("stat wav: %w", err)
	}
	f, err := ReadWAVFormat(file, info.Size())
	if err != nil {
		return Format{}, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}
