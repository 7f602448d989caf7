package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// SampleWidth16 is the byte width of a signed 16-bit PCM sample.
const SampleWidth16 = 2

// Chunk is one block of little-endian signed 16-bit mono PCM as delivered by
// the capture backend.
type Chunk []byte

var (
	// ErrMalformedChunk reports a chunk whose length is not a multiple of the sample width.
	ErrMalformedChunk = errors.New("malformed pcm chunk")
	// ErrUnsupportedSampleWidth reports a sample width other than 16-bit.
	ErrUnsupportedSampleWidth = errors.New("unsupported sample width")
)

// Format describes the PCM layout of a clip or reference file.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// SampleWidth returns the byte width of one sample.
func (f Format) SampleWidth() int {
	return f.BitsPerSample / 8
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d-bit, %d ch", f.SampleRate, f.BitsPerSample, f.Channels)
}

// DecodeSamples unpacks a chunk into signed 16-bit samples.
func DecodeSamples(chunk Chunk, sampleWidth int) ([]int16, error) {
	if sampleWidth != SampleWidth16 {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedSampleWidth, sampleWidth)
	}
	if len(chunk)%sampleWidth != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of sample width %d", ErrMalformedChunk, len(chunk), sampleWidth)
	}
	samples := make([]int16, len(chunk)/sampleWidth)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(chunk[i*2:]))
	}
	return samples, nil
}

// EncodeSamples packs samples into a little-endian chunk.
func EncodeSamples(samples []int16) Chunk {
	out := make(Chunk, len(samples)*SampleWidth16)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// Join concatenates chunks into one PCM buffer.
func Join(chunks []Chunk) []byte {
	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	out := make([]byte, 0, size)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
