package testsupport

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptix/wav"

	"voicebooth/internal/audio"
)

// WriteWAV writes pcm as a mono clip at path.
func WriteWAV(t testing.TB, path string, pcm []byte, f audio.Format) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()
	if err := audio.WriteWAV(file, pcm, f); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
}

// ReadWAV returns the format and 16-bit PCM payload of the clip at path.
func ReadWAV(t testing.TB, path string) (audio.Format, []byte) {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	r, err := wav.NewReader(file, info.Size())
	if err != nil {
		t.Fatalf("wav reader %s: %v", path, err)
	}
	meta := r.GetFile()

	var samples []int16
	for {
		sample, err := r.ReadSample()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("read sample from %s: %v", path, err)
			}
			break
		}
		samples = append(samples, int16(uint16(sample)))
	}
	f := audio.Format{
		Channels:      int(meta.Channels),
		SampleRate:    int(meta.SampleRate),
		BitsPerSample: int(meta.SignificantBits),
	}
	return f, audio.EncodeSamples(samples)
}

// StereoWAV returns a canonical 16-bit stereo WAV holding frames of silence.
// Clips are mono only, so this is built by hand for rejection tests.
func StereoWAV(sampleRate, frames int) []byte {
	dataSize := frames * 4
	buf := make([]byte, 44+dataSize)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)
	binary.LittleEndian.PutUint16(buf[22:], 2)
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(sampleRate*4))
	binary.LittleEndian.PutUint16(buf[32:], 4)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))
	return buf
}
