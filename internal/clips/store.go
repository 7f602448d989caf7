// Package clips writes accepted takes to the output directory and scans it for
// recorded sentence indices.
//
// Each accepted sentence produces <index>.wav at the capture rate and, when
// resampling is enabled, a sibling <index>_<rate>.wav at the training rate.
package clips

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"voicebooth/internal/audio"
	"voicebooth/internal/fileutil"
	"voicebooth/internal/logging"
)

// Options configures a Store.
type Options struct {
	Dir             string
	Format          audio.Format
	ResampleEnabled bool
	ResampleRate    int
}

// Store owns the clip files in one output directory.
type Store struct {
	opts   Options
	logger *slog.Logger
}

// Saved describes the files written for one accepted take.
type Saved struct {
	Index         int
	RawPath       string
	ResampledPath string
	Bytes         int
}

// NewStore validates opts and returns a store.
func NewStore(opts Options, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("clip store: directory is required")
	}
	if opts.Format.SampleWidth() != audio.SampleWidth16 || opts.Format.Channels != 1 {
		return nil, fmt.Errorf("clip store: only 16-bit mono is supported, got %s", opts.Format)
	}
	if opts.ResampleEnabled && opts.ResampleRate <= 0 {
		return nil, fmt.Errorf("clip store: invalid resample rate %d", opts.ResampleRate)
	}
	return &Store{opts: opts, logger: logging.NewComponentLogger(logger, "clips")}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.opts.Dir
}

// ClipID returns the manifest identifier of sentence index.
func (s *Store) ClipID(index int) string {
	if s.opts.ResampleEnabled {
		return fmt.Sprintf("%d_%d", index, s.opts.ResampleRate)
	}
	return strconv.Itoa(index)
}

// RawPath returns the capture-rate clip path for index.
func (s *Store) RawPath(index int) string {
	return filepath.Join(s.opts.Dir, strconv.Itoa(index)+".wav")
}

// ResampledPath returns the training-rate clip path for index.
func (s *Store) ResampledPath(index int) string {
	return filepath.Join(s.opts.Dir, fmt.Sprintf("%d_%d.wav", index, s.opts.ResampleRate))
}

// Save writes the kept chunks of an accepted take. Existing clips for the same
// index are replaced.
func (s *Store) Save(index int, chunks []audio.Chunk) (Saved, error) {
	if index < 0 {
		return Saved{}, fmt.Errorf("save clip: negative index %d", index)
	}
	pcm := audio.Join(chunks)

	out := Saved{Index: index, RawPath: s.RawPath(index)}
	n, err := writeClip(out.RawPath, pcm, s.opts.Format)
	if err != nil {
		return Saved{}, fmt.Errorf("write clip %d: %w", index, err)
	}
	out.Bytes = n

	if s.opts.ResampleEnabled && s.opts.ResampleRate != s.opts.Format.SampleRate {
		converted, err := audio.ResamplePCM(pcm, s.opts.Format.SampleRate, s.opts.ResampleRate)
		if err != nil {
			return Saved{}, fmt.Errorf("resample clip %d: %w", index, err)
		}
		target := s.opts.Format
		target.SampleRate = s.opts.ResampleRate
		out.ResampledPath = s.ResampledPath(index)
		n, err := writeClip(out.ResampledPath, converted, target)
		if err != nil {
			return Saved{}, fmt.Errorf("write resampled clip %d: %w", index, err)
		}
		out.Bytes += n
	}

	s.logger.Debug("clip saved",
		logging.Int(logging.FieldSentence, index),
		logging.String("path", out.RawPath),
		logging.Int("chunks", len(chunks)),
	)
	return out, nil
}

// writeClip atomically writes one WAV file and returns its size.
func writeClip(path string, pcm []byte, f audio.Format) (int, error) {
	var size int64
	err := fileutil.WriteAtomic(path, 0o644, func(file *os.File) error {
		if err := audio.WriteWAV(file, pcm, f); err != nil {
			return err
		}
		var err error
		size, err = file.Seek(0, io.SeekEnd)
		return err
	})
	return int(size), err
}

// Indices returns the distinct sentence indices that have at least one clip,
// in ascending order. A missing directory yields no indices.
func (s *Store) Indices() ([]int, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan clips: %w", err)
	}

	seen := make(map[int]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if idx, ok := ParseIndex(entry.Name()); ok {
			seen[idx] = struct{}{}
		}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	return indices, nil
}

// ParseIndex extracts the sentence index from a clip file name such as
// "12.wav" or "12_22050.wav".
func ParseIndex(name string) (int, bool) {
	if !strings.EqualFold(filepath.Ext(name), ".wav") {
		return 0, false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	head, _, _ := strings.Cut(base, "_")
	if head == "" {
		return 0, false
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return idx, true
}
