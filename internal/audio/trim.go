package audio

import (
	"errors"
	"fmt"
)

// Default trimming parameters, on the ChunkRMS scale.
const (
	DefaultRMSThreshold  = 25.0
	DefaultMinAvgRMS     = 40.0
	DefaultIgnorePadding = 4
	DefaultKeepPadding   = 3
)

var (
	// ErrSilence reports a take with no usable speech window.
	ErrSilence = errors.New("recording contains no speech")
	// ErrTooQuiet reports a take whose speech window failed the quality gate.
	ErrTooQuiet = errors.New("recording too quiet")
	// ErrTooShort reports a take shorter than the ignore padding.
	ErrTooShort = errors.New("recording too short")
)

// IsRejection reports whether err is a recoverable take rejection rather than
// a decode failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrSilence) || errors.Is(err, ErrTooQuiet) || errors.Is(err, ErrTooShort)
}

// Thresholds configures Trim.
type Thresholds struct {
	RMSThreshold  float64
	MinAvgRMS     float64
	IgnorePadding int
	KeepPadding   int
	QualityGate   bool
}

// DefaultThresholds returns the stock trimming parameters with the quality gate on.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RMSThreshold:  DefaultRMSThreshold,
		MinAvgRMS:     DefaultMinAvgRMS,
		IgnorePadding: DefaultIgnorePadding,
		KeepPadding:   DefaultKeepPadding,
		QualityGate:   true,
	}
}

// Window is an inclusive chunk range selected by Trim.
type Window struct {
	Start  int
	End    int
	AvgRMS float64

	// Total is the number of chunks in the untrimmed take.
	Total int
}

// Len returns the number of chunks kept.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// Apply returns the kept sub-slice of chunks. The chunks are not copied.
func (w Window) Apply(chunks []Chunk) []Chunk {
	return chunks[w.Start : w.End+1]
}

// Trim selects the speech window of a take. The first and last IgnorePadding
// chunks are skipped when searching for suprathreshold energy (they usually
// carry the key press), then the window is widened by KeepPadding on each side
// and clamped to the buffer.
//
// A take shorter than IgnorePadding+1 chunks returns ErrTooShort, a take with no
// chunk at or above RMSThreshold (or whose pointers cross) returns ErrSilence,
// and, with the quality gate on, a window whose mean energy is not strictly
// above MinAvgRMS returns ErrTooQuiet. The window is still populated on
// ErrTooQuiet so callers can report the measured level.
func Trim(chunks []Chunk, sampleWidth int, th Thresholds) (Window, error) {
	levels := make([]float64, len(chunks))
	for i, c := range chunks {
		v, err := ChunkRMS(c, sampleWidth)
		if err != nil {
			return Window{}, fmt.Errorf("chunk %d: %w", i, err)
		}
		levels[i] = v
	}

	total := len(chunks)
	maxIdx := total - 1
	if th.IgnorePadding < 0 || total < th.IgnorePadding+1 {
		return Window{Total: total}, ErrTooShort
	}

	start := th.IgnorePadding
	for levels[start] < th.RMSThreshold && start < maxIdx {
		start++
	}
	if levels[start] < th.RMSThreshold {
		return Window{Total: total}, ErrSilence
	}

	end := maxIdx - th.IgnorePadding
	for levels[end] < th.RMSThreshold && end > 0 {
		end--
	}

	start = max(start-th.KeepPadding, 0)
	end = min(end+th.KeepPadding, maxIdx)
	if start >= end {
		return Window{Start: start, End: end, Total: total}, ErrSilence
	}

	var sum float64
	for _, v := range levels[start : end+1] {
		sum += v
	}
	w := Window{Start: start, End: end, Total: total}
	w.AvgRMS = sum / float64(w.Len())

	if th.QualityGate && !(w.AvgRMS > th.MinAvgRMS) {
		return w, ErrTooQuiet
	}
	return w, nil
}
