package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampler"
)

// resampleQuality is the preset used for the training-rate sibling clip.
const resampleQuality = resampling.QualityHigh

// Resample converts mono 16-bit samples from one rate to another with the
// polyphase FIR resampler. Samples are scaled to [-1, 1) for filtering and
// clamped back to int16.
func Resample(samples []int16, fromRate, toRate int) ([]int16, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("resample: rates must be positive (from=%d to=%d)", fromRate, toRate)
	}
	if fromRate == toRate || len(samples) == 0 {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out, nil
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s) * shortNormalize
	}
	converted, err := resampling.ResampleMono(in, float64(fromRate), float64(toRate), resampleQuality)
	if err != nil {
		return nil, fmt.Errorf("resample %d Hz to %d Hz: %w", fromRate, toRate, err)
	}

	out := make([]int16, len(converted))
	for i, v := range converted {
		out[i] = clampInt16(v / shortNormalize)
	}
	return out, nil
}

// ResamplePCM is Resample over a little-endian byte buffer.
func ResamplePCM(pcm []byte, fromRate, toRate int) ([]byte, error) {
	samples, err := DecodeSamples(pcm, SampleWidth16)
	if err != nil {
		return nil, err
	}
	converted, err := Resample(samples, fromRate, toRate)
	if err != nil {
		return nil, err
	}
	return EncodeSamples(converted), nil
}

func clampInt16(v float64) int16 {
	v = math.Round(v)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
