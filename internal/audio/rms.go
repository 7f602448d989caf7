package audio

import "math"

const (
	// shortNormalize maps int16 samples into [-1, 1).
	shortNormalize = 1.0 / 32768.0
	// rmsScale is applied to the normalized RMS; thresholds are expressed on this scale.
	rmsScale = 1000.0
)

// ChunkRMS returns the energy metric of a chunk: the RMS of its normalized
// samples multiplied by 1000. An empty chunk has zero energy.
func ChunkRMS(chunk Chunk, sampleWidth int) (float64, error) {
	samples, err := DecodeSamples(chunk, sampleWidth)
	if err != nil {
		return 0, err
	}
	return samplesRMS(samples), nil
}

func samplesRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		n := float64(s) * shortNormalize
		sumSquares += n * n
	}
	return math.Sqrt(sumSquares/float64(len(samples))) * rmsScale
}
