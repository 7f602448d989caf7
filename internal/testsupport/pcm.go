package testsupport

import (
	"math"

	"voicebooth/internal/audio"
)

// DefaultChunkSamples matches the default capture chunk size.
const DefaultChunkSamples = 1024

// LevelChunk returns a chunk whose ChunkRMS is level. Samples alternate sign
// at a constant amplitude, so the metric is exact up to int16 rounding.
func LevelChunk(level float64, samples int) audio.Chunk {
	amp := int16(math.Round(level * 32768 / 1000))
	out := make([]int16, samples)
	for i := range out {
		if i%2 == 0 {
			out[i] = amp
		} else {
			out[i] = -amp
		}
	}
	return audio.EncodeSamples(out)
}

// Levels builds one default-sized chunk per entry.
func Levels(levels ...float64) []audio.Chunk {
	chunks := make([]audio.Chunk, len(levels))
	for i, l := range levels {
		chunks[i] = LevelChunk(l, DefaultChunkSamples)
	}
	return chunks
}

// Speech returns a take of total chunks where [from, to] are at loud and the
// rest at quiet.
func Speech(total, from, to int, quiet, loud float64) []audio.Chunk {
	levels := make([]float64, total)
	for i := range levels {
		if i >= from && i <= to {
			levels[i] = loud
		} else {
			levels[i] = quiet
		}
	}
	return Levels(levels...)
}
