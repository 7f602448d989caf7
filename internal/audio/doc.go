// Package audio holds the recording-quality pipeline: PCM chunk decoding, the
// RMS energy metric, the silence trimmer with its quality gate, WAV encoding
// and header inspection, and the resampler used for the training-rate copy of
// each clip.
//
// Everything here is pure and operates on caller-owned buffers. Trimming never
// mutates chunk contents; it only selects an inclusive sub-range.
package audio
