// Package corpus loads the pipe-delimited sentence list and assembles the
// training manifest from the clips recorded so far.
//
// Corpus lines have the shape id|text|normalized_text. Only lines with exactly
// three fields count; everything else is logged and skipped, and a sentence's
// index is its position among the accepted lines. The manifest lists one
// clip_id|text|text row per recorded sentence in ascending index order.
package corpus
