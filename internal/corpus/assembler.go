package corpus

import (
	"bytes"
	"fmt"
	"log/slog"

	"voicebooth/internal/fileutil"
	"voicebooth/internal/logging"
)

// ClipSource lists recorded sentences and names their clips.
type ClipSource interface {
	Indices() ([]int, error)
	ClipID(index int) string
}

// Entry is one manifest row.
type Entry struct {
	Index  int
	ClipID string
	Text   string
}

// Manifest is the rendered training metadata.
type Manifest struct {
	Entries []Entry

	// Orphans are clip indices with no matching sentence.
	Orphans []int
}

// Bytes renders the manifest as clip_id|text|text lines.
func (m Manifest) Bytes() []byte {
	var buf bytes.Buffer
	for _, e := range m.Entries {
		fmt.Fprintf(&buf, "%s|%s|%s\n", e.ClipID, e.Text, e.Text)
	}
	return buf.Bytes()
}

// Assembler builds the manifest from the clip directory.
type Assembler struct {
	clips  ClipSource
	path   string
	logger *slog.Logger
}

// NewAssembler returns an assembler writing to manifestPath.
func NewAssembler(clips ClipSource, manifestPath string, logger *slog.Logger) *Assembler {
	return &Assembler{
		clips:  clips,
		path:   manifestPath,
		logger: logging.NewComponentLogger(logger, "assembler"),
	}
}

// Path returns the manifest file path.
func (a *Assembler) Path() string {
	return a.path
}

// Assemble intersects the recorded clip indices with sentences. It reads the
// clip directory and nothing else.
func (a *Assembler) Assemble(sentences []Sentence) (Manifest, error) {
	indices, err := a.clips.Indices()
	if err != nil {
		return Manifest{}, fmt.Errorf("assemble manifest: %w", err)
	}

	var m Manifest
	for _, idx := range indices {
		if idx < 0 || idx >= len(sentences) {
			m.Orphans = append(m.Orphans, idx)
			continue
		}
		m.Entries = append(m.Entries, Entry{
			Index:  idx,
			ClipID: a.clips.ClipID(idx),
			Text:   sentences[idx].Text,
		})
	}
	if len(m.Orphans) > 0 {
		logging.WarnWithContext(a.logger, "clips without a corpus sentence", "manifest_orphan_clips",
			logging.Any("indices", m.Orphans),
			logging.String(logging.FieldErrorHint, "the corpus file may have changed since recording"),
			logging.String(logging.FieldImpact, "clips omitted from manifest"),
		)
	}
	return m, nil
}

// WriteManifest atomically replaces the manifest file.
func (a *Assembler) WriteManifest(m Manifest) error {
	if err := fileutil.WriteFileAtomic(a.path, m.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	a.logger.Info("manifest written",
		logging.String("path", a.path),
		logging.Int("entries", len(m.Entries)),
	)
	return nil
}

// Run assembles and writes the manifest in one step.
func (a *Assembler) Run(sentences []Sentence) (Manifest, error) {
	m, err := a.Assemble(sentences)
	if err != nil {
		return Manifest{}, err
	}
	if err := a.WriteManifest(m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
