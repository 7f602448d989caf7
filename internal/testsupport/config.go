package testsupport

import (
	"path/filepath"
	"testing"

	"voicebooth/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.CorpusFile = filepath.Join(base, "corpus.txt")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Journal.Path = filepath.Join(base, "journal.db")
	cfgVal.Hotplug.Enabled = false
	cfgVal.Preflight.MinFreeMiB = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCorpus writes the given lines to the configured corpus file.
func WithCorpus(lines ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteCorpus(b.t, b.cfg.Paths.CorpusFile, lines...)
	}
}

// WithResampling toggles the resampled sibling clip.
func WithResampling(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.ResampleEnabled = enabled
	}
}

// WithoutJournal disables the take journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
