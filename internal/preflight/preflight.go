package preflight

import (
	"voicebooth/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Output directory (always checked)
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Preflight.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Free space", cfg.Paths.OutputDir, uint64(cfg.Preflight.MinFreeMiB)))
	}

	results = append(results, CheckCorpus("Corpus", cfg.Paths.CorpusFile))

	if cfg.Paths.ReferenceAudio != "" {
		results = append(results, CheckReferenceAudio("Reference audio", cfg.Paths.ReferenceAudio))
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
