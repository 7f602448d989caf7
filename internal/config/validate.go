package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateTrim(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CorpusFile) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/voicebooth/config.toml"
		}
		return fmt.Errorf("paths.corpus_file must be set. Edit %s (create with 'voicebooth config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if err := ensurePositiveMap(map[string]int{
		"audio.sample_rate": c.Audio.SampleRate,
		"audio.chunk_size":  c.Audio.ChunkSize,
	}); err != nil {
		return err
	}
	if c.Audio.ResampleEnabled {
		if c.Audio.ResampleRate <= 0 {
			return errors.New("audio.resample_rate must be positive when audio.resample_enabled is true")
		}
		if c.Audio.ResampleRate == c.Audio.SampleRate {
			return errors.New("audio.resample_rate must differ from audio.sample_rate when audio.resample_enabled is true")
		}
	}
	return nil
}

func (c *Config) validateTrim() error {
	if c.Trim.RMSThreshold <= 0 {
		return errors.New("trim.rms_threshold must be positive")
	}
	if c.Trim.IgnorePadding < 0 {
		return errors.New("trim.ignore_padding must be >= 0")
	}
	if c.Trim.KeepPadding < 0 {
		return errors.New("trim.keep_padding must be >= 0")
	}
	if c.Trim.QualityGate && c.Trim.MinAvgRMS < c.Trim.RMSThreshold {
		return errors.New("trim.min_avg_rms must be >= trim.rms_threshold when trim.quality_gate is true")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return errors.New("journal.path must be set when journal.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
