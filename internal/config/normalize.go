package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	if c.Preflight.MinFreeMiB < 0 {
		c.Preflight.MinFreeMiB = 0
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CorpusFile) == "" {
		c.Paths.CorpusFile = defaultCorpusFile
	}
	if c.Paths.CorpusFile, err = expandPath(c.Paths.CorpusFile); err != nil {
		return fmt.Errorf("paths.corpus_file: %w", err)
	}
	c.Paths.ReferenceAudio = strings.TrimSpace(c.Paths.ReferenceAudio)
	if c.Paths.ReferenceAudio, err = expandPath(c.Paths.ReferenceAudio); err != nil {
		return fmt.Errorf("paths.reference_audio: %w", err)
	}
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() error {
	if value, ok := os.LookupEnv(deviceIndexEnvVar); ok && strings.TrimSpace(value) != "" {
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %q is not a device index", deviceIndexEnvVar, value)
		}
		c.Audio.DeviceIndex = idx
	}
	if c.Audio.DeviceIndex < 0 {
		c.Audio.DeviceIndex = defaultDeviceIndex
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.ChunkSize <= 0 {
		c.Audio.ChunkSize = defaultChunkSize
	}
	if c.Audio.ResampleRate <= 0 {
		c.Audio.ResampleRate = defaultResampleRate
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath()
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
