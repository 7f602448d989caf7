package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	OutputDir      string `toml:"output_dir"`
	CorpusFile     string `toml:"corpus_file"`
	ReferenceAudio string `toml:"reference_audio"`
	LogDir         string `toml:"log_dir"`
}

// Audio contains capture device and clip format settings.
type Audio struct {
	// DeviceIndex selects the PortAudio input device. Negative means the system default.
	DeviceIndex     int  `toml:"device_index"`
	SampleRate      int  `toml:"sample_rate"`
	ChunkSize       int  `toml:"chunk_size"`
	ResampleEnabled bool `toml:"resample_enabled"`
	ResampleRate    int  `toml:"resample_rate"`
}

// Trim contains the silence trimmer thresholds. The defaults must not be
// changed casually: clips recorded with different thresholds are not
// comparable.
type Trim struct {
	RMSThreshold  float64 `toml:"rms_threshold"`
	MinAvgRMS     float64 `toml:"min_avg_rms"`
	IgnorePadding int     `toml:"ignore_padding"`
	KeepPadding   int     `toml:"keep_padding"`
	QualityGate   bool    `toml:"quality_gate"`
}

// Journal contains configuration for the take history database.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Hotplug contains configuration for the udev sound device watcher.
type Hotplug struct {
	Enabled bool `toml:"enabled"`
}

// Preflight contains thresholds for startup checks.
type Preflight struct {
	MinFreeMiB int `toml:"min_free_mib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for voicebooth.
//
// Configuration sections by subsystem:
//   - Paths: output directory, corpus, reference profile, logs
//   - Audio: input device and clip sample rates
//   - Trim: silence trimming and quality gate thresholds
//   - Journal: SQLite take history
//   - Hotplug: udev sound device monitoring
//   - Preflight: startup check thresholds
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Audio     Audio     `toml:"audio"`
	Trim      Trim      `toml:"trim"`
	Journal   Journal   `toml:"journal"`
	Hotplug   Hotplug   `toml:"hotplug"`
	Preflight Preflight `toml:"preflight"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/voicebooth/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("voicebooth.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Journal.Path), 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}
	return nil
}

// ProgressPath returns the location of the progress cursor file.
func (c *Config) ProgressPath() string {
	return filepath.Join(c.Paths.OutputDir, progressFilename)
}

// ManifestPath returns the location of the assembled manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.OutputDir, manifestFilename)
}

// LockPath returns the session lock file guarding the output directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.OutputDir, lockFilename)
}

// LogPath returns the file log destination, or "" when file logging is disabled.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "voicebooth.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultJournalPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "voicebooth", "journal.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/voicebooth/journal.db"
	}
	return filepath.Join(home, ".local", "share", "voicebooth", "journal.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
