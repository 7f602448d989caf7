package config

const (
	defaultOutputDir      = "output"
	defaultCorpusFile     = "ljs_train_text.txt"
	defaultLogDir         = "~/.local/share/voicebooth/logs"
	defaultDeviceIndex    = -1
	defaultSampleRate     = 44100
	defaultChunkSize      = 1024
	defaultResampleRate   = 22050
	defaultRMSThreshold   = 25.0
	defaultMinAvgRMS      = 40.0
	defaultIgnorePadding  = 4
	defaultKeepPadding    = 3
	defaultMinFreeMiB     = 512
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	progressFilename      = "progress.txt"
	manifestFilename      = "metadata.csv"
	lockFilename          = ".voicebooth.lock"
	deviceIndexEnvVar     = "VOICEBOOTH_DEVICE"
	defaultJournalEnabled = true
	defaultHotplugEnabled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			CorpusFile: defaultCorpusFile,
			LogDir:     defaultLogDir,
		},
		Audio: Audio{
			DeviceIndex:     defaultDeviceIndex,
			SampleRate:      defaultSampleRate,
			ChunkSize:       defaultChunkSize,
			ResampleEnabled: true,
			ResampleRate:    defaultResampleRate,
		},
		Trim: Trim{
			RMSThreshold:  defaultRMSThreshold,
			MinAvgRMS:     defaultMinAvgRMS,
			IgnorePadding: defaultIgnorePadding,
			KeepPadding:   defaultKeepPadding,
			QualityGate:   true,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
			Path:    defaultJournalPath(),
		},
		Hotplug: Hotplug{
			Enabled: defaultHotplugEnabled,
		},
		Preflight: Preflight{
			MinFreeMiB: defaultMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
