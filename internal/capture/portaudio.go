package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voicebooth/internal/audio"
	"voicebooth/internal/logging"
)

// DefaultDevice selects the host's default input device.
const DefaultDevice = -1

// Options configures Open.
type Options struct {
	DeviceIndex int
	SampleRate  int
	ChunkSize   int
	Logger      *slog.Logger
}

// Device describes an input-capable audio device.
type Device struct {
	Index             int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	Default           bool
}

// Stream is an open capture and playback pair. Input is started lazily on the
// first Read after Open or after Play, so audio captured while the operator
// listens to a take does not overflow into the next one.
type Stream struct {
	mu       sync.Mutex
	in       *portaudio.Stream
	out      *portaudio.Stream
	inBuf    []int16
	outBuf   []int16
	running  bool
	device   Device
	format   audio.Format
	logger   *slog.Logger
	closed   bool
	overflow int
}

// Devices lists devices with at least one input channel.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()
	return listDevices()
}

func listDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defaultIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}

	var devices []Device
	for _, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		devices = append(devices, toDevice(info, defaultIndex))
	}
	return devices, nil
}

func toDevice(info *portaudio.DeviceInfo, defaultIndex int) Device {
	d := Device{
		Index:             info.Index,
		Name:              info.Name,
		MaxInputChannels:  info.MaxInputChannels,
		DefaultSampleRate: info.DefaultSampleRate,
		Default:           info.Index == defaultIndex,
	}
	if info.HostApi != nil {
		d.HostAPI = info.HostApi.Name
	}
	return d
}

// Open initializes PortAudio and opens a mono 16-bit input stream on the
// selected device plus an output stream on the default output device.
func Open(opts Options) (*Stream, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("open stream: invalid sample rate %d", opts.SampleRate)
	}
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("open stream: invalid chunk size %d", opts.ChunkSize)
	}
	logger := logging.NewComponentLogger(opts.Logger, "capture")

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	inputInfo, err := resolveInput(opts.DeviceIndex)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	outputInfo, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("default output device: %w", err)
	}

	s := &Stream{
		inBuf:  make([]int16, opts.ChunkSize),
		outBuf: make([]int16, opts.ChunkSize),
		device: toDevice(inputInfo, inputInfo.Index),
		format: audio.Format{Channels: 1, SampleRate: opts.SampleRate, BitsPerSample: 16},
		logger: logger,
	}

	inParams := portaudio.LowLatencyParameters(inputInfo, nil)
	inParams.Input.Channels = 1
	inParams.SampleRate = float64(opts.SampleRate)
	inParams.FramesPerBuffer = opts.ChunkSize
	s.in, err = portaudio.OpenStream(inParams, s.inBuf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream on %q: %w", inputInfo.Name, err)
	}

	outParams := portaudio.LowLatencyParameters(nil, outputInfo)
	outParams.Output.Channels = 1
	outParams.SampleRate = float64(opts.SampleRate)
	outParams.FramesPerBuffer = opts.ChunkSize
	s.out, err = portaudio.OpenStream(outParams, s.outBuf)
	if err != nil {
		_ = s.in.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream on %q: %w", outputInfo.Name, err)
	}

	logger.Info("audio stream opened",
		logging.Int("device_index", inputInfo.Index),
		logging.String("device", inputInfo.Name),
		logging.String("format", s.format.String()),
		logging.Int("chunk_size", opts.ChunkSize),
	)
	return s, nil
}

func resolveInput(index int) (*portaudio.DeviceInfo, error) {
	if index == DefaultDevice {
		info, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return info, nil
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for _, info := range infos {
		if info != nil && info.Index == index {
			if info.MaxInputChannels <= 0 {
				return nil, fmt.Errorf("device %d (%s) has no input channels", index, info.Name)
			}
			return info, nil
		}
	}
	return nil, fmt.Errorf("input device %d not found", index)
}

// Device returns the input device in use.
func (s *Stream) Device() Device {
	return s.device
}

// Format returns the capture format.
func (s *Stream) Format() audio.Format {
	return s.format
}

// Read blocks for one chunk of input. Input overflow is counted and logged at
// debug level but does not fail the read.
func (s *Stream) Read() (audio.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("read from closed stream")
	}
	if !s.running {
		if err := s.in.Start(); err != nil {
			return nil, fmt.Errorf("start input stream: %w", err)
		}
		s.running = true
	}
	if err := s.in.Read(); err != nil {
		if !errors.Is(err, portaudio.InputOverflowed) {
			return nil, fmt.Errorf("read input stream: %w", err)
		}
		s.overflow++
		s.logger.Debug("input overflow", logging.Int("count", s.overflow))
	}
	return audio.EncodeSamples(s.inBuf), nil
}

// Play writes chunks to the output device and returns once they are queued.
func (s *Stream) Play(chunks []audio.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("play on closed stream")
	}
	if s.running {
		if err := s.in.Stop(); err != nil {
			return fmt.Errorf("stop input stream: %w", err)
		}
		s.running = false
	}

	samples, err := audio.DecodeSamples(audio.Join(chunks), audio.SampleWidth16)
	if err != nil {
		return fmt.Errorf("decode playback: %w", err)
	}
	if err := s.out.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	for off := 0; off < len(samples); off += len(s.outBuf) {
		n := copy(s.outBuf, samples[off:])
		clear(s.outBuf[n:])
		if err := s.out.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			_ = s.out.Stop()
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	if err := s.out.Stop(); err != nil {
		return fmt.Errorf("stop output stream: %w", err)
	}
	return nil
}

// Close stops and closes both streams and releases PortAudio. It is safe to
// call more than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.running {
		errs = append(errs, s.in.Stop())
		s.running = false
	}
	errs = append(errs, s.in.Close(), s.out.Close())
	errs = append(errs, portaudio.Terminate())
	if s.overflow > 0 {
		s.logger.Info("audio stream closed", logging.Int("input_overflows", s.overflow))
	}
	return errors.Join(errs...)
}
