package audio

import (
	"fmt"
	"log"
	"strings"

	"github.com/richinsley/tinygl/options"
)

// We'll be using portaudio for microphone input.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// AudioDevice produces a stream of mono sample chunks.
type AudioDevice interface {
	// Start begins audio processing and returns a receive-only channel of
	// audio chunks. A nil channel means the device never produces data.
	Start() (<-chan []float32, error)
	// Stop terminates the audio stream and closes the channel.
	Stop() error
	SampleRate() int
}

// NullDevice is a silent source.
type NullDevice struct {
	rate int
}

func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{rate: sampleRate}
}

func (d *NullDevice) Start() (<-chan []float32, error) { return nil, nil }
func (d *NullDevice) Stop() error                      { return nil }
func (d *NullDevice) SampleRate() int                  { return d.rate }

// New returns the device selected by opts. Failing to open the microphone
// falls back to silence.
func New(opts options.AudioOptions, ffmpegPath string) (AudioDevice, error) {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	switch strings.ToLower(opts.Source) {
	case "", options.AudioNone:
		return NewNullDevice(rate), nil
	case options.AudioMic:
		mic, err := NewMicrophone(rate)
		if err != nil {
			log.Printf("Could not initialize microphone: %v. Using silent fallback.", err)
			return NewNullDevice(rate), nil
		}
		return mic, nil
	case options.AudioFile:
		in, err := NewFileInput(opts.File, rate, ffmpegPath)
		if err != nil {
			return nil, err
		}
		return in, nil
	default:
		return nil, fmt.Errorf("unknown audio source %q", opts.Source)
	}
}
