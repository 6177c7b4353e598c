package audio

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// Microphone captures mono samples from the default input device.
type Microphone struct {
	sampleRate  int
	stream      *portaudio.Stream
	audioChan   chan []float32
	isStreaming bool
	dropped     int
}

func NewMicrophone(sampleRate int) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Microphone{sampleRate: sampleRate}, nil
}

// audioCallback runs on the portaudio thread and must not block.
func (m *Microphone) audioCallback(in []float32) {
	chunk := make([]float32, len(in))
	copy(chunk, in)

	select {
	case m.audioChan <- chunk:
	default:
		m.dropped++
		if m.dropped == 1 || m.dropped%100 == 0 {
			log.Printf("Warning: microphone consumer is behind, %d chunks dropped", m.dropped)
		}
	}
}

func (m *Microphone) Start() (<-chan []float32, error) {
	m.audioChan = make(chan []float32, 16)

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("no default audio host: %w", err)
	}
	if host.DefaultInputDevice == nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("no default input device on %s", host.Name)
	}

	params := portaudio.LowLatencyParameters(host.DefaultInputDevice, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)

	stream, err := portaudio.OpenStream(params, m.audioCallback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	m.stream = stream
	m.isStreaming = true
	log.Printf("Microphone %q started at %d Hz", host.DefaultInputDevice.Name, m.sampleRate)
	return m.audioChan, nil
}

func (m *Microphone) Stop() error {
	if !m.isStreaming {
		return nil
	}
	m.isStreaming = false
	err := m.stream.Close()
	close(m.audioChan)
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	return err
}

func (m *Microphone) SampleRate() int {
	return m.sampleRate
}
