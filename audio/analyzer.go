package audio

import (
	"fmt"
	"log"
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
)

const (
	// FFTSize samples give FFTSize/2 frequency bins, of which the lowest
	// SpectrumBins are kept.
	FFTSize      = 2048
	SpectrumBins = 512

	historySize = FFTSize * 4
	levelWindow = 1024

	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

// Analyzer consumes an AudioDevice and turns its most recent samples into
// a smoothed spectrum and an RMS level once per Update.
type Analyzer struct {
	device AudioDevice

	mu        sync.Mutex
	history   []float32
	bufferPos int

	window   []float64
	lastFFT  []float64
	spectrum []float32
	level    float32
}

// NewAnalyzer starts device and listens to it in the background.
func NewAnalyzer(device AudioDevice) (*Analyzer, error) {
	a := newAnalyzer(device)
	ch, err := device.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start audio device: %w", err)
	}
	if ch != nil {
		go a.listen(ch)
	}
	return a, nil
}

func newAnalyzer(device AudioDevice) *Analyzer {
	a := &Analyzer{
		device:   device,
		history:  make([]float32, historySize),
		window:   blackmanWindow(FFTSize),
		lastFFT:  make([]float64, SpectrumBins),
		spectrum: make([]float32, SpectrumBins),
	}
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	return a
}

func (a *Analyzer) listen(ch <-chan []float32) {
	for samples := range ch {
		a.Write(samples)
	}
	log.Printf("Audio input closed. Analyzer listener exiting.")
}

// Write appends samples to the history ring.
func (a *Analyzer) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.history[a.bufferPos] = s
		a.bufferPos = (a.bufferPos + 1) % historySize
	}
}

func (a *Analyzer) recent(n int) []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float32, n)
	for i := range out {
		out[i] = a.history[(a.bufferPos-n+i+historySize)%historySize]
	}
	return out
}

// Update recomputes the spectrum and level from the latest FFTSize samples.
func (a *Analyzer) Update() {
	samples := a.recent(FFTSize)

	windowed := make([]float64, FFTSize)
	for i, s := range samples {
		windowed[i] = float64(s) * a.window[i]
	}
	bins := fft.FFTReal(windowed)

	for i := 0; i < SpectrumBins; i++ {
		re, im := real(bins[i]), imag(bins[i])
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / FFTSize)
		db := 20 * math.Log10(magnitude+1e-9)

		a.lastFFT[i] = smoothing*a.lastFFT[i] + (1-smoothing)*db
		a.spectrum[i] = scaleDecibels(a.lastFFT[i])
	}

	var sum float64
	for _, s := range samples[FFTSize-levelWindow:] {
		sum += float64(s) * float64(s)
	}
	a.level = float32(math.Sqrt(sum / levelWindow))
}

func scaleDecibels(db float64) float32 {
	switch {
	case db <= minDecibels:
		return 0
	case db >= maxDecibels:
		return 1
	default:
		return float32((db - minDecibels) / (maxDecibels - minDecibels))
	}
}

// Level is the RMS of the most recent samples as of the last Update.
func (a *Analyzer) Level() float32 {
	return a.level
}

// Spectrum returns a copy of the SpectrumBins magnitudes, each in [0, 1].
func (a *Analyzer) Spectrum() []float32 {
	out := make([]float32, len(a.spectrum))
	copy(out, a.spectrum)
	return out
}

func (a *Analyzer) SampleRate() int {
	return a.device.SampleRate()
}

// Close stops the device, which ends the listener.
func (a *Analyzer) Close() error {
	return a.device.Stop()
}

// blackmanWindow generates a Blackman window of the given size.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	const a0, a1, a2 = 0.42, 0.5, 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - a1*math.Cos(2*math.Pi*t) + a2*math.Cos(4*math.Pi*t)
	}
	return window
}
