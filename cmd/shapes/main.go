package main

import (
	"flag"
	"log"
	"math"
	"os"
	"runtime"

	"github.com/richinsley/tinygl"
	"github.com/richinsley/tinygl/options"
	"github.com/richinsley/tinygl/sketch"
)

type shapes struct{}

func (shapes) Setup(w *sketch.Window) {
	log.Printf("Window size: %v, %v", w.Width(), w.Height())
}

func (shapes) Draw(w *sketch.Window) {
	w.Background(0.2, 0.2, 0.2)

	w.Color(0.5, 1.0, 0.25)
	w.Circle(50, 30, 100)
	w.Circle(50, 30, 100)
	w.Square(300, 150, 200, 50)

	w.ColorA(1, 0, 0, 0.5)
	w.Triangle(350, 150, 50, 100)

	w.ColorA(1, 0, 1, 0.5)
	bob := 25 * float32(math.Sin(float64(w.ElapsedTime())))
	size := 100 + 200*w.AudioLevel()
	w.Ellipsoid(150, 350+bob, size, size)

	if spectrum := w.Spectrum(); spectrum != nil {
		drawSpectrum(w, spectrum)
	}
}

// drawSpectrum draws 64 bars along the bottom edge.
func drawSpectrum(w *sketch.Window, spectrum []float32) {
	const bars = 64
	per := len(spectrum) / bars
	barWidth := w.Width() / bars
	w.ColorA(0.3, 0.8, 1, 0.6)
	for i := 0; i < bars; i++ {
		var peak float32
		for _, v := range spectrum[i*per : (i+1)*per] {
			peak = max(peak, v)
		}
		h := peak * w.Height() / 4
		w.Square(barWidth*(float32(i)+0.5), h/2, barWidth-1, h)
	}
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if err := tinygl.Run(opts.Width, opts.Height, shapes{}, sketch.WithOptions(opts), sketch.WithBackend(tinygl.Backend(opts.Headless))); err != nil {
		log.Fatalf("shapes: %v", err)
	}
}
