package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/tinygl"
	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/options"
	"github.com/richinsley/tinygl/sketch"
)

const numParticles = 50

type point struct{ x, y float32 }

type sprites struct {
	particles []point
	star      point
}

func (s *sprites) Setup(w *sketch.Window) {
	log.Printf("Window size: %v, %v", w.Width(), w.Height())
	load(w, "particle", "particle.png", func() image.Image { return radial(64) })
	load(w, "star", "star5.png", func() image.Image { return star(128, 5) })

	dx := w.Width() / numParticles
	for i := 0; i < numParticles; i++ {
		x := float32(i) * dx
		y := w.Height() * float32(math.Abs(math.Sin(float64(x))))
		s.particles = append(s.particles, point{x, y})
	}
	s.star = point{250, 400}
}

func (s *sprites) Draw(w *sketch.Window) {
	w.Background(0.2, 0.2, 0.2)
	dt := max(w.DT(), 0)

	w.Color(0.5, 1.0, 1.0)
	for i := range s.particles {
		p := &s.particles[i]
		w.Sprite("particle", p.x, p.y, 0.25)
		p.y = float32(math.Mod(float64(p.y+200*dt), float64(w.Height())))
	}

	w.Color(1.0, 1.0, 0.0)
	const speed = 200
	if w.KeyIsDown(graphics.Key(glfw.KeyLeft)) {
		s.star.x = max(0, s.star.x-speed*dt)
	} else if w.KeyIsDown(graphics.Key(glfw.KeyRight)) {
		s.star.x = min(w.Width(), s.star.x+speed*dt)
	}
	w.Sprite("star", s.star.x, s.star.y, 0.5)

	w.Color(1, 1, 1)
	w.Text("left/right to move", 10, 10, 14)
}

// load registers the sprite file when it exists and a generated stand-in
// otherwise.
func load(w *sketch.Window, name, path string, fallback func() image.Image) {
	if err := w.LoadSprite(name, path); err != nil {
		log.Printf("Using generated %s sprite: %v", name, err)
		if err := w.LoadSpriteImage(name, fallback()); err != nil {
			log.Printf("Cannot load %s sprite: %v", name, err)
		}
	}
}

// radial is a white disc fading to transparent at the edge.
func radial(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := math.Max(0, 1-d)
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(255 * a * a)})
		}
	}
	return img
}

// star is a white star with the given number of points.
func star(size, points int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	outer, inner := c*0.95, c*0.4
	sector := math.Pi / float64(points)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, c-(float64(y)+0.5)
			r := math.Hypot(dx, dy)
			theta := math.Atan2(dx, dy)
			// Distance in the current sector from the nearest tip, 0..1.
			t := math.Abs(math.Mod(theta+2*math.Pi+sector, 2*sector)-sector) / sector
			if r <= outer-(outer-inner)*t {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if opts.SpriteDir == "" {
		opts.SpriteDir = "sprites"
	}
	if err := tinygl.Run(opts.Width, opts.Height, &sprites{}, sketch.WithOptions(opts), sketch.WithBackend(tinygl.Backend(opts.Headless))); err != nil {
		log.Fatalf("sprites: %v", err)
	}
}
