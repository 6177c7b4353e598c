// Package text rasterizes strings with the Go regular font for drawing as
// textured quads.
package text

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
)

func regular() (*opentype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

// Bitmap is a rendered string. Glyphs are white with coverage in alpha,
// so a tint multiplies straight through.
type Bitmap struct {
	Image *image.RGBA
	// Descent is the number of pixel rows below the baseline.
	Descent int
	// Advance is the pen advance in pixels.
	Advance float64
}

// Limits on what Rasterize will render. MaxBitmapSide matches the
// smallest GL_MAX_TEXTURE_SIZE OpenGL 4.1 guarantees.
const (
	MaxSize       = 1024
	MaxBitmapSide = 16384
)

// Rasterize renders s at size pixels per em. The image is exactly as wide
// as the string's advance and as tall as the face's ascent plus descent.
func Rasterize(s string, size float64) (*Bitmap, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("invalid text size %v, want (0, %d]", size, MaxSize)
	}
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	advance := font.MeasureString(face, s)

	width := max(advance.Ceil(), 1)
	height := max(ascent+descent, 1)
	if width > MaxBitmapSide || height > MaxBitmapSide {
		return nil, fmt.Errorf("text %q at size %v needs %dx%d pixels, limit is %d", s, size, width, height, MaxBitmapSide)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(ascent)},
	}
	d.DrawString(s)

	// Un-premultiply: keep the color white and let alpha carry coverage.
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] != 0 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 0xff, 0xff, 0xff
		}
	}

	return &Bitmap{
		Image:   img,
		Descent: descent,
		Advance: float64(advance) / 64,
	}, nil
}
