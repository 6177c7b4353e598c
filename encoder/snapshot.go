package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// FrameImage wraps bottom-row-first RGBA pixels as a top-row-first image.
func FrameImage(pixels []byte, width, height int) (*image.RGBA, error) {
	stride := width * 4
	if len(pixels) != stride*height {
		return nil, fmt.Errorf("frame has %d bytes, want %d for %dx%d", len(pixels), stride*height, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], pixels[(height-1-y)*stride:])
	}
	return img, nil
}

// SavePNG writes a read-back frame to path.
func SavePNG(path string, pixels []byte, width, height int) error {
	img, err := FrameImage(pixels, width, height)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
