package sprite

import (
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/richinsley/tinygl/graphics"
)

// ErrUnknownSprite is returned by Get for names that were never loaded.
var ErrUnknownSprite = errors.New("unknown sprite")

// Sprite is an uploaded image and its size in pixels.
type Sprite struct {
	Texture graphics.Texture
	Width   int
	Height  int
}

// Store owns the sprite textures of one window.
type Store struct {
	dev     graphics.Device
	dir     string
	maxSize int
	sprites map[string]Sprite
	warned  map[string]bool
}

// NewStore returns an empty store. Relative paths passed to LoadFile are
// resolved against dir; maxSize limits the uploaded size (0 = unlimited).
func NewStore(dev graphics.Device, dir string, maxSize int) *Store {
	return &Store{
		dev:     dev,
		dir:     dir,
		maxSize: maxSize,
		sprites: make(map[string]Sprite),
		warned:  make(map[string]bool),
	}
}

// LoadFile decodes path and registers it under name, replacing any
// sprite already registered with that name.
func (s *Store) LoadFile(name, path string) error {
	if s.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	img, err := LoadFile(path)
	if err != nil {
		return err
	}
	return s.LoadImage(name, img)
}

// LoadImage uploads img under name.
func (s *Store) LoadImage(name string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("sprite %q: nil image", name)
	}
	rgba := Prepare(img, s.maxSize)
	tex, err := s.dev.NewTexture(rgba)
	if err != nil {
		return fmt.Errorf("sprite %q: %w", name, err)
	}
	if old, ok := s.sprites[name]; ok {
		s.dev.DeleteTexture(old.Texture)
	}
	s.sprites[name] = Sprite{Texture: tex, Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy()}
	delete(s.warned, name)
	log.Printf("Loaded sprite %q (%dx%d)", name, rgba.Rect.Dx(), rgba.Rect.Dy())
	return nil
}

// Get returns the sprite registered under name.
func (s *Store) Get(name string) (Sprite, error) {
	sp, ok := s.sprites[name]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: %q", ErrUnknownSprite, name)
	}
	return sp, nil
}

// Lookup is Get for the draw path: a missing name is logged the first
// time it is asked for and reported as not found afterwards.
func (s *Store) Lookup(name string) (Sprite, bool) {
	sp, ok := s.sprites[name]
	if !ok && !s.warned[name] {
		s.warned[name] = true
		log.Printf("Sprite %q has not been loaded", name)
	}
	return sp, ok
}

// Len is the number of registered sprites.
func (s *Store) Len() int {
	return len(s.sprites)
}

// Destroy deletes every texture.
func (s *Store) Destroy() {
	for name, sp := range s.sprites {
		s.dev.DeleteTexture(sp.Texture)
		delete(s.sprites, name)
	}
}
