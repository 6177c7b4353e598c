package headless

import (
	"fmt"

	"github.com/richinsley/tinygl/gldevice"
	"github.com/richinsley/tinygl/graphics"
)

// Backend opens offscreen contexts backed by the OpenGL device.
type Backend struct{}

func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Open(cfg graphics.Config) (graphics.Context, graphics.Device, error) {
	s, err := newSurface(cfg.Width, cfg.Height)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create headless surface: %w", err)
	}
	ctx := newContext(s, cfg.Width, cfg.Height)
	ctx.MakeCurrent()
	dev, err := gldevice.New(cfg.Translate)
	if err != nil {
		ctx.Shutdown()
		return nil, nil, err
	}
	return ctx, dev, nil
}

// Close is a no-op; each surface releases its display on Shutdown.
func (b *Backend) Close() {}
