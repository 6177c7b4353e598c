package glfwcontext

import (
	"fmt"

	"github.com/richinsley/tinygl/gldevice"
	"github.com/richinsley/tinygl/graphics"
)

// Backend opens GLFW windows backed by the OpenGL device.
type Backend struct {
	initialized bool
}

// NewBackend returns a backend that initializes GLFW on first Open.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Open(cfg graphics.Config) (graphics.Context, graphics.Device, error) {
	if !b.initialized {
		if err := InitGraphics(); err != nil {
			return nil, nil, fmt.Errorf("cannot initialize GLFW: %w", err)
		}
		b.initialized = true
	}
	ctx, err := New(cfg)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	dev, err := gldevice.New(cfg.Translate)
	if err != nil {
		ctx.Shutdown()
		b.Close()
		return nil, nil, err
	}
	return ctx, dev, nil
}

func (b *Backend) Close() {
	if !b.initialized {
		return
	}
	TerminateGraphics()
	b.initialized = false
}
