// Package tinygl opens sketch windows on the GLFW/OpenGL backend.
package tinygl

import (
	"github.com/richinsley/tinygl/glfwcontext"
	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/headless"
	"github.com/richinsley/tinygl/sketch"
)

// Backend returns the offscreen EGL backend when offscreen is set and the
// GLFW backend otherwise.
func Backend(offscreen bool) graphics.Backend {
	if offscreen {
		return headless.NewBackend()
	}
	return glfwcontext.NewBackend()
}

// NewWindow creates a sketch window backed by GLFW and OpenGL 4.1. Options
// given here are applied after the backend is selected.
func NewWindow(width, height int, app any, opts ...sketch.Option) (*sketch.Window, error) {
	opts = append([]sketch.Option{sketch.WithBackend(glfwcontext.NewBackend())}, opts...)
	return sketch.New(width, height, app, opts...)
}

// Run opens a window for app, runs it until it closes and releases it.
func Run(width, height int, app any, opts ...sketch.Option) error {
	w, err := NewWindow(width, height, app, opts...)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Run(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
