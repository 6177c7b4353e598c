package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/tinygl/graphics"
)

// Context wraps a GLFW window and its OpenGL context.
type Context struct {
	window *glfw.Window
}

// New creates a window with an OpenGL 4.1 core context. InitGraphics must
// have been called.
func New(cfg graphics.Config) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	if cfg.Samples > 0 {
		glfw.WindowHint(glfw.Samples, cfg.Samples)
	}
	if !cfg.Visible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	title := cfg.Title
	if title == "" {
		title = "tinygl"
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	c := &Context{window: win}
	c.MakeCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return c, nil
}

// SetEventSink registers sink for this window and installs the native
// callbacks. The registry entry exists before any callback can fire.
func (c *Context) SetEventSink(sink graphics.EventSink) {
	if sink == nil {
		unregister(c.window)
		c.window.SetKeyCallback(nil)
		c.window.SetMouseButtonCallback(nil)
		c.window.SetCursorPosCallback(nil)
		c.window.SetScrollCallback(nil)
		return
	}
	register(c.window, sink)
	c.window.SetKeyCallback(onKey)
	c.window.SetMouseButtonCallback(onMouseButton)
	c.window.SetCursorPosCallback(onCursorPos)
	c.window.SetScrollCallback(onScroll)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// DetachCurrent makes no context current on the calling thread.
func (c *Context) DetachCurrent() {
	glfw.DetachCurrentContext()
}

// Shutdown unregisters and destroys the window.
func (c *Context) Shutdown() {
	if c.window == nil {
		return
	}
	unregister(c.window)
	c.window.Destroy()
	c.window = nil
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

func (c *Context) CursorPos() (float64, float64) {
	return c.window.GetCursorPos()
}

func (c *Context) KeyPressed(key graphics.Key) bool {
	return c.window.GetKey(glfw.Key(key)) == glfw.Press
}

func (c *Context) MouseButtonPressed(button graphics.MouseButton) bool {
	return c.window.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
