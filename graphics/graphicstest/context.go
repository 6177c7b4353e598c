package graphicstest

import "github.com/richinsley/tinygl/graphics"

// Context is a scripted graphics.Context. Time advances by Step on every
// SwapBuffers, and OnPoll runs inside PollEvents with the installed sink,
// mimicking GLFW dispatching callbacks during glfwPollEvents.
type Context struct {
	Width, Height int
	Now           float64
	Step          float64
	CursorX       float64
	CursorY       float64
	Keys          map[graphics.Key]bool
	Buttons       map[graphics.MouseButton]bool

	OnPoll func(poll int, sink graphics.EventSink)

	Polls     int
	Swaps     int
	Shutdowns int
	Current   bool

	sink  graphics.EventSink
	close bool
}

// NewContext returns a context whose clock advances 1/60s per frame.
func NewContext(width, height int) *Context {
	return &Context{
		Width:   width,
		Height:  height,
		Step:    1.0 / 60,
		Keys:    make(map[graphics.Key]bool),
		Buttons: make(map[graphics.MouseButton]bool),
	}
}

func (c *Context) MakeCurrent()             { c.Current = true }
func (c *Context) Shutdown()                { c.Shutdowns++ }
func (c *Context) ShouldClose() bool        { return c.close }
func (c *Context) SetShouldClose(v bool)    { c.close = v }
func (c *Context) Time() float64            { return c.Now }
func (c *Context) Sink() graphics.EventSink { return c.sink }

func (c *Context) SetEventSink(sink graphics.EventSink) { c.sink = sink }

func (c *Context) PollEvents() {
	c.Polls++
	if c.OnPoll != nil && c.sink != nil {
		c.OnPoll(c.Polls, c.sink)
	}
}

func (c *Context) SwapBuffers() {
	c.Swaps++
	c.Now += c.Step
}

func (c *Context) GetFramebufferSize() (int, int) { return c.Width, c.Height }

func (c *Context) CursorPos() (float64, float64) { return c.CursorX, c.CursorY }

func (c *Context) KeyPressed(key graphics.Key) bool { return c.Keys[key] }

func (c *Context) MouseButtonPressed(button graphics.MouseButton) bool {
	return c.Buttons[button]
}

// Backend hands out a fixed Context and Device, or Err.
type Backend struct {
	Ctx    *Context
	Dev    *Device
	Err    error
	Config graphics.Config
	Closed int
}

func (b *Backend) Open(cfg graphics.Config) (graphics.Context, graphics.Device, error) {
	b.Config = cfg
	if b.Err != nil {
		return nil, nil, b.Err
	}
	return b.Ctx, b.Dev, nil
}

func (b *Backend) Close() { b.Closed++ }
