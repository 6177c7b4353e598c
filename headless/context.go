// Package headless renders into an offscreen EGL surface, for recording
// on machines without a display.
package headless

import (
	"time"

	"github.com/richinsley/tinygl/graphics"
)

// Context is a graphics.Context with no window and no input. The loop
// ends only through SetShouldClose.
type Context struct {
	surface     surface
	width       int
	height      int
	start       time.Time
	shouldClose bool
}

// surface is the platform half of a Context.
type surface interface {
	makeCurrent()
	swap()
	destroy()
}

func newContext(s surface, width, height int) *Context {
	return &Context{surface: s, width: width, height: height, start: time.Now()}
}

func (c *Context) MakeCurrent() { c.surface.makeCurrent() }

func (c *Context) Shutdown() {
	if c.surface == nil {
		return
	}
	c.surface.destroy()
	c.surface = nil
}

func (c *Context) ShouldClose() bool     { return c.shouldClose }
func (c *Context) SetShouldClose(v bool) { c.shouldClose = v }
func (c *Context) PollEvents()           {}
func (c *Context) SwapBuffers()          { c.surface.swap() }

func (c *Context) GetFramebufferSize() (int, int) { return c.width, c.height }

func (c *Context) Time() float64 { return time.Since(c.start).Seconds() }

func (c *Context) CursorPos() (float64, float64)                { return 0, 0 }
func (c *Context) KeyPressed(graphics.Key) bool                 { return false }
func (c *Context) MouseButtonPressed(graphics.MouseButton) bool { return false }
func (c *Context) SetEventSink(graphics.EventSink)              {}
