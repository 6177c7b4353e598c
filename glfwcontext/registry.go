package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/tinygl/graphics"
)

// GLFW callbacks only receive the native window, so each trampoline looks
// the owning sink up here. Accessed from the main thread only.
var sinks = make(map[*glfw.Window]graphics.EventSink)

func register(w *glfw.Window, sink graphics.EventSink) {
	sinks[w] = sink
}

func unregister(w *glfw.Window) {
	delete(sinks, w)
}

func lookup(w *glfw.Window) (graphics.EventSink, bool) {
	sink, ok := sinks[w]
	return sink, ok
}

func onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if sink, ok := lookup(w); ok {
		sink.OnKey(graphics.Key(key), scancode, graphics.Action(action), graphics.ModifierKey(mods))
	}
}

func onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if sink, ok := lookup(w); ok {
		sink.OnMouseButton(graphics.MouseButton(button), graphics.Action(action), graphics.ModifierKey(mods))
	}
}

func onCursorPos(w *glfw.Window, x, y float64) {
	if sink, ok := lookup(w); ok {
		sink.OnCursorPos(x, y)
	}
}

func onScroll(w *glfw.Window, dx, dy float64) {
	if sink, ok := lookup(w); ok {
		sink.OnScroll(dx, dy)
	}
}
