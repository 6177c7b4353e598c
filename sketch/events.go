package sketch

import "github.com/richinsley/tinygl/graphics"

// events adapts the window to graphics.EventSink.
type events struct {
	w *Window
}

func (e events) OnKey(key graphics.Key, scancode int, action graphics.Action, mods graphics.ModifierKey) {
	w := e.w
	if key == graphics.KeyEscape && action == graphics.Press {
		w.requestClose()
	}
	switch action {
	case graphics.Press:
		if w.hooks.keyDown != nil {
			w.hooks.keyDown.KeyDown(w, key, mods)
		}
	case graphics.Release:
		if w.hooks.keyUp != nil {
			w.hooks.keyUp.KeyUp(w, key, mods)
		}
	}
}

func (e events) OnMouseButton(button graphics.MouseButton, action graphics.Action, mods graphics.ModifierKey) {
	w := e.w
	x, y := w.ctx.CursorPos()
	switch action {
	case graphics.Press:
		w.lastMouseX, w.lastMouseY = int(x), int(y)
		if w.hooks.mouseDown != nil {
			w.hooks.mouseDown.MouseDown(w, button, mods)
		}
	case graphics.Release:
		if w.hooks.mouseUp != nil {
			w.hooks.mouseUp.MouseUp(w, button, mods)
		}
	}
	e.OnCursorPos(x, y)
}

// OnCursorPos converts host coordinates (origin top-left) to window
// coordinates and reports movement relative to the last baseline.
func (e events) OnCursorPos(x, y float64) {
	w := e.w
	hx, hy := int(x), int(y)
	dx := hx - w.lastMouseX
	dy := hy - w.lastMouseY
	w.lastMouseX, w.lastMouseY = hx, hy
	if w.hooks.mouseMotion != nil {
		w.hooks.mouseMotion.MouseMotion(w, hx, w.height-hy, dx, -dy)
	}
}

func (e events) OnScroll(dx, dy float64) {
	if e.w.hooks.scroll != nil {
		e.w.hooks.scroll.Scroll(e.w, float32(dx), float32(dy))
	}
}
