package sketch

import "github.com/richinsley/tinygl/graphics"

// An application passed to New implements any subset of these interfaces.
// Hooks run on the main thread; input hooks run synchronously while the
// window polls events, between Draw and the buffer swap.

// SetupHook runs once before the first frame.
type SetupHook interface {
	Setup(w *Window)
}

// DrawHook runs once per frame after the buffers are cleared.
type DrawHook interface {
	Draw(w *Window)
}

// MouseMotionHook receives the cursor in window coordinates (origin at the
// bottom-left) and its movement since the previous motion event or press.
// dx and dy are per-event deltas, not the drag offset from the press: the
// baseline moves with every motion event, and a press resets it to the
// press position.
type MouseMotionHook interface {
	MouseMotion(w *Window, x, y, dx, dy int)
}

type MouseDownHook interface {
	MouseDown(w *Window, button graphics.MouseButton, mods graphics.ModifierKey)
}

type MouseUpHook interface {
	MouseUp(w *Window, button graphics.MouseButton, mods graphics.ModifierKey)
}

// ScrollHook receives wheel or trackpad offsets in scroll units.
type ScrollHook interface {
	Scroll(w *Window, dx, dy float32)
}

type KeyDownHook interface {
	KeyDown(w *Window, key graphics.Key, mods graphics.ModifierKey)
}

type KeyUpHook interface {
	KeyUp(w *Window, key graphics.Key, mods graphics.ModifierKey)
}

// hooks holds the interfaces the application value satisfied at New.
type hooks struct {
	setup       SetupHook
	draw        DrawHook
	mouseMotion MouseMotionHook
	mouseDown   MouseDownHook
	mouseUp     MouseUpHook
	scroll      ScrollHook
	keyDown     KeyDownHook
	keyUp       KeyUpHook
}

func resolveHooks(app any) hooks {
	var h hooks
	h.setup, _ = app.(SetupHook)
	h.draw, _ = app.(DrawHook)
	h.mouseMotion, _ = app.(MouseMotionHook)
	h.mouseDown, _ = app.(MouseDownHook)
	h.mouseUp, _ = app.(MouseUpHook)
	h.scroll, _ = app.(ScrollHook)
	h.keyDown, _ = app.(KeyDownHook)
	h.keyUp, _ = app.(KeyUpHook)
	return h
}
