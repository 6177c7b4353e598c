package graphics

// Context defines the interface for a native window owning an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	// PollEvents processes pending native events. Input callbacks run
	// synchronously inside this call.
	PollEvents()
	SwapBuffers()
	GetFramebufferSize() (int, int)
	// Time returns seconds since the host layer was initialized.
	Time() float64
	// CursorPos returns the cursor in host coordinates (top-left origin).
	CursorPos() (float64, float64)
	KeyPressed(key Key) bool
	MouseButtonPressed(button MouseButton) bool
	// SetEventSink routes native input callbacks to sink. Passing nil
	// detaches the context from event routing.
	SetEventSink(sink EventSink)
}

// EventSink receives raw input events from a Context.
type EventSink interface {
	OnKey(key Key, scancode int, action Action, mods ModifierKey)
	OnMouseButton(button MouseButton, action Action, mods ModifierKey)
	OnCursorPos(x, y float64)
	OnScroll(dx, dy float64)
}

// Backend opens the context and device pair a window draws with.
type Backend interface {
	Open(cfg Config) (Context, Device, error)
	// Close releases whatever Open acquired at the process level.
	Close()
}

// Config carries the window creation parameters a Backend needs.
type Config struct {
	Title   string
	Width   int
	Height  int
	Samples int
	VSync   bool
	Visible bool
	// Translate runs the built-in shaders through the GLSL ES translator
	// instead of using the hand-written desktop variants.
	Translate bool
}
