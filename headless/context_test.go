package headless

import "testing"

type fakeSurface struct {
	current, swaps, destroyed int
}

func (f *fakeSurface) makeCurrent() { f.current++ }
func (f *fakeSurface) swap()        { f.swaps++ }
func (f *fakeSurface) destroy()     { f.destroyed++ }

func TestContext(t *testing.T) {
	s := &fakeSurface{}
	ctx := newContext(s, 320, 240)

	if w, h := ctx.GetFramebufferSize(); w != 320 || h != 240 {
		t.Errorf("framebuffer = %dx%d, want 320x240", w, h)
	}
	if ctx.ShouldClose() {
		t.Error("new context should not be closing")
	}
	ctx.SetShouldClose(true)
	if !ctx.ShouldClose() {
		t.Error("SetShouldClose(true) not reported")
	}
	if ctx.Time() < 0 {
		t.Errorf("Time() = %v, want >= 0", ctx.Time())
	}

	ctx.MakeCurrent()
	ctx.SwapBuffers()
	ctx.SwapBuffers()
	ctx.PollEvents()
	if s.current != 1 || s.swaps != 2 {
		t.Errorf("current=%d swaps=%d, want 1 and 2", s.current, s.swaps)
	}

	ctx.Shutdown()
	ctx.Shutdown()
	if s.destroyed != 1 {
		t.Errorf("destroyed %d times, want 1", s.destroyed)
	}
}

func TestContextHasNoInput(t *testing.T) {
	ctx := newContext(&fakeSurface{}, 1, 1)
	ctx.SetEventSink(nil)
	if x, y := ctx.CursorPos(); x != 0 || y != 0 {
		t.Errorf("CursorPos() = %v, %v", x, y)
	}
	if ctx.KeyPressed(65) || ctx.MouseButtonPressed(0) {
		t.Error("headless context reported pressed input")
	}
}
