package sketch

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/graphics/graphicstest"
	"github.com/richinsley/tinygl/options"
)

// app records hook calls and can stop the loop after a number of frames.
type app struct {
	frames   int
	stopAt   int
	setupDT  float32
	dts      []float32
	elapsed  []float32
	draw     func(w *Window)
	motions  [][4]int
	downs    []graphics.MouseButton
	ups      []graphics.MouseButton
	keyDowns []graphics.Key
	keyUps   []graphics.Key
	scrolls  [][2]float32
	order    []string
}

func (a *app) Setup(w *Window) {
	a.setupDT = w.DT()
	a.order = append(a.order, "setup")
}

func (a *app) Draw(w *Window) {
	a.frames++
	a.dts = append(a.dts, w.DT())
	a.elapsed = append(a.elapsed, w.ElapsedTime())
	a.order = append(a.order, "draw")
	if a.draw != nil {
		a.draw(w)
	}
	if a.stopAt > 0 && a.frames >= a.stopAt {
		w.NoLoop()
	}
}

func (a *app) MouseMotion(w *Window, x, y, dx, dy int) {
	a.motions = append(a.motions, [4]int{x, y, dx, dy})
	a.order = append(a.order, "motion")
}

func (a *app) MouseDown(w *Window, b graphics.MouseButton, mods graphics.ModifierKey) {
	a.downs = append(a.downs, b)
	a.order = append(a.order, "down")
}

func (a *app) MouseUp(w *Window, b graphics.MouseButton, mods graphics.ModifierKey) {
	a.ups = append(a.ups, b)
	a.order = append(a.order, "up")
}

func (a *app) KeyDown(w *Window, k graphics.Key, mods graphics.ModifierKey) {
	a.keyDowns = append(a.keyDowns, k)
}

func (a *app) KeyUp(w *Window, k graphics.Key, mods graphics.ModifierKey) {
	a.keyUps = append(a.keyUps, k)
}

func (a *app) Scroll(w *Window, dx, dy float32) {
	a.scrolls = append(a.scrolls, [2]float32{dx, dy})
}

func newTestWindow(t *testing.T, a any, opts ...Option) (*Window, *graphicstest.Backend) {
	t.Helper()
	b := &graphicstest.Backend{
		Ctx: graphicstest.NewContext(500, 500),
		Dev: graphicstest.NewDevice(),
	}
	w, err := New(500, 500, a, append([]Option{WithBackend(b)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, b
}

func TestNewConfiguresDevice(t *testing.T) {
	w, b := newTestWindow(t, &app{}, WithTitle("demo"), WithSegments(32))
	if !b.Dev.StateInitialized {
		t.Error("render state not initialized")
	}
	if b.Dev.ViewportSize != [4]int{0, 0, 500, 500} {
		t.Errorf("viewport = %v", b.Dev.ViewportSize)
	}
	if n := len(b.Dev.ClearColors); n != 1 || b.Dev.ClearColors[0] != [4]float32{0, 0, 0, 1} {
		t.Errorf("expected one clear to opaque black, got %v", b.Dev.ClearColors)
	}
	if b.Config.Title != "demo" || b.Config.Width != 500 || b.Config.Height != 500 {
		t.Errorf("backend config = %+v", b.Config)
	}
	if b.Ctx.Sink() == nil {
		t.Error("event sink not installed")
	}
	if w.State() != Uninitialized {
		t.Errorf("State() = %v, want uninitialized", w.State())
	}
	if w.Width() != 500 || w.Height() != 500 {
		t.Errorf("size = %vx%v", w.Width(), w.Height())
	}
	if w.pipeline.Segments() != 32 {
		t.Errorf("segments = %d, want 32", w.pipeline.Segments())
	}
}

func TestNewFailures(t *testing.T) {
	openErr := errors.New("no display")
	tests := []struct {
		name    string
		width   int
		height  int
		backend *graphicstest.Backend
		wantErr error
	}{
		{"zero width", 0, 100, &graphicstest.Backend{}, ErrInvalidSize},
		{"negative height", 100, -1, &graphicstest.Backend{}, ErrInvalidSize},
		{"backend", 100, 100, &graphicstest.Backend{Err: openErr}, openErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{}
			w, err := New(tt.width, tt.height, a, WithBackend(tt.backend))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New error = %v, want %v", err, tt.wantErr)
			}
			if w == nil {
				t.Fatal("New returned a nil window")
			}
			if err := w.Run(); !errors.Is(err, ErrNotRunnable) {
				t.Errorf("Run() = %v, want ErrNotRunnable", err)
			}
			if len(a.order) != 0 {
				t.Errorf("hooks ran on a failed window: %v", a.order)
			}
			w.Close()
			w.Close()
			if w.State() != Destroyed {
				t.Errorf("State() = %v, want destroyed", w.State())
			}
			if tt.backend.Closed != 0 {
				t.Errorf("backend closed %d times without being opened", tt.backend.Closed)
			}
		})
	}
}

func TestNewWithoutBackend(t *testing.T) {
	w, err := New(10, 10, nil)
	if err == nil {
		t.Fatal("expected an error without a backend")
	}
	if w.Run() == nil {
		t.Error("Run succeeded without a backend")
	}
	if w.MouseX() != 0 || w.KeyIsDown(graphics.KeyEscape) {
		t.Error("queries on a failed window should be zero")
	}
	// Drawing images on a failed window is a no-op.
	w.Sprite("dot", 10, 10, 1)
	w.Text("hi", 10, 10, 12)
}

func TestMeshFailureIsFatal(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.MeshErr = errors.New("out of memory")
	b := &graphicstest.Backend{Ctx: graphicstest.NewContext(10, 10), Dev: dev}
	w, err := New(10, 10, &app{}, WithBackend(b))
	if err == nil {
		t.Fatal("expected an error")
	}
	if b.Ctx.Shutdowns != 1 || b.Closed != 1 {
		t.Errorf("shutdowns = %d, backend closes = %d, want 1 and 1", b.Ctx.Shutdowns, b.Closed)
	}
	if w.Run() == nil {
		t.Error("Run succeeded after a mesh failure")
	}
}

func TestShaderFailureIsNotFatal(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.ProgramErr = errors.New("0:1: syntax error")
	b := &graphicstest.Backend{Ctx: graphicstest.NewContext(10, 10), Dev: dev}
	w, err := New(10, 10, &app{stopAt: 1}, WithBackend(b))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunTiming(t *testing.T) {
	a := &app{stopAt: 4}
	w, b := newTestWindow(t, a)
	b.Ctx.Now = 10

	if err := w.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.order[0] != "setup" || a.frames != 4 {
		t.Fatalf("order = %v", a.order)
	}
	if a.setupDT >= 0 {
		t.Errorf("DT() during Setup = %v, want negative", a.setupDT)
	}
	if a.dts[0] >= 0 {
		t.Errorf("DT() in the first frame = %v, want negative", a.dts[0])
	}
	for i, dt := range a.dts[1:] {
		if math.Abs(float64(dt)-1.0/60) > 1e-5 {
			t.Errorf("frame %d DT() = %v, want 1/60", i+1, dt)
		}
	}
	if a.elapsed[0] != 0 {
		t.Errorf("first ElapsedTime() = %v, want 0", a.elapsed[0])
	}
	for i := 1; i < len(a.elapsed); i++ {
		if a.elapsed[i] < a.elapsed[i-1] {
			t.Errorf("ElapsedTime decreased: %v", a.elapsed)
		}
	}
	if b.Ctx.Swaps != 4 || b.Ctx.Polls != 4 {
		t.Errorf("swaps = %d, polls = %d, want 4 and 4", b.Ctx.Swaps, b.Ctx.Polls)
	}
	if w.FrameCount() != 4 {
		t.Errorf("FrameCount() = %d", w.FrameCount())
	}
	if w.State() != Closing {
		t.Errorf("State() = %v, want closing", w.State())
	}
	if err := w.Run(); !errors.Is(err, ErrNotRunnable) {
		t.Errorf("second Run() = %v, want ErrNotRunnable", err)
	}
}

func TestClockNeverRunsBackwards(t *testing.T) {
	c := newClock(0)
	c.begin(5)
	for _, now := range []float64{5, 5.5, 5.2, 6} {
		prev := c.elapsed
		c.tick(now)
		if c.elapsed < prev {
			t.Fatalf("elapsed went from %v to %v", prev, c.elapsed)
		}
		if c.ticks > 1 && c.dt < 0 {
			t.Fatalf("dt = %v after the first frame", c.dt)
		}
	}
	if c.elapsed != 1 {
		t.Errorf("elapsed = %v, want 1", c.elapsed)
	}
}

func TestClockFixedStep(t *testing.T) {
	c := newClock(0.5)
	c.begin(100)
	c.tick(100)
	if c.dt != -1 || c.elapsed != 0 {
		t.Fatalf("first tick: dt=%v elapsed=%v", c.dt, c.elapsed)
	}
	c.tick(100.01)
	c.tick(100.02)
	if c.dt != 0.5 || c.elapsed != 1 {
		t.Errorf("dt=%v elapsed=%v, want 0.5 and 1", c.dt, c.elapsed)
	}
}

func TestEachFrameClearsBeforeDraw(t *testing.T) {
	var clearsSeen []int
	a := &app{stopAt: 2}
	w, b := newTestWindow(t, a)
	a.draw = func(w *Window) {
		clearsSeen = append(clearsSeen, b.Dev.Clears)
		w.Background(0.2, 0.2, 0.2)
		w.Color(1, 0, 0)
		w.Square(250, 250, 500, 500)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	// One clear at construction, then per frame a loop clear and Background.
	if len(clearsSeen) != 2 || clearsSeen[0] != 2 || clearsSeen[1] != 4 {
		t.Errorf("clears seen by Draw = %v, want [2 4]", clearsSeen)
	}
	if len(b.Dev.Draws) != 2 || b.Dev.Draws[1].Color != [4]float32{1, 0, 0, 1} {
		t.Errorf("draws = %+v", b.Dev.Draws)
	}
}

func TestEscapeClosesAfterCurrentFrame(t *testing.T) {
	a := &app{}
	w, b := newTestWindow(t, a)
	b.Ctx.OnPoll = func(poll int, sink graphics.EventSink) {
		if poll == 3 {
			sink.OnKey(graphics.KeyEscape, 9, graphics.Press, 0)
		}
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if a.frames != 3 {
		t.Errorf("frames = %d, want 3", a.frames)
	}
	if b.Ctx.Swaps != 3 {
		t.Errorf("swaps = %d, want 3 (the frame in flight completes)", b.Ctx.Swaps)
	}
	if len(a.keyDowns) != 1 || a.keyDowns[0] != graphics.KeyEscape {
		t.Errorf("KeyDown calls = %v, want Escape delivered", a.keyDowns)
	}
	if w.State() != Closing {
		t.Errorf("State() = %v, want closing", w.State())
	}
}

func TestHostCloseEndsLoop(t *testing.T) {
	a := &app{}
	w, b := newTestWindow(t, a)
	b.Ctx.OnPoll = func(poll int, sink graphics.EventSink) {
		if poll == 2 {
			b.Ctx.SetShouldClose(true)
		}
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if a.frames != 2 || w.State() != Closing {
		t.Errorf("frames = %d, state = %v", a.frames, w.State())
	}
}

func TestNoLoopInSetup(t *testing.T) {
	w, b := newTestWindow(t, setupOnly(func(w *Window) { w.NoLoop() }))
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if w.FrameCount() != 0 || b.Ctx.Swaps != 0 {
		t.Errorf("frames = %d, swaps = %d, want none", w.FrameCount(), b.Ctx.Swaps)
	}
}

type setupOnly func(w *Window)

func (f setupOnly) Setup(w *Window) { f(w) }

func TestInputDispatch(t *testing.T) {
	a := &app{stopAt: 1}
	w, b := newTestWindow(t, a)
	b.Ctx.OnPoll = func(poll int, sink graphics.EventSink) {
		b.Ctx.CursorX, b.Ctx.CursorY = 100, 0
		sink.OnCursorPos(100, 0)
		b.Ctx.CursorX, b.Ctx.CursorY = 110, 20
		sink.OnCursorPos(110, 20)
		sink.OnMouseButton(graphics.MouseButtonLeft, graphics.Press, 0)
		b.Ctx.CursorX, b.Ctx.CursorY = 115, 30
		sink.OnMouseButton(graphics.MouseButtonLeft, graphics.Release, 0)
		sink.OnScroll(0, -2)
		sink.OnKey('A', 30, graphics.Press, 0)
		sink.OnKey('A', 30, graphics.Repeat, 0)
		sink.OnKey('A', 30, graphics.Release, 0)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}

	want := [][4]int{
		{100, 500, 100, 0},  // first motion, baseline at the origin
		{110, 480, 10, -20}, // host y grows downward, window y upward
		{110, 480, 0, 0},    // after press: baseline latched at the cursor
		{115, 470, 5, -10},  // after release
	}
	if len(a.motions) != len(want) {
		t.Fatalf("motions = %v, want %v", a.motions, want)
	}
	for i := range want {
		if a.motions[i] != want[i] {
			t.Errorf("motion %d = %v, want %v", i, a.motions[i], want[i])
		}
	}
	if len(a.downs) != 1 || len(a.ups) != 1 {
		t.Errorf("downs = %v, ups = %v", a.downs, a.ups)
	}
	if len(a.scrolls) != 1 || a.scrolls[0] != [2]float32{0, -2} {
		t.Errorf("scrolls = %v", a.scrolls)
	}
	if len(a.keyDowns) != 1 || len(a.keyUps) != 1 {
		t.Errorf("key downs = %v, ups = %v (repeat ignored)", a.keyDowns, a.keyUps)
	}

	wantOrder := []string{"setup", "draw", "motion", "motion", "down", "motion", "up", "motion"}
	if len(a.order) != len(wantOrder) {
		t.Fatalf("order = %v, want %v", a.order, wantOrder)
	}
	for i := range wantOrder {
		if a.order[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", a.order, wantOrder)
		}
	}
}

func TestPolledInput(t *testing.T) {
	w, b := newTestWindow(t, &app{})
	b.Ctx.CursorX, b.Ctx.CursorY = 40, 0
	b.Ctx.Keys['P'] = true
	b.Ctx.Buttons[graphics.MouseButtonRight] = true

	if w.MouseX() != 40 || w.MouseY() != 500 {
		t.Errorf("mouse = (%v, %v), want (40, 500)", w.MouseX(), w.MouseY())
	}
	if !w.KeyIsDown('P') || w.KeyIsDown('Q') {
		t.Error("KeyIsDown does not reflect the host")
	}
	if !w.MouseIsDown(graphics.MouseButtonRight) || w.MouseIsDown(graphics.MouseButtonLeft) {
		t.Error("MouseIsDown does not reflect the host")
	}
}

func TestHooksAreOptional(t *testing.T) {
	w, b := newTestWindow(t, struct{}{})
	b.Ctx.OnPoll = func(poll int, sink graphics.EventSink) {
		sink.OnCursorPos(1, 1)
		sink.OnMouseButton(graphics.MouseButtonLeft, graphics.Press, 0)
		sink.OnScroll(1, 1)
		sink.OnKey(graphics.KeyEscape, 0, graphics.Press, 0)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if w.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", w.FrameCount())
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	a := &app{stopAt: 1}
	w, b := newTestWindow(t, a)
	a.draw = func(w *Window) {
		if err := w.LoadSpriteImage("dot", image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
			t.Errorf("LoadSpriteImage: %v", err)
		}
		w.Sprite("dot", 10, 10, 1)
		w.Text("hi", 10, 10, 12)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if n := b.Dev.LiveObjects(); n != 0 {
		t.Errorf("%d GPU objects leaked", n)
	}
	if b.Ctx.Shutdowns != 1 || b.Closed != 1 {
		t.Errorf("shutdowns = %d, backend closes = %d, want 1 and 1", b.Ctx.Shutdowns, b.Closed)
	}
	if b.Ctx.Sink() != nil {
		t.Error("event sink still registered after Close")
	}
	if w.State() != Destroyed {
		t.Errorf("State() = %v", w.State())
	}
	w.Sprite("dot", 10, 10, 1)
	w.Text("hi", 10, 10, 12)
}

func TestSpriteAndText(t *testing.T) {
	a := &app{stopAt: 1}
	w, b := newTestWindow(t, a)
	a.draw = func(w *Window) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		img.Set(0, 0, color.White)
		if err := w.LoadSpriteImage("bar", img); err != nil {
			t.Fatal(err)
		}
		w.Color(1, 1, 0)
		w.Sprite("bar", 100, 200, 0.5)
		w.Sprite("missing", 0, 0, 1)
		w.Text("tinygl", 30, 40, 16)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if len(b.Dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2 (unknown sprite skipped)", len(b.Dev.Draws))
	}
	sp := b.Dev.Draws[0]
	if sp.Pos != [3]float32{100, 200, 0} || sp.Size != [3]float32{20, 10, 1} {
		t.Errorf("sprite pos = %v size = %v", sp.Pos, sp.Size)
	}
	if sp.Color != [4]float32{1, 1, 0, 1} {
		t.Errorf("sprite tint = %v", sp.Color)
	}
	txt := b.Dev.Draws[1]
	left := txt.Pos[0] - txt.Size[0]/2
	bottom := txt.Pos[1] - txt.Size[1]/2
	if left != 30 || bottom >= 40 || txt.Pos[1]+txt.Size[1]/2 <= 40 {
		t.Errorf("text quad pos = %v size = %v, want baseline-left at (30, 40)", txt.Pos, txt.Size)
	}
	if w.LoadSprite("file", filepath.Join(t.TempDir(), "none.png")) == nil {
		t.Error("expected an error loading a missing sprite file")
	}
}

func TestSaveFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	a := &app{stopAt: 2}
	w, _ := newTestWindow(t, a)
	a.draw = func(w *Window) {
		if a.frames == 2 {
			w.SaveFrame(path)
		}
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("frame not saved: %v", err)
	}
}

func TestNoAudioSource(t *testing.T) {
	w, _ := newTestWindow(t, &app{})
	if w.AudioLevel() != 0 || w.Spectrum() != nil {
		t.Error("expected silence without an audio source")
	}
}

func TestWithOptions(t *testing.T) {
	opts := options.Default()
	opts.Title = "from config"
	opts.Width = 1
	opts.CircleSegments = 8
	w, b := newTestWindow(t, &app{}, WithOptions(opts))
	if b.Config.Title != "from config" || b.Config.Width != 500 {
		t.Errorf("config = %+v, want title from options and size from New", b.Config)
	}
	if w.pipeline.Segments() != 8 {
		t.Errorf("segments = %d, want 8", w.pipeline.Segments())
	}
	if opts.Width != 1 {
		t.Error("WithOptions modified the caller's options")
	}
	if _, err := New(10, 10, nil, WithOptions(opts), WithSegments(2), WithBackend(&graphicstest.Backend{})); err == nil {
		t.Error("expected invalid options to fail construction")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Uninitialized: "uninitialized",
		Running:       "running",
		Closing:       "closing",
		Destroyed:     "destroyed",
		State(9):      "State(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
