// Package sketch is an immediate-mode 2D drawing window. Applications
// implement the hook interfaces they need and call Run; draw calls take
// pixel coordinates with the origin at the bottom-left corner.
package sketch

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/richinsley/tinygl/audio"
	"github.com/richinsley/tinygl/encoder"
	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/options"
	"github.com/richinsley/tinygl/renderer"
	"github.com/richinsley/tinygl/shader"
	"github.com/richinsley/tinygl/sprite"
	"github.com/richinsley/tinygl/text"
)

var (
	// ErrNotRunnable is returned by Run on a window that failed to
	// initialize, was already run, or was closed.
	ErrNotRunnable = errors.New("window is not runnable")
	// ErrInvalidSize is returned by New for non-positive dimensions.
	ErrInvalidSize = errors.New("window size must be positive")
)

// State is the lifecycle stage of a Window.
type State int

const (
	Uninitialized State = iota
	Running
	Closing
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Closing:
		return "closing"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Window owns the graphics context, the draw pipeline and the frame loop.
// Only one window may be live per process.
type Window struct {
	opts    *options.SketchOptions
	backend graphics.Backend
	ctx     graphics.Context
	dev     graphics.Device

	pipeline *renderer.Pipeline
	sprites  *sprite.Store
	labels   *text.Cache
	analyzer *audio.Analyzer
	recorder *encoder.Recorder

	hooks    hooks
	width    int
	height   int
	fbWidth  int
	fbHeight int

	state    State
	runnable bool
	clock    clock
	frames   int64

	lastMouseX int
	lastMouseY int

	snapshots []string
	warned    map[string]bool
}

// Option configures New. Later options override earlier ones.
type Option func(*settings)

type settings struct {
	opts    *options.SketchOptions
	backend graphics.Backend
}

// WithOptions replaces the configuration with a copy of opts. The size
// passed to New still takes precedence.
func WithOptions(opts *options.SketchOptions) Option {
	return func(s *settings) {
		o := *opts
		s.opts = &o
	}
}

func WithTitle(title string) Option {
	return func(s *settings) { s.opts.Title = title }
}

// WithSegments sets how many triangles approximate a circle.
func WithSegments(n int) Option {
	return func(s *settings) { s.opts.CircleSegments = n }
}

// WithBackend selects the window system and GPU implementation.
func WithBackend(b graphics.Backend) Option {
	return func(s *settings) { s.backend = b }
}

// New creates a width x height window drawing for app, which may implement
// any of the hook interfaces. On failure the returned Window is non-nil
// but not runnable, and the error says why.
func New(width, height int, app any, opts ...Option) (*Window, error) {
	s := settings{opts: options.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	s.opts.Width, s.opts.Height = width, height

	w := &Window{
		opts:    s.opts,
		backend: s.backend,
		hooks:   resolveHooks(app),
		width:   width,
		height:  height,
		clock:   newClock(0),
		warned:  make(map[string]bool),
	}
	if err := w.init(); err != nil {
		log.Printf("Failed to create window: %v", err)
		w.release()
		return w, err
	}
	w.runnable = true
	return w, nil
}

func (w *Window) init() error {
	if w.width <= 0 || w.height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w.width, w.height)
	}
	if err := w.opts.Validate(); err != nil {
		return err
	}
	if w.backend == nil {
		return errors.New("no graphics backend")
	}

	ctx, dev, err := w.backend.Open(w.opts.GraphicsConfig())
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	w.ctx, w.dev = ctx, dev
	ctx.MakeCurrent()
	dev.InitState()
	w.fbWidth, w.fbHeight = ctx.GetFramebufferSize()
	dev.Viewport(0, 0, w.fbWidth, w.fbHeight)

	translate := w.opts.TranslateShaders
	w.pipeline, err = renderer.NewPipeline(dev, w.width, w.height, w.opts.CircleSegments,
		shader.Shapes(translate), shader.Sprites(translate))
	if err != nil {
		return err
	}
	w.pipeline.Background(0, 0, 0)
	w.sprites = sprite.NewStore(dev, w.opts.SpriteDir, w.opts.MaxSpriteSize)
	w.labels = text.NewCache(dev, text.DefaultCacheSize)

	if w.opts.Recording() {
		w.recorder, err = encoder.NewRecorder(w.opts.Record, w.fbWidth, w.fbHeight)
		if err != nil {
			return fmt.Errorf("cannot record: %w", err)
		}
		if w.opts.Record.Frames > 0 {
			w.clock = newClock(1 / float64(w.opts.Record.FPS))
		}
	}
	w.openAudio()

	ctx.SetEventSink(events{w})
	return nil
}

// openAudio starts the configured audio source. Audio problems never stop
// the window from opening.
func (w *Window) openAudio() {
	src := w.opts.Audio.Source
	if src == "" || src == options.AudioNone {
		return
	}
	dev, err := audio.New(w.opts.Audio, w.opts.Record.FFmpegPath)
	if err != nil {
		log.Printf("Audio disabled: %v", err)
		return
	}
	w.analyzer, err = audio.NewAnalyzer(dev)
	if err != nil {
		log.Printf("Audio disabled: %v", err)
		w.analyzer = nil
	}
}

// Run calls Setup once and then draws frames until the window is asked to
// close. It must be called from the main thread.
func (w *Window) Run() error {
	if !w.runnable || w.state != Uninitialized {
		return ErrNotRunnable
	}
	w.state = Running
	if w.recorder != nil {
		if err := w.recorder.Start(); err != nil {
			w.state = Closing
			return err
		}
	}

	if w.hooks.setup != nil {
		w.hooks.setup.Setup(w)
	}
	w.clock.begin(w.ctx.Time())

	for w.state == Running && !w.ctx.ShouldClose() {
		w.clock.tick(w.ctx.Time())
		w.pipeline.Clear()
		if w.analyzer != nil {
			w.analyzer.Update()
		}
		if w.hooks.draw != nil {
			w.hooks.draw.Draw(w)
		}
		w.frames++
		w.endFrame()
		w.ctx.PollEvents()
		w.ctx.SwapBuffers()
	}
	if w.state == Running {
		w.state = Closing
	}
	return nil
}

// endFrame reads the back buffer for screenshots and recording.
func (w *Window) endFrame() {
	if w.recorder == nil && len(w.snapshots) == 0 {
		return
	}
	pixels := w.dev.ReadPixels(w.fbWidth, w.fbHeight)
	for _, path := range w.snapshots {
		if err := encoder.SavePNG(path, pixels, w.fbWidth, w.fbHeight); err != nil {
			log.Printf("SaveFrame: %v", err)
			continue
		}
		log.Printf("Saved frame %d to %s", w.frames, path)
	}
	w.snapshots = w.snapshots[:0]

	if w.recorder != nil {
		w.recorder.SendVideo(&encoder.Frame{Pixels: pixels, PTS: w.frames - 1})
		if limit := w.opts.Record.Frames; limit > 0 && w.recorder.Frames() >= int64(limit) {
			w.NoLoop()
		}
	}
}

// requestClose ends the loop after the current frame.
func (w *Window) requestClose() {
	if w.ctx != nil {
		w.ctx.SetShouldClose(true)
	}
	if w.state == Running {
		w.state = Closing
	}
}

// NoLoop stops the frame loop once the current frame is finished.
func (w *Window) NoLoop() {
	w.requestClose()
}

// Close releases every resource. It is safe to call on a window that
// never ran or failed to initialize, and more than once. The returned
// error reports a recording that did not finish cleanly.
func (w *Window) Close() error {
	if w.state == Destroyed {
		return nil
	}
	err := w.release()
	w.state = Destroyed
	w.runnable = false
	return err
}

func (w *Window) release() error {
	var err error
	if w.ctx != nil {
		w.ctx.SetEventSink(nil)
	}
	if w.recorder != nil {
		err = w.recorder.Close()
		w.recorder = nil
	}
	if w.analyzer != nil {
		if stopErr := w.analyzer.Close(); stopErr != nil {
			log.Printf("Error stopping audio: %v", stopErr)
		}
		w.analyzer = nil
	}
	if w.labels != nil {
		w.labels.Destroy()
		w.labels = nil
	}
	if w.sprites != nil {
		w.sprites.Destroy()
		w.sprites = nil
	}
	if w.pipeline != nil {
		w.pipeline.Destroy()
		w.pipeline = nil
	}
	if w.ctx != nil {
		w.ctx.Shutdown()
		w.ctx = nil
		w.dev = nil
		w.backend.Close()
	}
	return err
}

// State reports where the window is in its lifecycle.
func (w *Window) State() State {
	return w.state
}

// Width is the window width in pixels.
func (w *Window) Width() float32 {
	return float32(w.width)
}

// Height is the window height in pixels.
func (w *Window) Height() float32 {
	return float32(w.height)
}

// ElapsedTime is the number of seconds since the frame loop started.
func (w *Window) ElapsedTime() float32 {
	return float32(w.clock.elapsed)
}

// DT is the time in seconds between the previous frame and this one. It
// is negative until the first frame has completed.
func (w *Window) DT() float32 {
	return float32(w.clock.dt)
}

// FrameCount is the number of frames drawn so far.
func (w *Window) FrameCount() int64 {
	return w.frames
}

// MouseX is the cursor's horizontal position in pixels.
func (w *Window) MouseX() float32 {
	if w.ctx == nil {
		return 0
	}
	x, _ := w.ctx.CursorPos()
	return float32(x)
}

// MouseY is the cursor's vertical position in pixels, measured from the
// bottom of the window.
func (w *Window) MouseY() float32 {
	if w.ctx == nil {
		return 0
	}
	_, y := w.ctx.CursorPos()
	return float32(w.height) - float32(y)
}

func (w *Window) KeyIsDown(key graphics.Key) bool {
	return w.ctx != nil && w.ctx.KeyPressed(key)
}

func (w *Window) MouseIsDown(button graphics.MouseButton) bool {
	return w.ctx != nil && w.ctx.MouseButtonPressed(button)
}

// Background clears the window to an opaque color.
func (w *Window) Background(r, g, b float32) {
	w.pipeline.Background(r, g, b)
}

// Color sets an opaque color for the shapes drawn after it.
func (w *Window) Color(r, g, b float32) {
	w.pipeline.Color(r, g, b, 1)
}

// ColorA sets a color with alpha for the shapes drawn after it.
func (w *Window) ColorA(r, g, b, a float32) {
	w.pipeline.Color(r, g, b, a)
}

// Square draws a width x height rectangle centered at (x, y).
func (w *Window) Square(x, y, width, height float32) {
	w.pipeline.Square(x, y, width, height)
}

// Triangle draws an upward-pointing triangle centered at (x, y).
func (w *Window) Triangle(x, y, width, height float32) {
	w.pipeline.Triangle(x, y, width, height)
}

// Circle draws a circle of the given diameter centered at (x, y).
func (w *Window) Circle(x, y, diameter float32) {
	w.pipeline.Circle(x, y, diameter)
}

// Ellipsoid draws an ellipse with the given axis extents centered at (x, y).
func (w *Window) Ellipsoid(x, y, width, height float32) {
	w.pipeline.Ellipsoid(x, y, width, height)
}

// LoadSprite decodes the image at path and registers it as name.
func (w *Window) LoadSprite(name, path string) error {
	if w.sprites == nil {
		return ErrNotRunnable
	}
	return w.sprites.LoadFile(name, path)
}

// LoadSpriteImage registers an in-memory image as name.
func (w *Window) LoadSpriteImage(name string, img image.Image) error {
	if w.sprites == nil {
		return ErrNotRunnable
	}
	return w.sprites.LoadImage(name, img)
}

// Sprite draws the named image centered at (x, y), scaled from its native
// size and tinted by the current color.
func (w *Window) Sprite(name string, x, y, scale float32) {
	if w.sprites == nil {
		return
	}
	sp, ok := w.sprites.Lookup(name)
	if !ok {
		return
	}
	w.pipeline.Textured(sp.Texture, x, y, float32(sp.Width)*scale, float32(sp.Height)*scale)
}

// Text draws s in the current color with the left end of its baseline at
// (x, y). size is the font size in pixels.
func (w *Window) Text(s string, x, y, size float32) {
	if s == "" || w.labels == nil {
		return
	}
	label, err := w.labels.Get(s, float64(size))
	if err != nil {
		if !w.warned[err.Error()] {
			w.warned[err.Error()] = true
			log.Printf("Text: %v", err)
		}
		return
	}
	lw, lh := float32(label.Width), float32(label.Height)
	w.pipeline.Textured(label.Texture, x+lw/2, y-float32(label.Descent)+lh/2, lw, lh)
}

// SaveFrame writes the current frame to path as a PNG once it has been
// drawn.
func (w *Window) SaveFrame(path string) {
	w.snapshots = append(w.snapshots, path)
}

// AudioLevel is the RMS level of the audio input, or 0 without one.
func (w *Window) AudioLevel() float32 {
	if w.analyzer == nil {
		return 0
	}
	return w.analyzer.Level()
}

// Spectrum returns audio.SpectrumBins magnitudes in [0, 1], lowest
// frequency first, or nil without an audio input.
func (w *Window) Spectrum() []float32 {
	if w.analyzer == nil {
		return nil
	}
	return w.analyzer.Spectrum()
}
