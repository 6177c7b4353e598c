package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/richinsley/tinygl/options"
)

// Frame is one read-back framebuffer: tightly packed RGBA rows, bottom
// row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Recorder pipes raw frames into an ffmpeg process that encodes them to
// a video file.
type Recorder struct {
	opts   options.RecordOptions
	width  int
	height int
	stream *ffmpeg.Stream

	frames chan *Frame
	done   chan error
	once   sync.Once
	err    error

	sink io.WriteCloser
	wait func() error
	sent int64
}

var codecs = map[string]string{
	"":     "libx264",
	"h264": "libx264",
	"hevc": "libx265",
}

// NewRecorder prepares the ffmpeg command for a width x height canvas.
// Nothing runs until Start.
func NewRecorder(opts options.RecordOptions, width, height int) (*Recorder, error) {
	if opts.File == "" {
		return nil, errors.New("no output file")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	codec, ok := codecs[opts.Codec]
	if !ok {
		return nil, fmt.Errorf("unsupported codec %q", opts.Codec)
	}

	outputArgs := ffmpeg.KwArgs{
		"c:v":     codec,
		"pix_fmt": "yuv420p",
		"vf":      "vflip",
	}
	if opts.Bitrate != "" {
		outputArgs["b:v"] = opts.Bitrate
	}
	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fmt.Sprintf("%d", opts.FPS),
	}).Output(opts.File, outputArgs).OverWriteOutput().ErrorToStdOut()
	if opts.FFmpegPath != "" {
		stream.SetFfmpegPath(opts.FFmpegPath)
	}

	return &Recorder{
		opts:   opts,
		width:  width,
		height: height,
		stream: stream,
		frames: make(chan *Frame, 5),
		done:   make(chan error, 1),
	}, nil
}

// Args returns the ffmpeg command line the recorder runs.
func (r *Recorder) Args() []string {
	return r.stream.GetArgs()
}

// Start launches ffmpeg and the goroutine that feeds it.
func (r *Recorder) Start() error {
	pipeReader, pipeWriter := io.Pipe()
	cmd := r.stream.WithInput(pipeReader).Compile()
	if err := cmd.Start(); err != nil {
		pipeWriter.Close()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	log.Printf("Recording %dx%d@%d to %s", r.width, r.height, r.opts.FPS, r.opts.File)
	r.start(pipeWriter, watch(pipeReader, cmd.Wait))
	return nil
}

// watch runs wait in the background and closes the read side of the frame
// pipe as soon as it returns, so writes fail instead of blocking once the
// consumer is gone. The returned func yields wait's result.
func watch(pr *io.PipeReader, wait func() error) func() error {
	result := make(chan error, 1)
	go func() {
		err := wait()
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.Close()
		}
		result <- err
	}()
	return func() error { return <-result }
}

func (r *Recorder) start(sink io.WriteCloser, wait func() error) {
	r.sink = sink
	r.wait = wait
	go r.run()
}

func (r *Recorder) run() {
	var writeErr error
	frameSize := r.width * r.height * 4
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if len(frame.Pixels) != frameSize {
			log.Printf("Dropping frame %d: got %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
			continue
		}
		if _, err := r.sink.Write(frame.Pixels); err != nil {
			log.Printf("Error writing to ffmpeg pipe: %v", err)
			writeErr = err
		}
	}
	r.sink.Close()
	err := r.wait()
	if err == nil {
		err = writeErr
	}
	r.done <- err
}

// SendVideo queues a frame, blocking while ffmpeg catches up.
func (r *Recorder) SendVideo(frame *Frame) {
	r.frames <- frame
	r.sent++
}

// Frames is the number of frames sent so far.
func (r *Recorder) Frames() int64 {
	return r.sent
}

// Close flushes queued frames and waits for ffmpeg to finish the file.
// It is safe to call more than once.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.frames)
		if r.sink == nil {
			return
		}
		r.err = <-r.done
		if r.err != nil {
			r.err = fmt.Errorf("ffmpeg finished with error: %w", r.err)
			return
		}
		log.Printf("Recorded %d frames to %s", r.sent, r.opts.File)
	})
	return r.err
}
