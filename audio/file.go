package audio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/exec"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// chunkSamples is how many samples FileInput sends per chunk.
const chunkSamples = 1024

// FileInput decodes an audio file through ffmpeg in real time.
type FileInput struct {
	path       string
	sampleRate int
	stream     *ffmpeg.Stream
	cmd        *exec.Cmd
	stopChan   chan struct{}
	pipeReader *io.PipeReader
}

// NewFileInput prepares an ffmpeg process that decodes path to mono
// float32 samples at sampleRate, paced at playback speed.
func NewFileInput(path string, sampleRate int, ffmpegPath string) (*FileInput, error) {
	if path == "" {
		return nil, errors.New("no audio file given")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}
	stream := ffmpeg.Input(path, ffmpeg.KwArgs{"re": ""}).
		Output("pipe:", ffmpeg.KwArgs{
			"f":  "f32le",
			"ac": "1",
			"ar": strconv.Itoa(sampleRate),
			"vn": "",
		}).
		GlobalArgs("-loglevel", "error").
		ErrorToStdOut()
	if ffmpegPath != "" {
		stream.SetFfmpegPath(ffmpegPath)
	}
	return &FileInput{
		path:       path,
		sampleRate: sampleRate,
		stream:     stream,
	}, nil
}

// Args returns the ffmpeg command line used to decode the file.
func (d *FileInput) Args() []string {
	return d.stream.GetArgs()
}

func (d *FileInput) Start() (<-chan []float32, error) {
	pipeReader, pipeWriter := io.Pipe()
	d.cmd = d.stream.WithOutput(pipeWriter).Compile()
	if err := d.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	d.pipeReader = pipeReader
	d.stopChan = make(chan struct{})
	out := make(chan []float32, 16)

	go func() {
		err := d.cmd.Wait()
		if err != nil {
			log.Printf("FFmpeg audio decoder finished with error: %v", err)
		}
		pipeWriter.Close()
	}()
	go readSamples(pipeReader, out, d.stopChan)

	log.Printf("Decoding %s at %d Hz", d.path, d.sampleRate)
	return out, nil
}

// readSamples converts little-endian float32 PCM from r into chunks until
// r ends or stop is closed, then closes out.
func readSamples(r io.Reader, out chan<- []float32, stop <-chan struct{}) {
	defer close(out)
	br := bufio.NewReaderSize(r, chunkSamples*4)
	buf := make([]byte, chunkSamples*4)
	for {
		n, err := io.ReadFull(br, buf)
		n -= n % 4
		if n > 0 {
			chunk := make([]float32, n/4)
			for i := range chunk {
				chunk[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			}
			select {
			case out <- chunk:
			case <-stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.ErrClosedPipe) {
				log.Printf("Error reading decoded audio: %v", err)
			}
			return
		}
	}
}

func (d *FileInput) Stop() error {
	if d.stopChan == nil {
		return nil
	}
	close(d.stopChan)
	d.stopChan = nil
	d.pipeReader.Close()
	if d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	return nil
}

func (d *FileInput) SampleRate() int {
	return d.sampleRate
}
