package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/richinsley/tinygl/graphics"
)

// Audio sources.
const (
	AudioNone = "none"
	AudioMic  = "mic"
	AudioFile = "file"
)

// RecordOptions configures frame capture to a video file.
type RecordOptions struct {
	File       string `yaml:"file"`
	FPS        int    `yaml:"fps"`
	Frames     int    `yaml:"frames"` // 0 = until the window closes
	Codec      string `yaml:"codec"`  // h264 or hevc
	Bitrate    string `yaml:"bitrate"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

// AudioOptions selects the source feeding the audio analyzer.
type AudioOptions struct {
	Source     string `yaml:"source"` // none, mic or file
	File       string `yaml:"file"`
	SampleRate int    `yaml:"sample_rate"`
}

// SketchOptions holds everything a sketch can be configured with.
type SketchOptions struct {
	Title            string        `yaml:"title"`
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	Samples          int           `yaml:"samples"`
	VSync            bool          `yaml:"vsync"`
	Hidden           bool          `yaml:"hidden"`
	Headless         bool          `yaml:"headless"` // offscreen EGL rendering, no input
	CircleSegments   int           `yaml:"circle_segments"`
	TranslateShaders bool          `yaml:"translate_shaders"`
	SpriteDir        string        `yaml:"sprite_dir"`
	MaxSpriteSize    int           `yaml:"max_sprite_size"` // 0 = unlimited
	Record           RecordOptions `yaml:"record"`
	Audio            AudioOptions  `yaml:"audio"`
}

// Default returns the options a sketch runs with when nothing is configured.
func Default() *SketchOptions {
	return &SketchOptions{
		Title:          "tinygl",
		Width:          500,
		Height:         500,
		Samples:        4,
		VSync:          true,
		CircleSegments: 16,
		Record: RecordOptions{
			FPS:     60,
			Codec:   "h264",
			Bitrate: "8M",
		},
		Audio: AudioOptions{
			Source:     AudioNone,
			SampleRate: 44100,
		},
	}
}

// LoadFromPath reads a YAML file on top of the defaults. An empty file
// yields the defaults.
func LoadFromPath(path string) (*SketchOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return opts, nil
}

// Validate reports every problem found, joined.
func (o *SketchOptions) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", o.Width, o.Height))
	}
	if o.Samples < 0 {
		errs = append(errs, fmt.Errorf("samples must be >= 0, got %d", o.Samples))
	}
	if o.CircleSegments < 3 {
		errs = append(errs, fmt.Errorf("circle_segments must be >= 3, got %d", o.CircleSegments))
	}
	if o.MaxSpriteSize < 0 {
		errs = append(errs, fmt.Errorf("max_sprite_size must be >= 0, got %d", o.MaxSpriteSize))
	}
	if o.Headless && (o.Record.File == "" || o.Record.Frames <= 0) {
		errs = append(errs, errors.New("headless rendering requires record.file and a positive record.frames"))
	}
	if o.Record.File != "" {
		if o.Record.FPS <= 0 {
			errs = append(errs, fmt.Errorf("record.fps must be positive, got %d", o.Record.FPS))
		}
		if o.Record.Frames < 0 {
			errs = append(errs, fmt.Errorf("record.frames must be >= 0, got %d", o.Record.Frames))
		}
		switch o.Record.Codec {
		case "", "h264", "hevc":
		default:
			errs = append(errs, fmt.Errorf("record.codec must be h264 or hevc, got %q", o.Record.Codec))
		}
	}
	switch strings.ToLower(o.Audio.Source) {
	case "", AudioNone, AudioMic:
	case AudioFile:
		if o.Audio.File == "" {
			errs = append(errs, errors.New("audio.file is required when audio.source is file"))
		}
	default:
		errs = append(errs, fmt.Errorf("audio.source must be none, mic or file, got %q", o.Audio.Source))
	}
	if o.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", o.Audio.SampleRate))
	}
	return errors.Join(errs...)
}

// Recording reports whether frames should be captured.
func (o *SketchOptions) Recording() bool {
	return o.Record.File != ""
}

// GraphicsConfig is the part of the options a graphics.Backend consumes.
func (o *SketchOptions) GraphicsConfig() graphics.Config {
	return graphics.Config{
		Title:     o.Title,
		Width:     o.Width,
		Height:    o.Height,
		Samples:   o.Samples,
		VSync:     o.VSync,
		Visible:   !o.Hidden,
		Translate: o.TranslateShaders,
	}
}

// RegisterFlags binds command-line flags to the fields of o. Values already
// in o become the flag defaults.
func (o *SketchOptions) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Title, "title", o.Title, "Window title")
	fs.IntVar(&o.Width, "width", o.Width, "Window width in pixels")
	fs.IntVar(&o.Height, "height", o.Height, "Window height in pixels")
	fs.IntVar(&o.Samples, "samples", o.Samples, "MSAA samples (0 disables)")
	fs.BoolVar(&o.VSync, "vsync", o.VSync, "Synchronize buffer swaps with the display")
	fs.BoolVar(&o.Hidden, "hidden", o.Hidden, "Create the window hidden (useful when recording)")
	fs.BoolVar(&o.Headless, "headless", o.Headless, "Render offscreen without a display (requires -record and -frames)")
	fs.IntVar(&o.CircleSegments, "segments", o.CircleSegments, "Triangles used to approximate circles")
	fs.BoolVar(&o.TranslateShaders, "translate", o.TranslateShaders, "Translate the built-in GLSL ES shaders instead of using the desktop variants")
	fs.StringVar(&o.SpriteDir, "sprites", o.SpriteDir, "Directory sprite paths are resolved against")
	fs.IntVar(&o.MaxSpriteSize, "max-sprite-size", o.MaxSpriteSize, "Downscale sprites larger than this many pixels on a side")
	fs.StringVar(&o.Record.File, "record", o.Record.File, "Record frames to this video file")
	fs.IntVar(&o.Record.FPS, "fps", o.Record.FPS, "Frames per second for recording")
	fs.IntVar(&o.Record.Frames, "frames", o.Record.Frames, "Stop after recording this many frames (0 = until closed)")
	fs.StringVar(&o.Record.Codec, "codec", o.Record.Codec, "Video codec for recording (h264, hevc)")
	fs.StringVar(&o.Record.FFmpegPath, "ffmpeg", o.Record.FFmpegPath, "Path to ffmpeg executable")
	fs.StringVar(&o.Audio.Source, "audio", o.Audio.Source, "Audio analyzer source (none, mic, file)")
	fs.StringVar(&o.Audio.File, "audio-file", o.Audio.File, "Audio file to analyze when -audio=file")
}

// Parse builds options from command-line args: defaults, then the YAML
// file named by -config, then any flags given explicitly.
func Parse(fs *flag.FlagSet, args []string) (*SketchOptions, error) {
	configPath := fs.String("config", "", "YAML file with sketch options")
	opts := Default()
	opts.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *configPath == "" {
		return opts, opts.Validate()
	}

	loaded, err := LoadFromPath(*configPath)
	if err != nil {
		return nil, err
	}
	replay := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	loaded.RegisterFlags(replay)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || setErr != nil {
			return
		}
		setErr = replay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	return loaded, loaded.Validate()
}
