package options

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	opts, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Width != 500 || opts.Height != 500 || opts.CircleSegments != 16 {
		t.Fatalf("expected 500x500 with 16 segments, got %dx%d with %d", opts.Width, opts.Height, opts.CircleSegments)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	body := strings.Join([]string{
		"title: particles",
		"width: 800",
		"height: 600",
		"circle_segments: 32",
		"record:",
		"  file: out.mp4",
		"  frames: 120",
		"audio:",
		"  source: file",
		"  file: song.mp3",
		"",
	}, "\n")
	opts, err := LoadFromPath(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Title != "particles" || opts.Width != 800 || opts.Height != 600 {
		t.Errorf("window = %q %dx%d", opts.Title, opts.Width, opts.Height)
	}
	if opts.CircleSegments != 32 {
		t.Errorf("circle_segments = %d, want 32", opts.CircleSegments)
	}
	if !opts.Recording() || opts.Record.Frames != 120 || opts.Record.FPS != 60 {
		t.Errorf("record = %+v", opts.Record)
	}
	if opts.Audio.Source != AudioFile || opts.Audio.File != "song.mp3" || opts.Audio.SampleRate != 44100 {
		t.Errorf("audio = %+v", opts.Audio)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero width":       "width: 0\n",
		"few segments":     "circle_segments: 2\n",
		"bad codec":        "record:\n  file: a.mp4\n  codec: vp9\n",
		"file without src": "audio:\n  source: file\n",
		"unknown source":   "audio:\n  source: line-in\n",
		"not yaml":         "width: [\n",
		"headless unbound": "headless: true\nrecord:\n  file: a.mp4\n",
	}
	for name, body := range tests {
		if _, err := LoadFromPath(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRegisterFlags(t *testing.T) {
	opts := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts.RegisterFlags(fs)
	if err := fs.Parse([]string{"-width", "320", "-record", "clip.mp4", "-frames", "10", "-hidden"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.Width != 320 || opts.Height != 500 {
		t.Errorf("size = %dx%d, want 320x500", opts.Width, opts.Height)
	}
	if opts.Record.File != "clip.mp4" || opts.Record.Frames != 10 {
		t.Errorf("record = %+v", opts.Record)
	}
	cfg := opts.GraphicsConfig()
	if cfg.Visible || cfg.Width != 320 || cfg.Samples != 4 {
		t.Errorf("GraphicsConfig() = %+v", cfg)
	}
}

func TestParse_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "title: from-file\nwidth: 640\nheight: 480\n")
	fs := flag.NewFlagSet("sketch", flag.ContinueOnError)
	opts, err := Parse(fs, []string{"-config", path, "-height", "200"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.Title != "from-file" || opts.Width != 640 || opts.Height != 200 {
		t.Errorf("got %q %dx%d, want from-file 640x200", opts.Title, opts.Width, opts.Height)
	}
}

func TestParse_NoConfig(t *testing.T) {
	fs := flag.NewFlagSet("sketch", flag.ContinueOnError)
	opts, err := Parse(fs, []string{"-segments", "24"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.CircleSegments != 24 || opts.Width != 500 {
		t.Errorf("got %d segments at width %d", opts.CircleSegments, opts.Width)
	}
	fs = flag.NewFlagSet("sketch", flag.ContinueOnError)
	if _, err := Parse(fs, []string{"-segments", "1"}); err == nil {
		t.Error("expected a validation error")
	}
}
