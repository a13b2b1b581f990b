package canopy

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// --- Debug mode ---

func TestDebugModeDestroyedLabelCollectionPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	lc := NewLabelCollection(DefaultLabelCollectionOptions())
	lc.Destroy()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic adding a label to a destroyed collection")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "destroyed") {
			t.Errorf("panic = %q, want it to mention destroyed", msg)
		}
	}()
	lc.Add(DefaultLabelOptions())
}

func TestReleaseModeDestroyedCollectionNoPanic(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	c := NewPrimitiveCollection()
	c.Destroy()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("release mode panicked: %v", r)
		}
	}()
	c.Remove(readyGround(Rectangle{}))
}

func TestDebugLogWritesFrameStats(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	s.debugLog(frameStats{frame: 7, primitives: 3})
	if buf.Len() != 0 {
		t.Errorf("debugLog outside debug mode wrote %q", buf.String())
	}

	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	s.debugLog(frameStats{frame: 7, primitives: 3})
	out := buf.String()
	for _, want := range []string{`"frame":7`, `"primitives":3`, `"mode":"3d"`} {
		if !strings.Contains(out, want) {
			t.Errorf("debugLog output %q missing %s", out, want)
		}
	}
}

func TestCountPrimitivesNested(t *testing.T) {
	if got := countPrimitives(nil); got != 0 {
		t.Errorf("countPrimitives(nil) = %d, want 0", got)
	}
	root := NewPrimitiveCollection()
	inner := NewPrimitiveCollection()
	root.Add(readyGround(Rectangle{}))
	root.Add(inner)
	inner.Add(readyGround(Rectangle{}))
	inner.Add(readyGround(Rectangle{}))

	if got := countPrimitives(root); got != 4 {
		t.Errorf("countPrimitives = %d, want 4", got)
	}
}

// --- Screenshots ---

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"europe", "europe"},
		{"after-morph", "after-morph"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "frame"},
		{"   ", "frame"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAndDir(t *testing.T) {
	s := NewScene()
	if got := s.ScreenshotDir(); got != defaultScreenshotDir {
		t.Errorf("ScreenshotDir = %q, want %q", got, defaultScreenshotDir)
	}
	s.SetScreenshotDir("out")
	if got := s.ScreenshotDir(); got != "out" {
		t.Errorf("ScreenshotDir = %q, want out", got)
	}

	s.Screenshot("a")
	s.Screenshot("b")
	if len(s.screenshotQueue) != 2 || s.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", s.screenshotQueue)
	}
}

func TestScriptScreenshotAction(t *testing.T) {
	runner, err := LoadScript([]byte(`steps:
  - action: screenshot
    label: initial
`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	s := NewScene()
	s.SetScriptRunner(runner)
	s.Step()
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "initial" {
		t.Errorf("queue = %v, want [initial]", s.screenshotQueue)
	}
}

func TestFlushScreenshotsBadDirClearsQueue(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(zerolog.New(&buf))
	s.SetScreenshotDir(filepath.Join(blocker, "shots"))
	s.Screenshot("x")
	s.flushScreenshots(nil)

	if len(s.screenshotQueue) != 0 {
		t.Errorf("queue = %v, want empty", s.screenshotQueue)
	}
	if !strings.Contains(buf.String(), "screenshot directory") {
		t.Errorf("log = %q, want a directory error", buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "x.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r != 0xffff {
		t.Errorf("pixel red = %#x, want 0xffff", r)
	}
}
