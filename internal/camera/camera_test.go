package camera

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestEncoder_DownscalesAndEncodes(t *testing.T) {
	enc := DefaultEncoder()
	url, err := enc.Encode(solid(320, 240))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, DataURLPrefix) {
		t.Fatalf("expected data URL prefix, got %q", url[:min(len(url), 30)])
	}

	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("decoded size = %dx%d, want 160x120", b.Dx(), b.Dy())
	}
}

func TestEncoder_EmptyFrame(t *testing.T) {
	enc := DefaultEncoder()
	if _, err := enc.Encode(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("err = %v, want ErrEmptyFrame", err)
	}
	if _, err := enc.Encode(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("nil image err = %v, want ErrEmptyFrame", err)
	}
}

func TestEncoder_QualityClamped(t *testing.T) {
	tests := []struct {
		q    float64
		want int
	}{
		{0.5, 50},
		{0, 1},
		{1.7, 100},
		{0.924, 92},
	}
	for _, tt := range tests {
		if got := (Encoder{Quality: tt.q}).jpegQuality(); got != tt.want {
			t.Errorf("jpegQuality(%v) = %d, want %d", tt.q, got, tt.want)
		}
	}
}

func TestEncoder_TinyFrameKeepsOnePixel(t *testing.T) {
	url, err := Encoder{Scale: 0.1, Quality: 0.5}.Encode(solid(3, 3))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("size = %v, want 1x1", img.Bounds())
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, solid(w, h)); err != nil {
		t.Fatal(err)
	}
}

func TestDirSource_ReplaysInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "a.png"), 8, 6)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := DirSource{Dir: dir}.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	w, hh := h.Dimensions()
	if w != 8 || hh != 6 {
		t.Errorf("dimensions = %dx%d, want 8x6 (first file)", w, hh)
	}

	sizes := []int{8, 4, 8}
	for i, want := range sizes {
		img, err := h.Snapshot()
		if err != nil {
			t.Fatalf("snapshot %d: %v", i, err)
		}
		if got := img.Bounds().Dx(); got != want {
			t.Errorf("snapshot %d width = %d, want %d", i, got, want)
		}
	}
}

func TestDirSource_EmptyDirUnavailable(t *testing.T) {
	_, err := DirSource{Dir: t.TempDir()}.Open(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	_, err = DirSource{Dir: filepath.Join(t.TempDir(), "missing")}.Open(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing dir err = %v, want ErrUnavailable", err)
	}
}

func TestPushSource_ZeroUntilFirstFrame(t *testing.T) {
	src := NewPushSource()
	h, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if w, hh := h.Dimensions(); w != 0 || hh != 0 {
		t.Errorf("dimensions before push = %dx%d, want 0x0", w, hh)
	}
	if _, err := h.Snapshot(); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("snapshot before push err = %v, want ErrEmptyFrame", err)
	}

	src.Push(solid(10, 20))
	if w, hh := h.Dimensions(); w != 10 || hh != 20 {
		t.Errorf("dimensions after push = %dx%d, want 10x20", w, hh)
	}
	if src.Pushed() != 1 {
		t.Errorf("Pushed() = %d, want 1", src.Pushed())
	}

	h.Close()
	if w, _ := h.Dimensions(); w != 0 {
		t.Error("closed handle should report zero dimensions")
	}
}

func TestPushSource_StaleBeforeWindow(t *testing.T) {
	src := NewPushSource()
	m := NewManager(src, nil)
	if err := m.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer m.Release()

	src.Push(solid(8, 8))
	if _, err := m.Snapshot(); err != nil {
		t.Fatalf("snapshot before window: %v", err)
	}

	// The browser stopped pushing during the countdown.
	m.StartWindow()
	if _, err := m.Snapshot(); !errors.Is(err, ErrStaleFrame) {
		t.Errorf("snapshot of pre-window frame err = %v, want ErrStaleFrame", err)
	}
	if w, h := m.Dimensions(); w != 8 || h != 8 {
		t.Errorf("dimensions = %dx%d, want 8x8", w, h)
	}

	src.Push(solid(8, 8))
	if _, err := m.Snapshot(); err != nil {
		t.Errorf("snapshot of frame pushed inside the window: %v", err)
	}
	if _, err := m.Snapshot(); err != nil {
		t.Errorf("latest in-window frame can be sampled again: %v", err)
	}
}

func TestManager_StartWindowWithoutWindowedHandle(t *testing.T) {
	m := NewManager(PatternSource{Width: 4, Height: 4}, nil)
	m.StartWindow() // no handle held
	if err := m.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer m.Release()
	m.StartWindow()
	if _, err := m.Snapshot(); err != nil {
		t.Errorf("pattern snapshot after StartWindow: %v", err)
	}
}

func TestPushSource_PushEncoded(t *testing.T) {
	src := NewPushSource()
	url, err := DefaultEncoder().Encode(solid(40, 40))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, DataURLPrefix))
	if err != nil {
		t.Fatal(err)
	}

	if err := src.PushEncoded([]byte("garbage")); err == nil {
		t.Error("expected error for undecodable frame")
	}
	if src.Pushed() != 0 {
		t.Errorf("Pushed() = %d after bad frame, want 0", src.Pushed())
	}

	if err := src.PushEncoded(raw); err != nil {
		t.Fatalf("push jpeg: %v", err)
	}
	h, _ := src.Open(context.Background())
	if w, hh := h.Dimensions(); w != 20 || hh != 20 {
		t.Errorf("dimensions = %dx%d, want 20x20", w, hh)
	}
}

type countingSource struct {
	opened int
	closed int
	err    error
}

func (s *countingSource) Open(context.Context) (Handle, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.opened++
	return &countingHandle{src: s}, nil
}

type countingHandle struct{ src *countingSource }

func (h *countingHandle) Dimensions() (int, int)         { return 2, 2 }
func (h *countingHandle) Snapshot() (image.Image, error) { return solid(2, 2), nil }
func (h *countingHandle) Close() error                   { h.src.closed++; return nil }

func TestManager_ReacquireReleasesFirst(t *testing.T) {
	src := &countingSource{}
	m := NewManager(src, nil)
	ctx := context.Background()

	if err := m.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if src.opened != 2 || src.closed != 1 {
		t.Errorf("opened=%d closed=%d, want 2 and 1", src.opened, src.closed)
	}
	if !m.Active() {
		t.Error("expected active handle")
	}
	if m.Acquisitions() != 2 {
		t.Errorf("Acquisitions() = %d, want 2", m.Acquisitions())
	}

	m.Release()
	m.Release()
	if src.closed != 2 {
		t.Errorf("closed = %d after double release, want 2", src.closed)
	}
	if m.Active() {
		t.Error("expected no active handle after release")
	}
	if w, h := m.Dimensions(); w != 0 || h != 0 {
		t.Errorf("released dimensions = %dx%d, want 0x0", w, h)
	}
	if _, err := m.Snapshot(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("released snapshot err = %v, want ErrUnavailable", err)
	}
}

func TestManager_AcquireFailure(t *testing.T) {
	src := &countingSource{err: ErrUnavailable}
	m := NewManager(src, nil)
	err := m.Acquire(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if m.Active() {
		t.Error("failed acquire should not leave an active handle")
	}
}

func TestPatternSource(t *testing.T) {
	h, err := PatternSource{Width: 16, Height: 12}.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	img, err := h.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("size = %v, want 16x12", img.Bounds())
	}

	zero, _ := PatternSource{}.Open(context.Background())
	if _, err := zero.Snapshot(); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("zero-size snapshot err = %v, want ErrEmptyFrame", err)
	}

	_, err = PatternSource{Err: ErrUnavailable}.Open(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
