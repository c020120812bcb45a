package camera

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	// Decoders for replayed frames.
	_ "image/jpeg"
	_ "image/png"
)

// DirSource replays the images of a directory in name order, cycling back to
// the first after the last. Useful for kiosks without a webcam and for demos.
type DirSource struct {
	Dir string
}

// Open lists the directory and returns a replay handle.
func (s DirSource) Open(_ context.Context) (Handle, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(s.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", ErrUnavailable, s.Dir)
	}
	slices.Sort(files)

	first, err := LoadImage(files[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	b := first.Bounds()
	return &dirHandle{files: files, width: b.Dx(), height: b.Dy()}, nil
}

type dirHandle struct {
	mu     sync.Mutex
	files  []string
	next   int
	width  int
	height int
	closed bool
}

func (h *dirHandle) Dimensions() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, 0
	}
	return h.width, h.height
}

func (h *dirHandle) Snapshot() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrUnavailable
	}
	path := h.files[h.next]
	h.next = (h.next + 1) % len(h.files)
	return LoadImage(path)
}

func (h *dirHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// LoadImage decodes a JPEG or PNG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
