package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// PatternSource produces a synthetic frame. It stands in for a webcam in
// headless runs and tests.
type PatternSource struct {
	Width  int
	Height int

	// Err, when set, makes Open fail with it.
	Err error
}

// Open returns a handle that renders a shifting gradient on each snapshot.
func (s PatternSource) Open(_ context.Context) (Handle, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &patternHandle{width: s.Width, height: s.Height}, nil
}

type patternHandle struct {
	mu     sync.Mutex
	width  int
	height int
	frame  int
	closed bool
}

func (h *patternHandle) Dimensions() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, 0
	}
	return h.width, h.height
}

func (h *patternHandle) Snapshot() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrUnavailable
	}
	if h.width <= 0 || h.height <= 0 {
		return nil, ErrEmptyFrame
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	shift := h.frame * 16
	for y := range h.height {
		for x := range h.width {
			img.Set(x, y, color.RGBA{
				R: uint8((x + shift) % 256),
				G: uint8((y + shift) % 256),
				B: 128,
				A: 255,
			})
		}
	}
	h.frame++
	return img, nil
}

func (h *patternHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
