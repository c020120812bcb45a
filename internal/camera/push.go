package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
)

// PushSource serves the most recent frame pushed by a remote client, such as
// a browser streaming its webcam over a websocket.
type PushSource struct {
	mu     sync.Mutex
	frame  image.Image
	pushed int
}

// NewPushSource creates an empty PushSource.
func NewPushSource() *PushSource {
	return &PushSource{}
}

// Push replaces the current frame.
func (s *PushSource) Push(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = img
	s.pushed++
}

// PushEncoded decodes a frame in any registered image format and pushes it.
func (s *PushSource) PushEncoded(data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode pushed frame: %w", err)
	}
	s.Push(img)
	return nil
}

// Pushed returns the number of frames received so far.
func (s *PushSource) Pushed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushed
}

// Open always succeeds; dimensions stay zero until the first frame arrives.
func (s *PushSource) Open(_ context.Context) (Handle, error) {
	return &pushHandle{src: s}, nil
}

type pushHandle struct {
	src    *PushSource
	mu     sync.Mutex
	closed bool
	// Pushes counted before the current recording window; only later
	// frames are served.
	windowFrom int
}

// StartWindow makes frames pushed so far stale until a new one arrives.
func (h *pushHandle) StartWindow() {
	h.src.mu.Lock()
	pushed := h.src.pushed
	h.src.mu.Unlock()

	h.mu.Lock()
	h.windowFrom = pushed
	h.mu.Unlock()
}

func (h *pushHandle) Dimensions() (int, int) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return 0, 0
	}

	h.src.mu.Lock()
	defer h.src.mu.Unlock()
	if h.src.frame == nil {
		return 0, 0
	}
	b := h.src.frame.Bounds()
	return b.Dx(), b.Dy()
}

func (h *pushHandle) Snapshot() (image.Image, error) {
	h.mu.Lock()
	closed, from := h.closed, h.windowFrom
	h.mu.Unlock()
	if closed {
		return nil, ErrUnavailable
	}

	h.src.mu.Lock()
	defer h.src.mu.Unlock()
	if h.src.frame == nil {
		return nil, ErrEmptyFrame
	}
	if h.src.pushed <= from {
		return nil, ErrStaleFrame
	}
	return h.src.frame, nil
}

func (h *pushHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
