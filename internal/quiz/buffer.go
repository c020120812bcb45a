package quiz

// CaptureBuffer holds the encoded frames of one recording window.
// It accepts frames until it is full or frozen.
type CaptureBuffer struct {
	frames []string
	max    int
	frozen bool
}

// NewCaptureBuffer creates a buffer for at most max frames.
func NewCaptureBuffer(max int) *CaptureBuffer {
	return &CaptureBuffer{frames: make([]string, 0, max), max: max}
}

// Append adds a frame. It reports false when the frame was dropped.
func (b *CaptureBuffer) Append(frame string) bool {
	if b.frozen || len(b.frames) >= b.max {
		return false
	}
	b.frames = append(b.frames, frame)
	return true
}

// Full reports whether no more frames fit.
func (b *CaptureBuffer) Full() bool { return len(b.frames) >= b.max }

// Len returns the number of buffered frames.
func (b *CaptureBuffer) Len() int { return len(b.frames) }

// Freeze stops the buffer from accepting frames and returns them.
func (b *CaptureBuffer) Freeze() []string {
	b.frozen = true
	return b.frames
}
