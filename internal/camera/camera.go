// Package camera provides the frame sources a quiz records from and the
// encoder that turns their snapshots into submission frames.
package camera

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable indicates the source could not be opened: no device, no
// permission, or nothing to replay.
var ErrUnavailable = errors.New("camera unavailable")

// ErrEmptyFrame indicates a snapshot with zero area.
var ErrEmptyFrame = errors.New("empty frame")

// Source opens camera handles.
type Source interface {
	Open(ctx context.Context) (Handle, error)
}

// Handle is an open camera stream.
type Handle interface {
	// Dimensions returns the current frame size. Zero means the stream has
	// not produced a frame yet.
	Dimensions() (width, height int)

	// Snapshot returns the current frame.
	Snapshot() (image.Image, error)

	// Close stops the stream and all of its underlying tracks.
	Close() error
}

// ErrStaleFrame indicates the newest frame predates the recording window.
var ErrStaleFrame = errors.New("stale frame")

// Windowed is implemented by handles whose frames arrive from elsewhere and
// can go stale. StartWindow marks the start of a recording; frames that
// arrived before it are no longer served.
type Windowed interface {
	StartWindow()
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Handle, error)

func (f SourceFunc) Open(ctx context.Context) (Handle, error) { return f(ctx) }
