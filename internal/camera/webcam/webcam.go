// Package webcam opens local capture devices through OpenCV.
package webcam

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/edusign/edusign/internal/camera"
)

// Config selects the capture device and the requested stream format.
type Config struct {
	Device int     `yaml:"device"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// DefaultConfig requests a low resolution stream from the first device.
func DefaultConfig() Config {
	return Config{Device: 0, Width: 320, Height: 240, FPS: 15}
}

// Source opens an OpenCV VideoCapture.
type Source struct {
	cfg Config
}

// New creates a webcam Source.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Open starts the capture device.
func (s *Source) Open(_ context.Context) (camera.Handle, error) {
	vc, err := gocv.OpenVideoCapture(s.cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", camera.ErrUnavailable, s.cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: device %d not opened", camera.ErrUnavailable, s.cfg.Device)
	}

	if s.cfg.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(s.cfg.Width))
	}
	if s.cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(s.cfg.Height))
	}
	if s.cfg.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, s.cfg.FPS)
	}

	return &handle{vc: vc, mat: gocv.NewMat()}, nil
}

type handle struct {
	mu     sync.Mutex
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

// Dimensions reports the last frame's size, reading one if none was read yet.
func (h *handle) Dimensions() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, 0
	}
	if h.mat.Empty() {
		if ok := h.vc.Read(&h.mat); !ok || h.mat.Empty() {
			return 0, 0
		}
	}
	return h.mat.Cols(), h.mat.Rows()
}

func (h *handle) Snapshot() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, camera.ErrUnavailable
	}
	if ok := h.vc.Read(&h.mat); !ok || h.mat.Empty() {
		return nil, camera.ErrEmptyFrame
	}
	img, err := h.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.mat.Close()
	return h.vc.Close()
}
