package camera

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// Manager owns at most one open Handle from a Source.
type Manager struct {
	mu           sync.Mutex
	source       Source
	handle       Handle
	acquisitions int
	logger       *slog.Logger
}

// NewManager creates a Manager over src.
func NewManager(src Source, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{source: src, logger: logger.With("component", "camera")}
}

// Acquire opens a new handle, releasing any handle already held.
func (m *Manager) Acquire(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	h, err := m.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	m.handle = h
	m.acquisitions++
	m.logger.Debug("camera acquired", "acquisitions", m.acquisitions)
	return nil
}

// Release closes the held handle. Safe to call when nothing is held.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *Manager) releaseLocked() {
	if m.handle == nil {
		return
	}
	if err := m.handle.Close(); err != nil {
		m.logger.Warn("camera close failed", "error", err)
	}
	m.handle = nil
	m.logger.Debug("camera released")
}

// Active reports whether a handle is held.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// Acquisitions returns how many handles have been opened in total.
func (m *Manager) Acquisitions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquisitions
}

// Dimensions reports the held handle's frame size, or zero when nothing is held.
func (m *Manager) Dimensions() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return 0, 0
	}
	return m.handle.Dimensions()
}

// StartWindow marks the start of a recording on handles that support it.
func (m *Manager) StartWindow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.handle.(Windowed); ok {
		w.StartWindow()
	}
}

// Snapshot grabs a frame from the held handle.
func (m *Manager) Snapshot() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil, ErrUnavailable
	}
	return m.handle.Snapshot()
}
