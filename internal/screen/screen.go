package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/edusign/edusign/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources (a running quiz,
// a camera) which must be released when the screen leaves the stack.
type Closer interface {
	Close()
}

// StatusProvider is implemented by screens that show a status line on
// the right side of the header.
type StatusProvider interface {
	Status() string
}

// LiveProvider is implemented by screens that can hold the camera open.
// Live reports whether frames are being recorded right now.
type LiveProvider interface {
	Live() bool
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}
