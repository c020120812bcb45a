package quiz

import "errors"

var (
	// ErrInvalidTransition is returned by a hook that does not apply to the
	// current state. It is wrapped with the state name.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSubmitDisabled is returned by Submit outside the ready state.
	ErrSubmitDisabled = errors.New("submission disabled")

	// ErrClosed is returned by hooks after Close.
	ErrClosed = errors.New("controller closed")

	// ErrEmptyCapture marks a recording that produced no frames.
	ErrEmptyCapture = errors.New("no frames captured")
)
