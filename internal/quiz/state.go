package quiz

import "fmt"

// State is the phase of a capture session.
type State int

const (
	StateIdle           State = iota // No session
	StateAwaitingWebcam              // Camera being acquired
	StateReady                       // Question shown, submission enabled
	StateCountdown                   // Counting down to recording
	StateRecording                   // Sampling frames
	StateSubmitting                  // Waiting for the recognizer
	StateFeedback                    // Verdict shown
	StateFinished                    // All questions answered
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateAwaitingWebcam: "awaiting-webcam",
	StateReady:          "ready",
	StateCountdown:      "countdown",
	StateRecording:      "recording",
	StateSubmitting:     "submitting",
	StateFeedback:       "feedback",
	StateFinished:       "finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText renders the state name in JSON views.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown quiz state %q", b)
}

// capturing reports whether the state holds timers or an in-flight request.
func (s State) capturing() bool {
	return s == StateCountdown || s == StateRecording || s == StateSubmitting
}
