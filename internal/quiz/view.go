package quiz

import "time"

// Feedback classes.
const (
	ClassCorrect   = "correct"
	ClassIncorrect = "incorrect"
	ClassRetry     = "retry" // nothing was judged; the question stays open
)

// User-facing texts.
const (
	textProcessing   = "Processing..."
	textFailed       = "Failed to analyze sign. Please try again."
	textEmptyCapture = "No frames were captured. Please try again."
	textNoCamera     = "Unable to access webcam. Please make sure a camera is connected and access is allowed."
	textCancelled    = "Capture cancelled."
)

// Feedback is the message shown below the question.
type Feedback struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// Summary is the result of a finished session.
type Summary struct {
	SessionID string        `json:"sessionId"`
	Score     int           `json:"score"`
	Total     int           `json:"total"`
	Ratio     float64       `json:"ratio"`
	Tier      Tier          `json:"tier"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
}

// NewSummary grades score out of total against bounds.
func NewSummary(sessionID string, score, total int, d time.Duration, bounds Tiers) *Summary {
	var ratio float64
	if total > 0 {
		ratio = float64(score) / float64(total)
	}
	tier := TierFor(score, total, bounds)
	return &Summary{
		SessionID: sessionID,
		Score:     score,
		Total:     total,
		Ratio:     ratio,
		Tier:      tier,
		Message:   tier.Message(),
		Duration:  d,
	}
}

// View is everything a UI needs to draw the session.
type View struct {
	State       State  `json:"state"`
	SessionID   string `json:"sessionId,omitempty"`
	Learner     string `json:"learner,omitempty"`
	QuestionSet string `json:"questionSet,omitempty"`

	QuestionIndex int     `json:"questionIndex"`
	QuestionTotal int     `json:"questionTotal"`
	Prompt        string  `json:"prompt,omitempty"`
	Progress      float64 `json:"progress"`
	LastQuestion  bool    `json:"lastQuestion"`

	Countdown      int `json:"countdown,omitempty"`
	SecondsLeft    int `json:"secondsLeft,omitempty"`
	FramesCaptured int `json:"framesCaptured"`

	SubmitEnabled bool `json:"submitEnabled"`
	NextVisible   bool `json:"nextVisible"`

	Feedback *Feedback `json:"feedback,omitempty"`
	Notice   string    `json:"notice,omitempty"`
	Score    int       `json:"score"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// Renderer receives a fresh View after every state change. It runs on the
// controller's loop and must not call the controller's hooks.
type Renderer func(View)
