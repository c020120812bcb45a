package session

import (
	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/screens/summary"
)

// newSummaryScreen wraps the finished session's summary in a summary screen.
func newSummaryScreen(sum quiz.Summary, learner string) screen.Screen {
	return summary.New(summary.Result{
		Learner: learner,
		Summary: sum,
	})
}
