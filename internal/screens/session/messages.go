package session

import "github.com/edusign/edusign/internal/quiz"

// viewMsg carries a View rendered by the controller loop.
type viewMsg quiz.View

// hookDoneMsg reports the result of a controller hook.
type hookDoneMsg struct {
	Hook string
	Err  error
}
