package components

import (
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/ui/theme"
)

// Button is a labelled action with its key. A disabled button renders
// dimmed; a hidden one renders nothing.
type Button struct {
	Key     string
	Label   string
	Enabled bool
	Hidden  bool
}

// View renders the button.
func (b Button) View() string {
	if b.Hidden {
		return ""
	}
	label := b.Label + " [" + b.Key + "]"
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow lays out the visible buttons side by side.
func ButtonRow(buttons ...Button) string {
	var views []string
	for _, b := range buttons {
		if v := b.View(); v != "" {
			if len(views) > 0 {
				views = append(views, "  ")
			}
			views = append(views, v)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
