package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/ui/theme"
)

// Picker cycles through a fixed list of options with left and right.
type Picker struct {
	Label    string
	Options  []string
	Selected int
}

// NewPicker creates a picker starting at the first option.
func NewPicker(label string, options []string) Picker {
	return Picker{Label: label, Options: options}
}

// Update handles left/right cycling. Other messages are ignored.
func (p Picker) Update(msg tea.Msg) Picker {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(p.Options) == 0 {
		return p
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p
}

// Value returns the selected option, or "" when there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// View renders "Label  ◂ value ▸".
func (p Picker) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label)
	if len(p.Options) == 0 {
		return label + "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("none")
	}
	arrows := lipgloss.NewStyle().Foreground(theme.Secondary)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Value())
	return label + "  " + arrows.Render("◂ ") + value + arrows.Render(" ▸")
}
