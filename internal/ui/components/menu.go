package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/ui/theme"
)

// menuButtonWidth is the fixed width of a bordered menu button.
const menuButtonWidth = 22

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu as bordered buttons, or as plain lines when
// compact, centred in cw columns.
func (m Menu) View(cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(menuButtonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Padding(0, 1)

	normalBtn := selectedBtn.
		UnsetBackground().
		Bold(false).
		Foreground(theme.Text).
		BorderForeground(theme.Border)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	lines := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case compact && i == m.Selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+item.Label+" "))
		case compact:
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if item.Disabled {
				style = style.Foreground(theme.TextDim)
			}
			lines = append(lines, style.Render("   "+item.Label))
		case item.Disabled:
			lines = append(lines, disabledBtn.Render(item.Label))
		case i == m.Selected:
			lines = append(lines, selectedBtn.Render("▸ "+item.Label))
		default:
			lines = append(lines, normalBtn.Render(item.Label))
		}
	}
	return Centered(strings.Join(lines, "\n"), cw)
}
