package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/edusign/edusign/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold  = 90
	CompactHeightThreshold = 22
)

// hintGap separates footer hints.
const hintGap = "   "

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Header is the content of the top bar.
type Header struct {
	Title  string
	Status string // right-aligned, may be empty
	Live   bool   // camera is recording; prefixes the status with a red dot
}

// IsCompact reports whether the content area is too small for the
// large banner and bordered buttons.
func IsCompact(width, height int) bool {
	return width < CompactWidthThreshold || height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar. The title is centered
// and truncated when the status leaves no room for it.
func RenderHeader(h Header, width int) string {
	inner := max(width-4, 0) // border + padding

	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  EduSign")

	status := h.Status
	if h.Live {
		status = "● REC  " + status
	}
	right := lipgloss.NewStyle().Foreground(statusColor(h.Live)).Render(status)

	room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 2
	title := ansi.Truncate(h.Title, max(room, 0), "…")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(min((inner-cw)/2-lw, inner-lw-cw-rw-1), 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return bar(width).Render(content)
}

func statusColor(live bool) color.Color {
	if live {
		return theme.Recording
	}
	return theme.Accent
}

// RenderFooter renders the footer with key hints. Hints that do not fit
// are dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := width - 4
	content := " "
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		sep := " "
		if i > 0 {
			sep = hintGap
		}
		if i > 0 && lipgloss.Width(content+sep+part) > inner {
			break
		}
		content += sep + part
	}
	return bar(width).Render(content)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).MaxHeight(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
