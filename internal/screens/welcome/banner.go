package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/ui/theme"
)

const bannerArt = `
 ███████╗██████╗ ██╗   ██╗███████╗██╗ ██████╗ ███╗   ██╗
 ██╔════╝██╔══██╗██║   ██║██╔════╝██║██╔════╝ ████╗  ██║
 █████╗  ██║  ██║██║   ██║███████╗██║██║  ███╗██╔██╗ ██║
 ██╔══╝  ██║  ██║██║   ██║╚════██║██║██║   ██║██║╚██╗██║
 ███████╗██████╔╝╚██████╔╝███████║██║╚██████╔╝██║ ╚████║
 ╚══════╝╚═════╝  ╚═════╝ ╚══════╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝`

const bannerCompact = "E D U S I G N"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 57

// RenderBanner returns the EDUSIGN banner styled in the primary color,
// or a compact fallback when width cannot fit the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
