package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/ui/theme"
)

const titleFull = `╔═╗╔╦╗╦ ╦╔═╗╦╔═╗╔╗╔
║╣  ║║║ ║╚═╗║║ ╦║║║
╚═╝═╩╝╚═╝╚═╝╩╚═╝╝╚╝`

const titleCompact = "E · D · U · S · I · G · N"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

func renderGreeting(learner string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Hi %s! Ready to sign?", learner))
}

// renderStatsBar shows quizzes played, the last score and the best tier.
func renderStatsBar(st Stats, cw int, compact bool) string {
	played := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	last := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	best := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	lastText := dim.Render("NO SCORE YET")
	if st.Last != nil {
		lastText = last.Render(fmt.Sprintf("LAST %d/%d", st.Last.Score, st.Last.Total))
	}
	bestText := dim.Render("—")
	if st.BestTier != "" {
		bestText = best.Render("BEST " + tierBadge(st.BestTier))
	}

	sep := "   "
	if compact {
		sep = " "
	}
	stats := played.Render(fmt.Sprintf("★ %d PLAYED", st.Played)) + sep + lastText + sep + bestText

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func tierBadge(t quiz.Tier) string {
	switch t {
	case quiz.TierExcellent:
		return "★★★"
	case quiz.TierGood:
		return "★★"
	}
	return "★"
}
