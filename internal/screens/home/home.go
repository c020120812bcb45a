package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/screens/history"
	sessionscreen "github.com/edusign/edusign/internal/screens/session"
	"github.com/edusign/edusign/internal/store"
	"github.com/edusign/edusign/internal/ui/components"
	"github.com/edusign/edusign/internal/ui/layout"
)

// recentLimit is how many sessions feed the stats bar.
const recentLimit = 20

// Deps are what the home screen needs to start quizzes and show history.
type Deps struct {
	Catalog *quiz.Catalog
	// Events is optional; without it HISTORY is disabled and no stats show.
	Events store.EventRepo
	Quiz   sessionscreen.Factory
}

// Stats summarise the learner's recent sessions.
type Stats struct {
	Played   int
	BestTier quiz.Tier
	Last     *store.SessionEvent
}

type statsLoadedMsg struct {
	Stats Stats
}

// HomeScreen is the main menu.
type HomeScreen struct {
	learner string
	deps    Deps
	sets    []quiz.QuestionSet
	picker  components.Picker
	menu    components.Menu
	stats   Stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for learner.
func New(learner string, deps Deps) *HomeScreen {
	h := &HomeScreen{learner: learner, deps: deps}
	if deps.Catalog != nil {
		h.sets = deps.Catalog.Sets()
	}

	titles := make([]string, len(h.sets))
	for i, s := range h.sets {
		titles[i] = s.Title
	}
	h.picker = components.NewPicker("Question set", titles)

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "START QUIZ", Action: h.startQuiz, Disabled: len(h.sets) == 0 || deps.Quiz == nil},
		{Label: "HISTORY", Action: h.openHistory, Disabled: deps.Events == nil},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

// Select preselects the question set named name, if present.
func (h *HomeScreen) Select(name string) bool {
	for i, s := range h.sets {
		if s.Name == name {
			h.picker.Selected = i
			return true
		}
	}
	return false
}

// Selected returns the question set under the picker.
func (h *HomeScreen) Selected() (quiz.QuestionSet, bool) {
	if h.picker.Selected < 0 || h.picker.Selected >= len(h.sets) {
		return quiz.QuestionSet{}, false
	}
	return h.sets[h.picker.Selected], true
}

// QuizScreen builds the session screen for the selected set.
func (h *HomeScreen) QuizScreen() (screen.Screen, bool) {
	set, ok := h.Selected()
	if !ok || h.deps.Quiz == nil {
		return nil, false
	}
	return sessionscreen.New(set, h.learner, h.deps.Quiz), true
}

func (h *HomeScreen) startQuiz() tea.Cmd {
	s, ok := h.QuizScreen()
	if !ok {
		return nil
	}
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	events := h.deps.Events
	return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(events)} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads the stats when a quiz or history screen is popped.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	events := h.deps.Events
	if events == nil {
		return nil
	}
	learner := h.learner
	return func() tea.Msg {
		sessions, err := events.RecentSessions(context.Background(), store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return statsLoadedMsg{}
		}
		return statsLoadedMsg{Stats: computeStats(sessions, learner)}
	}
}

// computeStats keeps only learner's sessions; sessions arrive newest first.
func computeStats(sessions []store.SessionEvent, learner string) Stats {
	var st Stats
	rank := map[quiz.Tier]int{quiz.TierKeepPracticing: 1, quiz.TierGood: 2, quiz.TierExcellent: 3}
	for i := range sessions {
		s := sessions[i]
		if !strings.EqualFold(s.Learner, learner) {
			continue
		}
		st.Played++
		if st.Last == nil {
			st.Last = &s
		}
		if t := quiz.Tier(s.Tier); rank[t] > rank[st.BestTier] {
			st.BestTier = t
		}
	}
	return st
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.stats = msg.Stats
		return h, nil
	case tea.KeyPressMsg:
		h.picker = h.picker.Update(msg)
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height)
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderGreeting(h.learner, cw),
		renderStatsBar(h.stats, cw, compact),
		components.Centered(h.picker.View(), cw),
		h.menu.View(cw, compact),
	}
	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.Cabinet(strings.Join(sections, sep), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return h.learner
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Question set"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
