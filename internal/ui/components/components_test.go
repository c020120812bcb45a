package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "A", Disabled: true},
		{Label: "B"},
		{Label: "C", Disabled: true},
		{Label: "D"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at end Selected = %d, want 3", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "GO", Action: func() tea.Cmd { ran = true; return nil }}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("enter should run the selected action")
	}
}

func TestPicker_Cycles(t *testing.T) {
	p := NewPicker("Set", []string{"numbers", "greetings", "colors"})
	p = p.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if p.Value() != "colors" {
		t.Errorf("left from first = %q, want colors", p.Value())
	}
	p = p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	p = p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if p.Value() != "greetings" {
		t.Errorf("Value = %q, want greetings", p.Value())
	}
	if !strings.Contains(p.View(), "greetings") {
		t.Errorf("View = %q", p.View())
	}
}

func TestPicker_Empty(t *testing.T) {
	p := NewPicker("Set", nil)
	p = p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if p.Value() != "" {
		t.Errorf("Value = %q, want empty", p.Value())
	}
}

func TestButtonRow_SkipsHidden(t *testing.T) {
	row := ButtonRow(
		Button{Key: "Enter", Label: "Submit", Enabled: true},
		Button{Key: "N", Label: "Next", Hidden: true},
	)
	if !strings.Contains(row, "Submit") || strings.Contains(row, "Next") {
		t.Errorf("row = %q", row)
	}
}

func TestDots(t *testing.T) {
	if got := strings.Count(Dots(3, 10), "●"); got != 3 {
		t.Errorf("filled = %d, want 3", got)
	}
	if got := strings.Count(Dots(12, 10), "●"); got != 10 {
		t.Errorf("filled clamps to total, got %d", got)
	}
}

func TestTextInput_Reject(t *testing.T) {
	in := NewTextInput("Your name", 20)
	in.Reject("Please enter your name")
	if !strings.Contains(in.View(), "Please enter your name") {
		t.Error("rejection should render")
	}
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if strings.Contains(in.View(), "Please enter your name") {
		t.Error("typing should clear the rejection")
	}
	if in.Value() != "a" {
		t.Errorf("Value = %q, want a", in.Value())
	}
}
