package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(Header{Title: "Quiz", Status: "Sam · 2/5"}, 80)
	for _, want := range []string{"EduSign", "Quiz", "Sam · 2/5"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "REC") {
		t.Errorf("idle header shows recording marker:\n%s", out)
	}
	if w := lipgloss.Width(out); w > 80 {
		t.Errorf("header width = %d, want <= 80", w)
	}
}

func TestRenderHeaderLive(t *testing.T) {
	out := RenderHeader(Header{Title: "Quiz", Status: "2s left", Live: true}, 80)
	if !strings.Contains(out, "● REC") {
		t.Errorf("live header missing recording marker:\n%s", out)
	}
}

func TestRenderHeaderTruncatesLongTitle(t *testing.T) {
	title := strings.Repeat("Fingerspelling ", 10)
	out := RenderHeader(Header{Title: title, Status: "Sam · 12/20"}, MinWidth)
	if !strings.Contains(out, "…") {
		t.Errorf("long title not truncated:\n%s", out)
	}
	if !strings.Contains(out, "Sam · 12/20") {
		t.Errorf("status lost to the title:\n%s", out)
	}
	if w := lipgloss.Width(out); w > MinWidth {
		t.Errorf("header width = %d, want <= %d", w, MinWidth)
	}
}

func TestRenderFooter(t *testing.T) {
	out := RenderFooter([]KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "C", Description: "Cancel"}}, 80)
	if !strings.Contains(out, "Submit") || !strings.Contains(out, "Cancel") {
		t.Errorf("footer missing hints:\n%s", out)
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Record sign"},
		{Key: "C", Description: "Cancel"},
		{Key: "Esc", Description: "Back to the question set picker"},
		{Key: "Ctrl+C", Description: "Quit the application"},
	}
	out := RenderFooter(hints, MinWidth)
	if !strings.Contains(out, "Record sign") {
		t.Errorf("first hint dropped:\n%s", out)
	}
	if strings.Contains(out, "Quit the application") {
		t.Errorf("overflowing hint kept:\n%s", out)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader(Header{Title: "Quiz"}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	out := RenderFrame(header, "body", footer, 80, 30)
	if h := lipgloss.Height(out); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
}
