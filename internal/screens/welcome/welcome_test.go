package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/admitflow/admitflow/internal/screen"
)

func typeText(w *WelcomeScreen, s string) {
	for _, r := range s {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func sendTicks(w *WelcomeScreen, n int) {
	var s screen.Screen = w
	for i := 0; i < n; i++ {
		s, _ = s.Update(tickMsg(time.Now()))
	}
}

func TestTaglineAppearsAfterDelay(t *testing.T) {
	w := New()

	if strings.Contains(w.View(80, 24), "One level at a time") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 5)
	if !strings.Contains(w.View(80, 24), "One level at a time") {
		t.Error("tagline should be visible after 500ms")
	}

	sendTicks(w, 20)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestEnterWithIDEmitsChosen(t *testing.T) {
	w := New()
	typeText(w, "stu-42")

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(ChosenMsg)
	if !ok {
		t.Fatalf("expected ChosenMsg, got %T", cmd())
	}
	if msg.StudentID != "stu-42" {
		t.Errorf("student = %q, want stu-42", msg.StudentID)
	}

	// A second enter does nothing.
	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("second enter should not produce a command")
	}
}

func TestEnterWithoutIDShowsError(t *testing.T) {
	w := New()
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty ID should not produce a command")
	}
	if !strings.Contains(w.View(80, 24), "enter your student ID") {
		t.Error("expected an error hint in the view")
	}
}

func TestDisallowedCharactersIgnored(t *testing.T) {
	w := New()
	typeText(w, "a b!c")
	if got := w.input.Value(); got != "abc" {
		t.Errorf("value = %q, want abc", got)
	}
}

func TestTitleEmpty(t *testing.T) {
	if New().Title() != "" {
		t.Error("expected empty title")
	}
}
