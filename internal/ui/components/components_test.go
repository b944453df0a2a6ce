package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestTabsWrap(t *testing.T) {
	tabs := Tabs{Items: []Tab{{Label: "A"}, {Label: "B"}, {Label: "C", Locked: true}}}

	tabs.Prev()
	if tabs.Active != 2 {
		t.Errorf("Prev from 0: active = %d, want 2", tabs.Active)
	}
	tabs.Next()
	if tabs.Active != 0 {
		t.Errorf("Next from 2: active = %d, want 0", tabs.Active)
	}
	if !strings.Contains(tabs.View(), "🔒 C") {
		t.Error("locked tab should show the lock icon")
	}
}

func TestTabsEmpty(t *testing.T) {
	var tabs Tabs
	tabs.Next()
	tabs.Prev()
	if tabs.Active != 0 {
		t.Errorf("active = %d, want 0", tabs.Active)
	}
}

func TestButtonPress(t *testing.T) {
	pressed := 0
	b := NewButton("Go", false, func() tea.Cmd {
		pressed++
		return nil
	})
	enter := tea.KeyPressMsg{Code: tea.KeyEnter}

	b.Update(enter)
	if pressed != 0 {
		t.Error("unfocused button should ignore enter")
	}

	b.Focused = true
	b.Update(enter)
	if pressed != 1 {
		t.Errorf("pressed = %d, want 1", pressed)
	}

	b.Disabled = true
	b.Update(enter)
	if pressed != 1 {
		t.Error("disabled button should ignore enter")
	}
}

func TestStepBar(t *testing.T) {
	bar := StepBar{Label: "1/3 levels", Steps: []Step{StepDone, StepActive, StepTodo}, Width: 32}
	v := bar.View()
	if !strings.Contains(v, "1/3 levels") {
		t.Errorf("missing label: %q", v)
	}
	if got := strings.Count(v, "░"); got != 6 {
		t.Errorf("todo cells = %d, want 6", got)
	}
	if got := strings.Count(v, "█"); got != 12 {
		t.Errorf("filled cells = %d, want 12", got)
	}

	narrow := StepBar{Steps: []Step{StepTodo, StepTodo, StepTodo}, Width: 3}.View()
	if got := strings.Count(narrow, "░"); got != 6 {
		t.Errorf("narrow bar should keep two cells per step, got %d", got)
	}

	if (StepBar{Label: "none"}).View() == "" {
		t.Error("label should render without steps")
	}
}

func TestTextInputAllowFilter(t *testing.T) {
	in := NewTextInput("id", 10)
	in.Allow = func(r rune) bool { return r != '!' }

	for _, r := range "ab!c" {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if got := in.Value(); got != "abc" {
		t.Errorf("value = %q, want abc", got)
	}

	in.SetError("bad")
	if !strings.Contains(in.View(), "bad") {
		t.Error("error should render under the input")
	}
}
