package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/ui/theme"
)

// Tab is one entry in a Tabs bar.
type Tab struct {
	Label  string
	Locked bool
}

// Tabs renders a horizontal tab bar with one active tab.
type Tabs struct {
	Items  []Tab
	Active int
}

// Next moves to the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Items) > 0 {
		t.Active = (t.Active + 1) % len(t.Items)
	}
}

// Prev moves to the previous tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Items) > 0 {
		t.Active = (t.Active - 1 + len(t.Items)) % len(t.Items)
	}
}

// View renders the tab bar.
func (t Tabs) View() string {
	parts := make([]string, 0, len(t.Items))
	for i, item := range t.Items {
		label := item.Label
		if item.Locked {
			label = "🔒 " + label
		}
		switch {
		case i == t.Active:
			parts = append(parts, theme.TabActive.Render(label))
		case item.Locked:
			parts = append(parts, theme.TabLocked.Render(label))
		default:
			parts = append(parts, theme.TabInactive.Render(label))
		}
	}
	bar := strings.Join(parts, " ")
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", lipgloss.Width(bar)))
	return bar + "\n" + rule
}
