package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/ui/theme"
)

// Step is the state of one segment in a StepBar.
type Step int

const (
	StepTodo Step = iota
	StepActive
	StepDone
)

// StepBar renders an ordered track of equal segments, one per step, with an
// optional label in front.
type StepBar struct {
	Label string
	Steps []Step
	Width int
}

func (b StepBar) View() string {
	var out strings.Builder
	if b.Label != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label))
		out.WriteString("  ")
	}
	if len(b.Steps) == 0 {
		return out.String()
	}

	avail := b.Width - lipgloss.Width(out.String())
	// One space between segments, at least two cells per segment.
	seg := max((avail-(len(b.Steps)-1))/len(b.Steps), 2)

	for i, st := range b.Steps {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(stepStyle(st).Render(strings.Repeat(stepGlyph(st), seg)))
	}
	return out.String()
}

func stepGlyph(st Step) string {
	if st == StepTodo {
		return "░"
	}
	return "█"
}

func stepStyle(st Step) lipgloss.Style {
	switch st {
	case StepDone:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case StepActive:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	default:
		return lipgloss.NewStyle().Foreground(theme.Border)
	}
}
