package welcome

import (
	"strings"
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/screen"
	"github.com/admitflow/admitflow/internal/ui/components"
	"github.com/admitflow/admitflow/internal/ui/layout"
	"github.com/admitflow/admitflow/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	taglineAt    = 500 * time.Millisecond
	totalDur     = 1000 * time.Millisecond

	maxStudentIDLen = 128
)

type tickMsg time.Time

// ChosenMsg is emitted once the student has entered their ID.
type ChosenMsg struct {
	StudentID string
}

// WelcomeScreen shows the banner and asks for the student ID.
type WelcomeScreen struct {
	input   components.TextInput
	elapsed time.Duration
	chosen  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New() *WelcomeScreen {
	in := components.NewTextInput("student ID", maxStudentIDLen)
	in.Allow = func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.@", r)
	}
	return &WelcomeScreen{input: in}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return w, w.submit()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	if w.chosen {
		return nil
	}
	id := w.input.Value()
	if id == "" {
		w.input.SetError("enter your student ID")
		return nil
	}
	w.chosen = true
	return func() tea.Msg {
		return ChosenMsg{StudentID: id}
	}
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	if w.elapsed >= taglineAt {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Math, then Physics, then Chemistry. One level at a time."))
		sections = append(sections, "")
	}

	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Who is studying today?"),
		w.input.View(),
	)

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
