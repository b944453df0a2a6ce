// Package subjects implements the main screen: one tab per subject with the
// student's level states and lock status.
package subjects

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/router"
	"github.com/admitflow/admitflow/internal/screen"
	"github.com/admitflow/admitflow/internal/screens/level"
	"github.com/admitflow/admitflow/internal/ui/components"
	"github.com/admitflow/admitflow/internal/ui/layout"
	"github.com/admitflow/admitflow/internal/ui/theme"
)

type loadedMsg struct {
	overview []progression.Progress
	err      error
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Open    key.Binding
	Reload  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "Level"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("Tab", "Subject"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Open"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
	}
}

// SubjectsScreen lists every subject as a tab with its three levels.
type SubjectsScreen struct {
	svc      level.Services
	student  string
	overview []progression.Progress
	tabs     components.Tabs
	cursor   int
	loaded   bool
	err      error
	keys     keyMap
}

var _ screen.Screen = (*SubjectsScreen)(nil)
var _ screen.KeyHintProvider = (*SubjectsScreen)(nil)
var _ screen.Refresher = (*SubjectsScreen)(nil)

// New creates a SubjectsScreen for student.
func New(svc level.Services, student string) *SubjectsScreen {
	s := &SubjectsScreen{
		svc:     svc,
		student: student,
		keys:    defaultKeyMap(),
	}
	for _, subj := range attempts.AllSubjects() {
		s.tabs.Items = append(s.tabs.Items, components.Tab{Label: subj.DisplayName()})
	}
	return s
}

func (s *SubjectsScreen) Title() string {
	return "Subjects"
}

func (s *SubjectsScreen) Init() tea.Cmd {
	return s.load()
}

// Refresh reloads progression after returning from a level.
func (s *SubjectsScreen) Refresh() tea.Cmd {
	return s.load()
}

func (s *SubjectsScreen) load() tea.Cmd {
	sessions, student := s.svc.Sessions, s.student
	return func() tea.Msg {
		overview, err := sessions.Overview(context.Background(), student)
		return loadedMsg{overview: overview, err: err}
	}
}

// Selected returns the progress of the active tab.
func (s *SubjectsScreen) Selected() (progression.Progress, bool) {
	if s.tabs.Active >= len(s.overview) {
		return progression.Progress{}, false
	}
	return s.overview[s.tabs.Active], true
}

func (s *SubjectsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		first := !s.loaded
		s.loaded = true
		s.err = msg.err
		if msg.err == nil {
			s.overview = msg.overview
			for i, p := range s.overview {
				if i < len(s.tabs.Items) {
					s.tabs.Items[i].Locked = p.Lock.IsLocked
				}
			}
			if first {
				s.focusNext()
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keys.Down):
			if s.cursor < len(attempts.Levels())-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keys.NextTab):
			s.tabs.Next()
			s.focusNext()
		case key.Matches(msg, s.keys.PrevTab):
			s.tabs.Prev()
			s.focusNext()
		case key.Matches(msg, s.keys.Reload):
			return s, s.load()
		case key.Matches(msg, s.keys.Open):
			return s, s.open()
		}
	}
	return s, nil
}

// focusNext moves the cursor to the level the student should take next on
// the active subject.
func (s *SubjectsScreen) focusNext() {
	s.cursor = 0
	p, ok := s.Selected()
	if !ok {
		return
	}
	next, ok := p.Next()
	if !ok {
		return
	}
	for i, l := range attempts.Levels() {
		if l == next.Level {
			s.cursor = i
		}
	}
}

func (s *SubjectsScreen) open() tea.Cmd {
	p, ok := s.Selected()
	if !ok {
		return nil
	}
	lvl := attempts.Levels()[s.cursor]
	return router.PushCmd(level.New(s.svc, s.student, p.Subject, lvl))
}

func (s *SubjectsScreen) KeyHints() []layout.KeyHint {
	return layout.HintsFromBindings(s.keys.Up, s.keys.NextTab, s.keys.Open, s.keys.Reload)
}

func (s *SubjectsScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading progress..."))
	}

	var b strings.Builder
	b.WriteString(s.tabs.View())
	b.WriteString("\n\n")

	if s.err != nil {
		b.WriteString(theme.Failure.Render("✗ " + s.err.Error()))
		b.WriteString("\n")
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	p, ok := s.Selected()
	if !ok {
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if p.Lock.IsLocked {
		b.WriteString(theme.Warning.Render("🔒 " + p.Lock.Reason))
		b.WriteString("\n\n")
	}

	for i, ls := range p.Levels {
		row := fmt.Sprintf("%s %-8s %-10s %d attempt(s)",
			ls.Status.Icon(), ls.Level.DisplayName(), ls.Status.Label(), ls.Attempts)
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ " + row))
		} else {
			b.WriteString(rowStyle(ls.Status).Render("  " + row))
		}
		b.WriteString("\n")
	}

	track := components.StepBar{
		Label: fmt.Sprintf("%d/%d levels", p.Completed(), len(p.Levels)),
		Width: min(max(width-8, 20), 60),
	}
	for _, ls := range p.Levels {
		track.Steps = append(track.Steps, levelStep(ls.Status))
	}
	b.WriteString("\n")
	b.WriteString(track.View())
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func levelStep(st progression.Status) components.Step {
	switch st {
	case progression.StatusCompleted:
		return components.StepDone
	case progression.StatusCurrent:
		return components.StepActive
	default:
		return components.StepTodo
	}
}

func rowStyle(st progression.Status) lipgloss.Style {
	switch st {
	case progression.StatusCompleted:
		return theme.Completed
	case progression.StatusCurrent:
		return theme.Current
	default:
		return theme.Locked
	}
}
