// Package level implements the screen for a single subject level: its state,
// the pending test if any, and the actions a student can take on it.
package level

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/screen"
	"github.com/admitflow/admitflow/internal/session"
	"github.com/admitflow/admitflow/internal/ui/components"
	"github.com/admitflow/admitflow/internal/ui/layout"
	"github.com/admitflow/admitflow/internal/ui/theme"
)

// Services are the backends the TUI screens talk to.
type Services struct {
	Sessions *session.Service
	// Reviews is nil when no LLM provider is configured.
	Reviews *review.Service
}

const (
	btnStart = iota
	btnPass
	btnFail
	btnReview
)

type loadedMsg struct {
	progress progression.Progress
	history  []attempts.Record
	err      error
}

type startedMsg struct {
	started *session.Started
	err     error
}

type scoredMsg struct {
	rec *attempts.Record
	err error
}

type notesMsg struct {
	notes *review.Notes
	err   error
}

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Press key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("←→", "Choose"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Select"),
		),
	}
}

// LevelScreen shows one level of a subject for a student.
type LevelScreen struct {
	svc     Services
	student string
	subject attempts.Subject
	level   attempts.Level

	progress progression.Progress
	history  []attempts.Record
	pending  *attempts.Record
	loaded   bool

	notes        *review.Notes
	loadingNotes bool

	status  string
	err     error
	buttons []components.Button
	focus   int
	keys    keyMap
}

var _ screen.Screen = (*LevelScreen)(nil)
var _ screen.KeyHintProvider = (*LevelScreen)(nil)

// New creates a LevelScreen.
func New(svc Services, student string, subject attempts.Subject, level attempts.Level) *LevelScreen {
	s := &LevelScreen{
		svc:     svc,
		student: student,
		subject: subject,
		level:   level,
		keys:    defaultKeyMap(),
	}
	s.buttons = []components.Button{
		components.NewButton("Start test", true, s.start),
		components.NewButton("Mark passed", true, func() tea.Cmd { return s.score(attempts.ResultPass) }),
		components.NewButton("Mark failed", true, func() tea.Cmd { return s.score(attempts.ResultFail) }),
		components.NewButton("Review notes", true, s.requestNotes),
	}
	return s
}

func (s *LevelScreen) Title() string {
	return s.subject.DisplayName() + " · " + s.level.DisplayName()
}

func (s *LevelScreen) Init() tea.Cmd {
	return s.load()
}

// Refresh reloads the student's history.
func (s *LevelScreen) Refresh() tea.Cmd {
	return s.load()
}

func (s *LevelScreen) load() tea.Cmd {
	sessions, student, subject := s.svc.Sessions, s.student, s.subject
	return func() tea.Msg {
		history, err := sessions.History(context.Background(), student)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{
			progress: progression.Derive(history, subject),
			history:  history,
		}
	}
}

func (s *LevelScreen) start() tea.Cmd {
	in := attempts.StartInput{
		StudentID: s.student,
		Subject:   string(s.subject),
		Level:     string(s.level),
	}
	sessions := s.svc.Sessions
	return func() tea.Msg {
		started, err := sessions.Start(context.Background(), in)
		return startedMsg{started: started, err: err}
	}
}

func (s *LevelScreen) score(result attempts.Result) tea.Cmd {
	if s.pending == nil {
		return nil
	}
	id, sessions := s.pending.ID, s.svc.Sessions
	return func() tea.Msg {
		rec, err := sessions.Score(context.Background(), id, result)
		return scoredMsg{rec: rec, err: err}
	}
}

func (s *LevelScreen) requestNotes() tea.Cmd {
	if s.svc.Reviews == nil {
		return nil
	}
	s.loadingNotes = true
	s.status = "Generating review notes..."
	s.syncButtons()
	reviews := s.svc.Reviews
	input := review.BuildInput(s.progress, s.history, s.level)
	return func() tea.Msg {
		notes, err := reviews.Generate(context.Background(), input)
		return notesMsg{notes: notes, err: err}
	}
}

func (s *LevelScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		if msg.err == nil {
			s.progress = msg.progress
			s.history = msg.history
			s.pending = findPending(msg.history, s.subject, s.level)
		}
		s.syncButtons()
		return s, nil

	case startedMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.err = nil
		if msg.started.Resumed {
			s.status = "Resumed your test in progress."
		} else {
			s.status = "Test started. Good luck!"
		}
		return s, s.load()

	case scoredMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.err = nil
		if msg.rec.Result == attempts.ResultPass {
			s.status = "Passed. Nice work!"
		} else {
			s.status = "Marked as failed. Try again when you are ready."
		}
		s.focus = btnStart
		return s, s.load()

	case notesMsg:
		s.loadingNotes = false
		if msg.err != nil {
			s.err = fmt.Errorf("review notes: %w", msg.err)
			s.status = ""
		} else {
			s.err = nil
			s.notes = msg.notes
			s.status = ""
		}
		s.syncButtons()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Next):
			s.moveFocus(1)
			return s, nil
		case key.Matches(msg, s.keys.Prev):
			s.moveFocus(-1)
			return s, nil
		case key.Matches(msg, s.keys.Press):
			var cmd tea.Cmd
			s.buttons[s.focus], cmd = s.buttons[s.focus].Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

// syncButtons enables the actions that make sense for the current state and
// keeps focus on an enabled button.
func (s *LevelScreen) syncButtons() {
	state, _ := s.progress.Level(s.level)
	canStart := s.loaded && !s.progress.Lock.IsLocked && state.Reachable() && s.pending == nil

	s.buttons[btnStart].Disabled = !canStart
	s.buttons[btnPass].Disabled = s.pending == nil
	s.buttons[btnFail].Disabled = s.pending == nil
	s.buttons[btnReview].Disabled = s.svc.Reviews == nil || s.loadingNotes || !s.loaded

	if s.buttons[s.focus].Disabled {
		s.moveFocus(1)
	}
	for i := range s.buttons {
		s.buttons[i].Focused = i == s.focus
	}
}

func (s *LevelScreen) moveFocus(delta int) {
	n := len(s.buttons)
	for step := 1; step <= n; step++ {
		i := ((s.focus+delta*step)%n + n) % n
		if !s.buttons[i].Disabled {
			s.focus = i
			break
		}
	}
	for i := range s.buttons {
		s.buttons[i].Focused = i == s.focus
	}
}

func findPending(history []attempts.Record, subject attempts.Subject, level attempts.Level) *attempts.Record {
	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		if r.Subject == subject && r.Level == level && r.Result == attempts.ResultPending {
			return &r
		}
	}
	return nil
}

func (s *LevelScreen) KeyHints() []layout.KeyHint {
	return layout.HintsFromBindings(s.keys.Next, s.keys.Press)
}

func (s *LevelScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	var b strings.Builder
	state, _ := s.progress.Level(s.level)

	b.WriteString(theme.Title.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(statusStyle(state.Status).Render(state.Status.Icon() + " " + state.Status.Label()))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("   %d attempt(s)", state.Attempts)))
	b.WriteString("\n")

	if s.progress.Lock.IsLocked {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("🔒 " + s.progress.Lock.Reason))
		b.WriteString("\n")
	}
	if s.pending != nil {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Test in progress since " + s.pending.CreatedAt.Local().Format("Jan 2 15:04")))
		b.WriteString("\n")
	}

	views := make([]string, len(s.buttons))
	for i, btn := range s.buttons {
		views[i] = btn.View()
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(views, "  "))
	b.WriteString("\n")

	if s.status != "" {
		b.WriteString("\n" + theme.Subtitle.Render(s.status) + "\n")
	}
	if s.err != nil {
		b.WriteString("\n" + theme.Failure.Render("✗ "+errorText(s.err)) + "\n")
	}
	if s.notes != nil {
		b.WriteString("\n" + renderNotes(s.notes, width))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func statusStyle(st progression.Status) lipgloss.Style {
	switch st {
	case progression.StatusCompleted:
		return theme.Completed
	case progression.StatusCurrent:
		return theme.Current
	default:
		return theme.Locked
	}
}

func errorText(err error) string {
	var locked *session.SubjectLockedError
	switch {
	case errors.As(err, &locked):
		return locked.Reason
	case errors.Is(err, session.ErrLevelLocked):
		return "Finish the previous level first."
	case errors.Is(err, session.ErrAlreadyScored):
		return "This test was already scored."
	default:
		return err.Error()
	}
}

func renderNotes(n *review.Notes, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width-8, 20))

	var b strings.Builder
	b.WriteString(theme.Title.Render(n.Title) + "\n")
	b.WriteString(wrap.Render(theme.Body.Render(n.Summary)) + "\n")
	if len(n.KeyConcepts) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Key concepts") + "\n")
		for _, c := range n.KeyConcepts {
			b.WriteString(wrap.Render("  • "+c) + "\n")
		}
	}
	if len(n.PracticeTips) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Practice") + "\n")
		for _, tip := range n.PracticeTips {
			b.WriteString(wrap.Render("  • "+tip) + "\n")
		}
	}
	return b.String()
}
