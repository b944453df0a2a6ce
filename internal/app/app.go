package app

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/router"
	"github.com/admitflow/admitflow/internal/screen"
	"github.com/admitflow/admitflow/internal/screens/level"
	"github.com/admitflow/admitflow/internal/screens/subjects"
	"github.com/admitflow/admitflow/internal/screens/welcome"
	"github.com/admitflow/admitflow/internal/ui/layout"
)

// Deps are the services the TUI runs against.
type Deps struct {
	Services level.Services
	// StudentID skips the welcome screen when set.
	StudentID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps    Deps
	student string
	router  *router.Router
	width   int
	height  int
}

// newAppModel creates an AppModel starting at the welcome screen, or at the
// subjects screen when the student is already known.
func newAppModel(deps Deps) AppModel {
	var first screen.Screen
	if deps.StudentID != "" {
		first = subjects.New(deps.Services, deps.StudentID)
	} else {
		first = welcome.New()
	}
	return AppModel{
		deps:    deps,
		student: deps.StudentID,
		router:  router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case welcome.ChosenMsg:
		m.student = msg.StudentID
		return m, m.router.Replace(subjects.New(m.deps.Services, msg.StudentID))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.PopCmd()
			}
			return m, nil
		case "q":
			if m.student != "" && m.router.Depth() == 1 {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if hp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = append(hints, hp.KeyHints()...)
	}
	if m.router.Depth() > 1 {
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	if m.student != "" {
		return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
	}
	return hints
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(strings.Join(m.router.Titles(), " › "), m.student, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
