// Package screen defines what the router needs from a TUI screen: the
// welcome prompt, the subject tabs and the per-level detail view.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/admitflow/admitflow/internal/ui/layout"
)

// Screen is one page of the TUI. The app frame draws the header and footer
// around View, so a screen only renders its own body.
type Screen interface {
	// Init starts the screen's first load, e.g. reading the student's
	// attempt history.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body into width x height cells.
	View(width, height int) string

	// Title is the breadcrumb entry, such as "Physics · Hard". Empty titles
	// are left out of the header.
	Title() string
}

// KeyHintProvider lists the screen's own keys for the footer. The app
// appends Esc or q after them.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher is implemented by screens that show data another screen can
// change, like the subjects list after a level is scored. The router calls
// Refresh when the screen is revealed by a pop.
type Refresher interface {
	Refresh() tea.Cmd
}
