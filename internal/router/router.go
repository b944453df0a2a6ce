// Package router keeps the stack of TUI screens: subjects at the bottom,
// level details pushed on top.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/admitflow/admitflow/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct{ Screen screen.Screen }

// PopScreenMsg closes the top screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen.
type ReplaceScreenMsg struct{ Screen screen.Screen }

// PushCmd returns a command that emits PushScreenMsg.
func PushCmd(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// PopCmd returns a command that emits PopScreenMsg.
func PopCmd() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Router owns the screen stack. It never becomes empty.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Active() screen.Screen { return r.stack[len(r.stack)-1] }
func (r *Router) Depth() int            { return len(r.stack) }

// Titles returns the non-empty screen titles from bottom to top.
func (r *Router) Titles() []string {
	var out []string
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Push opens s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen unless it is the root. A revealed
// screen.Refresher reloads, since the popped screen may have changed its
// data.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) == 1 {
		return nil
	}
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	if rf, ok := r.Active().(screen.Refresher); ok {
		return rf.Refresh()
	}
	return nil
}

// Replace swaps the top screen for s and runs its Init.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}
	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
