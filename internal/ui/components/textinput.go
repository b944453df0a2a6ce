package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with AdmitFlow styling.
type TextInput struct {
	Model textinput.Model
	// Allow, when set, rejects typed characters it returns false for.
	Allow func(r rune) bool
	err   string
}

// NewTextInput creates a new styled, focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Allow != nil {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			for _, r := range kmsg.Text {
				if !t.Allow(r) {
					return t, nil
				}
			}
		}
	}

	t.err = ""
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input with any error below it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.err != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err)
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetError shows msg under the input until the next edit.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}
