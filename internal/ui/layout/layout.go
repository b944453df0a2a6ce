package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HintsFromBindings builds footer hints from enabled key bindings.
func HintsFromBindings(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("AdmitFlow needs a %dx%d terminal.\nThis one is %dx%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// bar is the rounded box shared by header and footer.
func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader renders the brand on the left, title centred and the signed
// in student on the right. student may be empty.
func RenderHeader(title, student string, width int) string {
	inner := max(width-4, 0)

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" AdmitFlow")
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	who := ""
	if student != "" {
		who = lipgloss.NewStyle().Foreground(theme.TextDim).Render("student ") +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(student)
	}

	bw, nw, ww := lipgloss.Width(brand), lipgloss.Width(name), lipgloss.Width(who)
	if bw+nw+ww+2 > inner {
		return bar(width, brand+" "+name)
	}
	gapL := max((inner-nw)/2-bw, 1)
	gapR := max(inner-bw-gapL-nw-ww, 1)
	return bar(width, brand+strings.Repeat(" ", gapL)+name+strings.Repeat(" ", gapR)+who)
}

// RenderFooter renders key hints as "Key Description" pairs.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return bar(width, " "+strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving content whatever
// height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
