package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm blues with clear status colors
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Level statuses.
	Completed = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Current = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	TabActive = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Padding(0, 2)

	TabLocked = lipgloss.NewStyle().
			Foreground(Border).
			Padding(0, 2)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(Border).
			Strikethrough(true).
			Padding(0, 2)
)
