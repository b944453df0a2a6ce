package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/admitflow/admitflow/internal/ui/theme"
)

const bannerArt = `
 ▄▀█ █▀▄ █▀▄▀█ █ ▀█▀ █▀▀ █   █▀█ █ █ █
 █▀█ █▄▀ █ ▀ █ █  █  █▀  █▄▄ █▄█ ▀▄▀▄▀`

const bannerCompact = "A D M I T F L O W"

// RenderBanner returns the ADMITFLOW banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 42 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 42 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
