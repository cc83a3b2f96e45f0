// Package styles provides shared lipgloss styles for the CLI's tables,
// prompts and status lines.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme.
var Primary, Accent, Success, Error, Muted, Warning color.Color

// Styles derived from the active theme. Init rebuilds them.
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle lipgloss.Style
	AccentStyle  lipgloss.Style // bold
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	// KeyBox frames a public key so it is easy to select and copy.
	KeyBox lipgloss.Style
)

func init() {
	applyTheme(DefaultTheme)
}

func applyTheme(t Theme) {
	Primary, Accent, Success, Error, Muted, Warning = t.Primary, t.Accent, t.Success, t.Error, t.Muted, t.Warning

	fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	PrimaryStyle = fg(t.Primary)
	AccentStyle = fg(t.Accent).Bold(true)
	SuccessStyle = fg(t.Success)
	ErrorStyle = fg(t.Error)
	MutedStyle = fg(t.Muted)
	WarningStyle = fg(t.Warning)
	KeyBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
}
