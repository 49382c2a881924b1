package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

//nolint:gochecknoglobals // Palette constants.
var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")
)

// palette holds styles bound to one renderer.
type palette struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	muted lipgloss.Style
	warn  lipgloss.Style
	crit  lipgloss.Style
	panel lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	return palette{
		title: r.NewStyle().Bold(true).Foreground(colorCyan),
		label: r.NewStyle().Foreground(colorGray),
		value: r.NewStyle().Foreground(colorWhite),
		ok:    r.NewStyle().Foreground(colorGreen).Bold(true),
		muted: r.NewStyle().Foreground(colorGray).Bold(true),
		warn:  r.NewStyle().Foreground(colorYellow).Bold(true),
		crit:  r.NewStyle().Foreground(colorRed).Bold(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1),
	}
}

func (p palette) tone(t analytics.Tone) lipgloss.Style {
	switch t {
	case analytics.ToneBad:
		return p.crit
	case analytics.ToneMuted:
		return p.muted
	default:
		return p.ok
	}
}

func (p palette) severity(s analytics.Severity) lipgloss.Style {
	switch s {
	case analytics.SeverityCritical:
		return p.crit
	case analytics.SeverityWarning:
		return p.warn
	default:
		return p.ok
	}
}

func (p palette) border(s analytics.Severity) lipgloss.Color {
	switch s {
	case analytics.SeverityCritical:
		return colorRed
	case analytics.SeverityWarning:
		return colorYellow
	default:
		return colorGray
	}
}
