// Package theme provides the Lip Gloss color palette and reusable styles
// for the padview TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Phase colors.
var (
	ColorIdle     = lipgloss.Color("#6b7280")
	ColorAwaiting = lipgloss.Color("#7c3aed")
	ColorOpen     = lipgloss.Color("#22c55e")
	ColorClosing  = lipgloss.Color("#d97706")
	ColorFailed   = lipgloss.Color("#dc2626")
)

// Button colors.
var (
	ColorReleased = lipgloss.Color("#4b5563")
	ColorPressed  = lipgloss.Color("#22c55e")
	ColorHeld     = lipgloss.Color("#f59e0b")
)

// Stick colors, cycled by stick index.
var StickColors = []lipgloss.Color{
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#a855f7"),
	lipgloss.Color("#06b6d4"),
	lipgloss.Color("#f43f5e"),
}

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorInfo    = lipgloss.Color("#2563eb")
)

// PhaseColor returns the color for a phase name.
func PhaseColor(phase string) lipgloss.Color {
	switch phase {
	case "idle":
		return ColorIdle
	case "awaiting":
		return ColorAwaiting
	case "open":
		return ColorOpen
	case "closing":
		return ColorClosing
	case "failed":
		return ColorFailed
	default:
		return ColorDimmed
	}
}

// PhaseGlyph returns a Unicode glyph for a phase name.
func PhaseGlyph(phase string) string {
	switch phase {
	case "idle":
		return "○"
	case "awaiting":
		return "◌"
	case "open":
		return "●"
	case "closing":
		return "◐"
	case "failed":
		return "✗"
	default:
		return "·"
	}
}

// StatusColor returns the color for a button status name.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "pressed":
		return ColorPressed
	case "held":
		return ColorHeld
	default:
		return ColorReleased
	}
}

// StickColor returns the color for the i-th stick.
func StickColor(i int) lipgloss.Color {
	return StickColors[i%len(StickColors)]
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
