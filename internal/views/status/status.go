package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/padview/padview/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Phase    string // phase name, e.g. "open"
	Address  string
	Reason   string // set while failed
	Spinner  string // rendered spinner frame while awaiting
	Received int
	Rejected int
	Width    int
}

// New creates a status bar model.
func New() Model {
	return Model{Phase: "idle"}
}

// SetCounts updates the frame counters.
func (m *Model) SetCounts(received, rejected int) {
	m.Received = received
	m.Rejected = rejected
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	color := theme.PhaseColor(m.Phase)
	glyph := theme.PhaseGlyph(m.Phase)
	if m.Phase == "awaiting" && m.Spinner != "" {
		glyph = m.Spinner
	}

	var label string
	switch m.Phase {
	case "idle":
		label = "Disconnected"
	case "awaiting":
		label = "Connecting..."
	case "open":
		label = "Connected"
	case "closing":
		label = "Closing..."
	case "failed":
		label = "Failed"
	default:
		label = m.Phase
	}
	connStr := lipgloss.NewStyle().Foreground(color).Render(glyph + " " + label)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr

	if m.Address != "" && m.Phase != "idle" {
		content += sep + theme.StyleDimmed.Render(m.Address)
	}

	counts := fmt.Sprintf("%d frames", m.Received)
	if m.Rejected > 0 {
		counts += "  " + lipgloss.NewStyle().Foreground(theme.ColorWarning).
			Render(fmt.Sprintf("%d rejected", m.Rejected))
	}
	content += sep + counts

	if m.Phase == "failed" && m.Reason != "" {
		content += "\n" + theme.StyleError.Render(m.Reason)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
