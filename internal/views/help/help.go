// Package help renders the help overlay: key bindings and the feed's wire
// format, written as markdown and rendered with Glamour.
package help

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/padview/padview/internal/theme"
)

// Binding is one row of the key table.
type Binding struct {
	Keys string
	Desc string
}

const wireFormat = "Each text frame is one JSON object:\n\n" +
	"```json\n" +
	`{"buttons": [{"name": "A", "status": "pressed"}],` + "\n" +
	` "sticks":  [{"name": "left", "position": {"x": 0.5, "y": -0.25}}]}` + "\n" +
	"```\n\n" +
	"`status` is one of `pressed`, `held` or `released` (a boolean also works). " +
	"Stick axes are shown clamped to **-1..1**. A frame that does not match is " +
	"counted as rejected and the last good snapshot stays on screen.\n"

// Model holds the rendered help text. Rendering is cached per width.
type Model struct {
	style    string
	bindings []Binding

	width    int
	rendered string
}

// New creates a help view. style is a Glamour standard style name such as
// "dark", "light" or "notty".
func New(style string, bindings []Binding) Model {
	if style == "" {
		style = "dark"
	}
	return Model{style: style, bindings: bindings}
}

// Markdown returns the source document.
func (m Model) Markdown() string {
	var b strings.Builder
	b.WriteString("# padview\n\n")
	b.WriteString("Type a `ws://` or `wss://` address and press **enter** to connect.\n\n")
	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, kb := range m.bindings {
		fmt.Fprintf(&b, "| `%s` | %s |\n", kb.Keys, kb.Desc)
	}
	b.WriteString("\n## Feed format\n\n")
	b.WriteString(wireFormat)
	return b.String()
}

// SetWidth re-renders the document for a new terminal width.
func (m *Model) SetWidth(width int) {
	if width == m.width && m.rendered != "" {
		return
	}
	m.width = width
	m.rendered = m.render(max(width-8, 40))
}

func (m Model) render(wrap int) string {
	md := m.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		log.Printf("help: renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("help: render: %v", err)
		return md
	}
	return out
}

// View renders the overlay panel.
func (m Model) View(width int) string {
	body := m.rendered
	if body == "" || width != m.width {
		body = m.render(max(width-8, 40))
	}
	return lipgloss.NewStyle().
		Width(max(width-4, 40)).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(strings.TrimRight(body, "\n") + "\n" + theme.StyleDimmed.Render("esc close"))
}
