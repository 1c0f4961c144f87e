// Package debug provides a scrollable event log overlay showing session
// transitions, ignored events, and decode failures.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/padview/padview/internal/theme"
)

// Entry kinds.
const (
	KindPhase   = "phs" // accepted phase change
	KindIgnored = "ign" // event that was a no-op
	KindDecode  = "dec" // rejected payload
	KindConn    = "ws"  // connection notification
	KindError   = "err"
)

const maxEntries = 500

// Entry is a single log line.
type Entry struct {
	At      time.Time
	Kind    string
	Message string
}

// Model holds the log buffer and scroll position.
type Model struct {
	entries []Entry
	offset  int // lines scrolled up from the newest entry
	now     func() time.Time
}

// New creates an empty log.
func New() Model {
	return Model{now: time.Now}
}

// Add appends an entry, dropping the oldest past the cap. Scroll position is
// kept pinned to the newest entry unless the user has scrolled up.
func (m *Model) Add(kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	m.entries = append(m.entries, Entry{At: now(), Kind: kind, Message: msg})
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	if m.offset > 0 {
		m.offset++
		m.clampOffset()
	}
}

// Len returns the number of buffered entries.
func (m Model) Len() int { return len(m.entries) }

// Entries returns a copy of the buffer, oldest first.
func (m Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Offset returns how far the view is scrolled up.
func (m Model) Offset() int { return m.offset }

// ScrollUp moves towards older entries.
func (m *Model) ScrollUp(n int) {
	m.offset += n
	m.clampOffset()
}

// ScrollDown moves towards newer entries.
func (m *Model) ScrollDown(n int) {
	m.offset -= n
	m.clampOffset()
}

func (m *Model) clampOffset() {
	if hi := len(m.entries) - 1; m.offset > hi {
		m.offset = hi
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the overlay within the given terminal size.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 30)
	rows := max(height-6, 3)

	title := theme.StyleHeader.Render(" EVENT LOG ")
	footer := theme.StyleDimmed.Render(fmt.Sprintf("j/k scroll · esc close · %d entries", len(m.entries)))

	panel := lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)

	if len(m.entries) == 0 {
		empty := theme.StyleDimmed.Render("  Nothing logged yet.")
		return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", empty, "", footer))
	}

	end := len(m.entries) - m.offset
	start := max(end-rows, 0)

	msgW := innerW - 22
	lines := make([]string, 0, end-start)
	for _, e := range m.entries[start:end] {
		ts := theme.StyleDimmed.Render(e.At.Format("15:04:05.000"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(e.Kind)
		msg := e.Message
		if msgW > 3 && len(msg) > msgW {
			msg = msg[:msgW-3] + "..."
		}
		lines = append(lines, ts+" "+kind+" "+msg)
	}

	more := ""
	if m.offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.offset))
	}

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, footer))
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case KindPhase:
		return theme.ColorOpen
	case KindConn:
		return theme.ColorInfo
	case KindDecode:
		return theme.ColorWarning
	case KindError:
		return theme.ColorDanger
	default:
		return theme.ColorDimmed
	}
}
