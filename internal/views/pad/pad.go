// Package pad renders the controller snapshot: a row of buttons and one
// gauge per stick. Stick needles follow the reported position through a
// damped spring, so jittery feeds stay readable.
package pad

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/padview/padview/internal/controller"
	"github.com/padview/padview/internal/theme"
)

const (
	gaugeW = 15 // odd so there is a center column
	gaugeH = 7

	settleEpsilon = 0.002
)

// FrameMsg advances the needle animation.
type FrameMsg time.Time

type needle struct {
	x, xVel float64
	y, yVel float64
}

// Model holds the pad view state.
type Model struct {
	Width int

	snapshot  controller.Snapshot
	needles   []needle
	spring    harmonica.Spring
	fps       int
	animating bool
}

// New creates a pad view. The spring runs at fps with the given angular
// frequency and damping ratio.
func New(fps int, frequency, damping float64) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		fps:    fps,
	}
	m.SetSnapshot(controller.Initial())
	m.animating = false
	return m
}

// SetSnapshot replaces the displayed snapshot and starts the animation if it
// is not running.
func (m *Model) SetSnapshot(s controller.Snapshot) tea.Cmd {
	m.snapshot = s
	n := s.NumSticks()
	if len(m.needles) != n {
		resized := make([]needle, n)
		copy(resized, m.needles)
		m.needles = resized
	}
	if m.animating {
		return nil
	}
	m.animating = true
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Update steps the springs on FrameMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok {
		return m, nil
	}

	sticks := m.snapshot.Sticks()
	settled := true
	for i := range m.needles {
		if i >= len(sticks) {
			break
		}
		tx, ty := clamp(sticks[i].Position.X), clamp(sticks[i].Position.Y)
		n := &m.needles[i]
		n.x, n.xVel = m.spring.Update(n.x, n.xVel, tx)
		n.y, n.yVel = m.spring.Update(n.y, n.yVel, ty)
		if math.Abs(n.x-tx) > settleEpsilon || math.Abs(n.y-ty) > settleEpsilon ||
			math.Abs(n.xVel) > settleEpsilon || math.Abs(n.yVel) > settleEpsilon {
			settled = false
		}
	}

	if settled {
		m.animating = false
		return m, nil
	}
	return m, m.tick()
}

// Animating reports whether a frame tick is outstanding.
func (m Model) Animating() bool { return m.animating }

// View renders buttons then sticks.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	sections := []string{
		theme.StyleHeader.Render("  Buttons"),
		m.renderButtons(width),
		"",
		theme.StyleHeader.Render("  Sticks"),
		m.renderSticks(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderButtons(width int) string {
	buttons := m.snapshot.Buttons()
	if len(buttons) == 0 {
		return theme.StyleDimmed.Render("  No buttons")
	}

	var rows []string
	var row []string
	rowW := 2
	for _, b := range buttons {
		status := b.Status.String()
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.StatusColor(status)).
			Foreground(theme.StatusColor(status))
		if b.Status.Active() {
			style = style.Bold(true)
		}
		cell := style.Render(b.Name)
		w := lipgloss.Width(cell)
		if rowW+w > width && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowW = nil, 2
		}
		row = append(row, cell)
		rowW += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderSticks() string {
	sticks := m.snapshot.Sticks()
	if len(sticks) == 0 {
		return theme.StyleDimmed.Render("  No sticks")
	}

	gauges := make([]string, 0, len(sticks))
	for i, s := range sticks {
		var n needle
		if i < len(m.needles) {
			n = m.needles[i]
		}
		gauges = append(gauges, renderGauge(i, s, n))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinHorizontal(lipgloss.Top, gauges...))
}

func renderGauge(idx int, s controller.Stick, n needle) string {
	col := int(math.Round((clamp(n.x) + 1) / 2 * float64(gaugeW-1)))
	row := int(math.Round((1 - clamp(n.y)) / 2 * float64(gaugeH-1)))

	dot := lipgloss.NewStyle().Foreground(theme.StickColor(idx)).Bold(true).Render("●")
	var b strings.Builder
	for r := 0; r < gaugeH; r++ {
		for c := 0; c < gaugeW; c++ {
			switch {
			case r == row && c == col:
				b.WriteString(dot)
			case r == gaugeH/2 && c == gaugeW/2:
				b.WriteString(theme.StyleDimmed.Render("+"))
			case r == gaugeH/2:
				b.WriteString(theme.StyleDimmed.Render("·"))
			case c == gaugeW/2:
				b.WriteString(theme.StyleDimmed.Render("·"))
			default:
				b.WriteByte(' ')
			}
		}
		if r < gaugeH-1 {
			b.WriteByte('\n')
		}
	}

	title := lipgloss.NewStyle().Foreground(theme.StickColor(idx)).Bold(true).Render(s.Name)
	values := theme.StyleDimmed.Render(fmt.Sprintf("x=%+.2f y=%+.2f", s.Position.X, s.Position.Y))

	return theme.StyleBorder.
		Padding(0, 1).
		MarginRight(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, b.String(), values))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
