// Package feed serves synthetic gamepad telemetry over WebSocket so the
// viewer can be exercised without real hardware.
package feed

import (
	"encoding/json"
	"math"
)

// ButtonFrame is one button on the wire.
type ButtonFrame struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PositionFrame is a stick position on the wire.
type PositionFrame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StickFrame is one stick on the wire.
type StickFrame struct {
	Name     string        `json:"name"`
	Position PositionFrame `json:"position"`
}

// Frame is one telemetry message.
type Frame struct {
	Buttons []ButtonFrame `json:"buttons"`
	Sticks  []StickFrame  `json:"sticks"`
	Seq     uint64        `json:"seq"`
}

// malformedFrame keeps valid JSON but breaks the sticks contract, so viewers
// exercise their rejection path.
var malformedFrame = []byte(`{"buttons":[],"sticks":"not-an-array"}`)

// ticks each button stays down while the press walks across the pad
const pressTicks = 8

// Generator produces a deterministic sequence of frames: sticks trace
// circles at different speeds and one button at a time is pressed, then
// held, then released.
type Generator struct {
	buttons        []string
	sticks         []string
	malformedEvery int
	tick           uint64
}

// NewGenerator creates a generator for the named controls. When
// malformedEvery is positive every n-th frame is deliberately invalid.
func NewGenerator(buttons, sticks []string, malformedEvery int) *Generator {
	return &Generator{
		buttons:        buttons,
		sticks:         sticks,
		malformedEvery: malformedEvery,
	}
}

// Next returns the next encoded frame.
func (g *Generator) Next() []byte {
	g.tick++
	if g.malformedEvery > 0 && g.tick%uint64(g.malformedEvery) == 0 {
		return malformedFrame
	}
	data, _ := json.Marshal(g.frame(g.tick))
	return data
}

func (g *Generator) frame(tick uint64) Frame {
	f := Frame{
		Buttons: make([]ButtonFrame, 0, len(g.buttons)),
		Sticks:  make([]StickFrame, 0, len(g.sticks)),
		Seq:     tick,
	}

	active := -1
	phase := uint64(0)
	if n := uint64(len(g.buttons)); n > 0 {
		active = int((tick / pressTicks) % n)
		phase = tick % pressTicks
	}
	for i, name := range g.buttons {
		status := "released"
		if i == active {
			switch {
			case phase < 2:
				status = "pressed"
			case phase < pressTicks-2:
				status = "held"
			}
		}
		f.Buttons = append(f.Buttons, ButtonFrame{Name: name, Status: status})
	}

	for i, name := range g.sticks {
		speed := 0.05 * float64(i+1)
		angle := float64(tick)*speed + float64(i)*math.Pi/2
		radius := 0.5 + 0.5*math.Abs(math.Sin(float64(tick)*0.01))
		f.Sticks = append(f.Sticks, StickFrame{
			Name: name,
			Position: PositionFrame{
				X: round3(radius * math.Cos(angle)),
				Y: round3(radius * math.Sin(angle)),
			},
		})
	}
	return f
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
