// Package controller holds the gamepad snapshot model and the decoder that
// turns inbound telemetry frames into snapshots.
package controller

import (
	"slices"
	"strings"
)

// Status is the state of a single button.
type Status int

const (
	Released Status = iota
	Pressed
	Held
)

var statusNames = map[Status]string{
	Released: "released",
	Pressed:  "pressed",
	Held:     "held",
}

var statusFromName = map[string]Status{
	"released": Released,
	"up":       Released,
	"off":      Released,
	"pressed":  Pressed,
	"down":     Pressed,
	"on":       Pressed,
	"held":     Held,
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Active reports whether the button is down in any way.
func (s Status) Active() bool {
	return s == Pressed || s == Held
}

// ParseStatus maps a wire status string to a Status.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusFromName[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// Button is one named button.
type Button struct {
	Name   string
	Status Status
}

// Position is a stick deflection. Devices usually report [-1, 1] per axis.
type Position struct {
	X float64
	Y float64
}

// Stick is one named analog stick.
type Stick struct {
	Name     string
	Position Position
}

// Snapshot is an immutable view of a controller at one instant. The zero
// value has no buttons and no sticks; use Initial for the neutral pad.
type Snapshot struct {
	buttons []Button
	sticks  []Stick
}

// NewSnapshot copies the given sequences into a new snapshot.
func NewSnapshot(buttons []Button, sticks []Stick) Snapshot {
	return Snapshot{
		buttons: slices.Clone(buttons),
		sticks:  slices.Clone(sticks),
	}
}

// Initial returns the neutral snapshot shown before any frame arrives.
func Initial() Snapshot {
	return NewSnapshot(
		[]Button{
			{Name: "A", Status: Released},
			{Name: "B", Status: Released},
			{Name: "X", Status: Released},
			{Name: "Y", Status: Released},
		},
		[]Stick{
			{Name: "left"},
			{Name: "right"},
		},
	)
}

// Buttons returns the buttons in wire order.
func (s Snapshot) Buttons() []Button { return slices.Clone(s.buttons) }

// Sticks returns the sticks in wire order. The first stick is conventionally
// the left one.
func (s Snapshot) Sticks() []Stick { return slices.Clone(s.sticks) }

// NumButtons returns the number of buttons.
func (s Snapshot) NumButtons() int { return len(s.buttons) }

// NumSticks returns the number of sticks.
func (s Snapshot) NumSticks() int { return len(s.sticks) }

// Equal reports whether two snapshots hold the same buttons and sticks in the
// same order.
func (s Snapshot) Equal(o Snapshot) bool {
	return slices.Equal(s.buttons, o.buttons) && slices.Equal(s.sticks, o.sticks)
}
