package debug

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestAddFormats(t *testing.T) {
	m := New()
	m.now = fixedClock()
	m.Add(KindPhase, "idle -> %s", "awaiting")
	m.Add(KindError, "socket closed")

	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Message != "idle -> awaiting" {
		t.Errorf("message = %q", got[0].Message)
	}
	if got[1].Message != "socket closed" {
		t.Errorf("message = %q", got[1].Message)
	}
	if !got[0].At.Equal(fixedClock()()) {
		t.Errorf("entry time = %v", got[0].At)
	}
}

func TestCap(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+25; i++ {
		m.Add(KindConn, "frame %d", i)
	}
	if m.Len() != maxEntries {
		t.Fatalf("expected %d entries, got %d", maxEntries, m.Len())
	}
	if first := m.Entries()[0].Message; first != "frame 25" {
		t.Errorf("oldest entry = %q, want frame 25", first)
	}
}

func TestScroll(t *testing.T) {
	tests := []struct {
		name    string
		entries int
		up      int
		down    int
		want    int
	}{
		{"up then down", 20, 5, 3, 2},
		{"down past bottom", 20, 2, 10, 0},
		{"up past top", 5, 100, 0, 4},
		{"empty log", 0, 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for i := 0; i < tt.entries; i++ {
				m.Add(KindConn, "x")
			}
			m.ScrollUp(tt.up)
			m.ScrollDown(tt.down)
			if m.Offset() != tt.want {
				t.Errorf("offset = %d, want %d", m.Offset(), tt.want)
			}
		})
	}
}

func TestAddKeepsScrolledPosition(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add(KindConn, "x")
	}
	m.Add(KindConn, "y")
	if m.Offset() != 0 {
		t.Fatal("log at bottom should stay at bottom")
	}

	m.ScrollUp(3)
	m.Add(KindConn, "z")
	if m.Offset() != 4 {
		t.Errorf("scrolled log should stay on the same entries, offset = %d", m.Offset())
	}
}

func TestView(t *testing.T) {
	m := New()
	if v := m.View(80, 20); !strings.Contains(v, "Nothing logged") {
		t.Error("empty view should say nothing was logged")
	}

	m.Add(KindPhase, "awaiting -> open")
	m.Add(KindDecode, "decode buttons[0].status: missing")
	v := m.View(100, 20)
	for _, want := range []string{"awaiting -> open", "buttons[0].status", "2 entries"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
