package pad

import (
	"strings"
	"testing"
	"time"

	"github.com/padview/padview/internal/controller"
)

func testSnapshot(x, y float64) controller.Snapshot {
	return controller.NewSnapshot(
		[]controller.Button{
			{Name: "A", Status: controller.Pressed},
			{Name: "Start", Status: controller.Released},
		},
		[]controller.Stick{{Name: "left", Position: controller.Position{X: x, Y: y}}},
	)
}

func TestNewIsIdle(t *testing.T) {
	m := New(30, 6, 0.8)
	if m.Animating() {
		t.Error("a fresh pad should not be animating")
	}
	v := m.View()
	for _, want := range []string{"A", "B", "X", "Y", "left", "right"} {
		if !strings.Contains(v, want) {
			t.Errorf("initial view missing %q", want)
		}
	}
}

func TestSetSnapshotStartsAnimationOnce(t *testing.T) {
	m := New(30, 6, 0.8)
	if cmd := m.SetSnapshot(testSnapshot(0.5, 0.5)); cmd == nil {
		t.Fatal("first snapshot should schedule a frame")
	}
	if cmd := m.SetSnapshot(testSnapshot(0.6, 0.5)); cmd != nil {
		t.Error("a running animation should not schedule a second frame")
	}
}

func TestSpringSettles(t *testing.T) {
	m := New(30, 6, 1.0)
	m.SetSnapshot(testSnapshot(1, -1))

	var frames int
	for m.Animating() && frames < 300 {
		m, _ = m.Update(FrameMsg(time.Now()))
		frames++
	}
	if m.Animating() {
		t.Fatalf("spring did not settle after %d frames", frames)
	}
	n := m.needles[0]
	if n.x < 0.99 || n.y > -0.99 {
		t.Errorf("needle settled at (%.3f, %.3f), want (1, -1)", n.x, n.y)
	}
}

func TestOutOfRangeIsClamped(t *testing.T) {
	m := New(30, 6, 1.0)
	m.SetSnapshot(testSnapshot(7, -3))
	for i := 0; i < 300 && m.Animating(); i++ {
		m, _ = m.Update(FrameMsg(time.Now()))
	}
	n := m.needles[0]
	if n.x > 1.001 || n.y < -1.001 {
		t.Errorf("needle left the gauge: (%.3f, %.3f)", n.x, n.y)
	}
	if v := m.View(); !strings.Contains(v, "x=+7.00") {
		t.Error("raw values should still be printed")
	}
}

func TestViewEmptySnapshot(t *testing.T) {
	m := New(30, 6, 0.8)
	m.SetSnapshot(controller.NewSnapshot(nil, nil))
	v := m.View()
	if !strings.Contains(v, "No buttons") || !strings.Contains(v, "No sticks") {
		t.Error("empty snapshot should show placeholders")
	}
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	m := New(30, 6, 0.8)
	m.SetSnapshot(testSnapshot(0.5, 0))
	_, cmd := m.Update("not a frame")
	if cmd != nil {
		t.Error("non-frame messages should be ignored")
	}
}
