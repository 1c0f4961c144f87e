package session

import (
	"errors"
	"testing"

	"github.com/padview/padview/internal/controller"
)

type testHandle struct{ id string }

func (h testHandle) ID() string      { return h.id }
func (h testHandle) Address() string { return "ws://test.local" }

func sampleSnapshot() controller.Snapshot {
	return controller.NewSnapshot(
		[]controller.Button{{Name: "A", Status: controller.Pressed}},
		[]controller.Stick{{Name: "left", Position: controller.Position{X: 0.5, Y: -0.5}}},
	)
}

func withPhase(p Phase) Session {
	s := New()
	s.Phase = p
	return s
}

func TestNewSession(t *testing.T) {
	s := New()
	if _, ok := s.Phase.(Idle); !ok {
		t.Errorf("initial phase = %v, want idle", s.Phase.Kind())
	}
	if s.Address != "" {
		t.Errorf("initial address = %q, want empty", s.Address)
	}
	if !s.Snapshot.Equal(controller.Initial()) {
		t.Error("initial snapshot should be the neutral pad")
	}
}

func TestConnectRequested(t *testing.T) {
	h := testHandle{"h1"}
	tests := []struct {
		name string
		from Phase
		want PhaseKind
	}{
		{"idle → awaiting", Idle{}, KindAwaiting},
		{"failed → awaiting", Failed{Reason: "refused"}, KindAwaiting},
		{"awaiting no-op", Awaiting{}, KindAwaiting},
		{"open no-op", Open{Handle: h}, KindOpen},
		{"closing no-op", Closing{Handle: h}, KindClosing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(withPhase(tt.from), ConnectRequested{})
			if got.Phase.Kind() != tt.want {
				t.Errorf("phase = %v, want %v", got.Phase.Kind(), tt.want)
			}
		})
	}
}

func TestConnectRequestedFromOpenKeepsHandle(t *testing.T) {
	h := testHandle{"h1"}
	got := Transition(withPhase(Open{Handle: h}), ConnectRequested{})
	if !SamePhase(got.Phase, Open{Handle: h}) {
		t.Errorf("phase = %#v, want Open(h1)", got.Phase)
	}
}

func TestFullLifecycle(t *testing.T) {
	h := testHandle{"h1"}
	events := []Event{
		ConnectRequested{},
		ConnectSucceeded{Handle: h},
		DisconnectRequested{},
		CloseCompleted{},
	}
	want := []PhaseKind{KindAwaiting, KindOpen, KindClosing, KindIdle}

	s := New()
	got := []PhaseKind{}
	for _, e := range events {
		s = Transition(s, e)
		got = append(got, s.Phase.Kind())
	}

	if len(got) != len(want) {
		t.Fatalf("got %d phases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: phase = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClosingRetainsHandle(t *testing.T) {
	h := testHandle{"h1"}
	s := Transition(withPhase(Open{Handle: h}), DisconnectRequested{})
	c, ok := s.Phase.(Closing)
	if !ok {
		t.Fatalf("phase = %v, want closing", s.Phase.Kind())
	}
	if c.Handle.ID() != "h1" {
		t.Errorf("closing handle = %s, want h1", c.Handle.ID())
	}
}

func TestConnectFailed(t *testing.T) {
	s := Transition(withPhase(Awaiting{}), ConnectFailed{Reason: "connection refused"})
	f, ok := s.Phase.(Failed)
	if !ok {
		t.Fatalf("phase = %v, want failed", s.Phase.Kind())
	}
	if f.Reason != "connection refused" {
		t.Errorf("reason = %q", f.Reason)
	}
}

func TestStaleResults(t *testing.T) {
	h := testHandle{"late"}
	tests := []struct {
		name  string
		from  Phase
		event Event
	}{
		{"success while failed", Failed{Reason: "refused"}, ConnectSucceeded{Handle: h}},
		{"success while idle", Idle{}, ConnectSucceeded{Handle: h}},
		{"success while open", Open{Handle: testHandle{"cur"}}, ConnectSucceeded{Handle: h}},
		{"failure while open", Open{Handle: testHandle{"cur"}}, ConnectFailed{Reason: "slow"}},
		{"failure while idle", Idle{}, ConnectFailed{Reason: "slow"}},
		{"close completed while open", Open{Handle: testHandle{"cur"}}, CloseCompleted{}},
		{"close completed for other handle", Closing{Handle: testHandle{"cur"}}, CloseCompleted{Handle: h}},
		{"lost for other handle", Open{Handle: testHandle{"cur"}}, ConnectionLost{Handle: h, Reason: "eof"}},
		{"lost while idle", Idle{}, ConnectionLost{Handle: h, Reason: "eof"}},
		{"disconnect while awaiting", Awaiting{}, DisconnectRequested{}},
		{"disconnect while idle", Idle{}, DisconnectRequested{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := withPhase(tt.from)
			after := Transition(before, tt.event)
			if !SamePhase(before.Phase, after.Phase) {
				t.Errorf("phase changed from %v to %v", before.Phase.Kind(), after.Phase.Kind())
			}
			if !after.Snapshot.Equal(before.Snapshot) {
				t.Error("snapshot changed")
			}
		})
	}
}

func TestConnectionLost(t *testing.T) {
	h := testHandle{"h1"}

	s := Transition(withPhase(Open{Handle: h}), ConnectionLost{Handle: h, Reason: "closed by peer (1001)"})
	if f, ok := s.Phase.(Failed); !ok || f.Reason != "closed by peer (1001)" {
		t.Errorf("open + lost: phase = %#v, want Failed", s.Phase)
	}

	s = Transition(withPhase(Closing{Handle: h}), ConnectionLost{Handle: h, Reason: "eof"})
	if _, ok := s.Phase.(Idle); !ok {
		t.Errorf("closing + lost: phase = %v, want idle", s.Phase.Kind())
	}
}

func TestAddressChangedAnyPhase(t *testing.T) {
	h := testHandle{"h1"}
	for _, p := range []Phase{Idle{}, Awaiting{}, Open{Handle: h}, Closing{Handle: h}, Failed{Reason: "x"}} {
		s := Transition(withPhase(p), AddressChanged{Text: "ws://pad.local:8765"})
		if s.Address != "ws://pad.local:8765" {
			t.Errorf("%v: address = %q", p.Kind(), s.Address)
		}
		if !SamePhase(s.Phase, p) {
			t.Errorf("%v: phase changed to %v", p.Kind(), s.Phase.Kind())
		}
	}
}

func TestPayloadReceived(t *testing.T) {
	h := testHandle{"h1"}
	s := withPhase(Open{Handle: h})

	s = Transition(s, PayloadReceived{Snapshot: sampleSnapshot()})
	if !s.Snapshot.Equal(sampleSnapshot()) {
		t.Fatal("successful payload should replace the snapshot")
	}
	if s.Phase.Kind() != KindOpen {
		t.Errorf("phase = %v, want open", s.Phase.Kind())
	}

	snap, err := controller.DecodeJSON([]byte(`{"buttons":[],"sticks":"not-an-array"}`))
	before := s
	s = Transition(s, PayloadReceived{Snapshot: snap, Err: err})
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if !s.Snapshot.Equal(before.Snapshot) {
		t.Error("failed payload must keep the previous snapshot")
	}
}

func TestPayloadReceivedErrorIgnoresSnapshot(t *testing.T) {
	s := New()
	s = Transition(s, PayloadReceived{Snapshot: sampleSnapshot(), Err: errors.New("bad frame")})
	if !s.Snapshot.Equal(controller.Initial()) {
		t.Error("a payload carrying an error must never replace the snapshot")
	}
}

func TestAccepted(t *testing.T) {
	s := New()
	next := Transition(s, ConnectRequested{})
	if !Accepted(s, next, ConnectRequested{}) {
		t.Error("idle → awaiting should be accepted")
	}
	again := Transition(next, ConnectRequested{})
	if Accepted(next, again, ConnectRequested{}) {
		t.Error("connect while awaiting should be reported as ignored")
	}
}

func TestPhaseKindString(t *testing.T) {
	tests := map[PhaseKind]string{
		KindIdle:      "idle",
		KindAwaiting:  "awaiting",
		KindOpen:      "open",
		KindClosing:   "closing",
		KindFailed:    "failed",
		PhaseKind(42): "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("PhaseKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestHandleOf(t *testing.T) {
	h := testHandle{"h1"}
	if HandleOf(Idle{}) != nil || HandleOf(Awaiting{}) != nil || HandleOf(Failed{}) != nil {
		t.Error("only open and closing carry a handle")
	}
	if HandleOf(Open{Handle: h}).ID() != "h1" || HandleOf(Closing{Handle: h}).ID() != "h1" {
		t.Error("open/closing should expose their handle")
	}
}
