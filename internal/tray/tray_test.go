package tray

import "testing"

func TestDispatchRouting(t *testing.T) {
	var fired []string
	opts := Options{
		OnShow:   func() { fired = append(fired, "show") },
		OnHide:   func() { fired = append(fired, "hide") },
		OnToggle: func() { fired = append(fired, "toggle") },
		OnQuit:   func() { fired = append(fired, "quit") },
	}

	tests := []struct {
		event Event
		want  string
	}{
		{EventShow, "show"},
		{EventHide, "hide"},
		{EventToggle, "toggle"},
		{EventQuit, "quit"},
	}

	for _, tt := range tests {
		fired = fired[:0]
		opts.Dispatch(tt.event)
		if len(fired) != 1 || fired[0] != tt.want {
			t.Errorf("Dispatch(%v) fired %v, want [%s]", tt.event, fired, tt.want)
		}
	}
}

func TestDispatchNilHandlers(t *testing.T) {
	var opts Options
	// Must not panic with no handlers wired.
	opts.Dispatch(EventShow)
	opts.Dispatch(EventHide)
	opts.Dispatch(EventToggle)
	opts.Dispatch(EventQuit)
}

func TestDispatchUnknownEvent(t *testing.T) {
	opts := Options{
		OnShow: func() { t.Error("unknown event must not fire a handler") },
		OnQuit: func() { t.Error("unknown event must not fire a handler") },
	}
	opts.Dispatch(Event(99))
}

func TestQuitFiresRegardlessOfOtherHandlers(t *testing.T) {
	quit := 0
	opts := Options{OnQuit: func() { quit++ }}

	// Quit works even when show/hide handlers are absent.
	opts.Dispatch(EventQuit)
	opts.Dispatch(EventQuit)
	if quit != 2 {
		t.Errorf("quit fired %d times, want 2", quit)
	}
}
