package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/game"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestPressEmitsSingleDown(t *testing.T) {
	s := newStream()
	now := time.Now()

	feed(s, "aaa")
	events, quit := s.Poll(now)

	if quit {
		t.Fatal("unexpected quit")
	}
	if len(events) != 1 || events[0] != (Event{Key: game.KeyLeft, Down: true}) {
		t.Fatalf("events = %+v, want one left down", events)
	}
}

func TestRepeatKeepsKeyHeld(t *testing.T) {
	s := newStream()
	now := time.Now()

	feed(s, "d")
	s.Poll(now)
	feed(s, "d")
	events, _ := s.Poll(now.Add(keyHoldDuration / 2))
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none while repeating", events)
	}

	events, _ = s.Poll(now.Add(keyHoldDuration/2 + keyHoldDuration))
	if len(events) != 1 || events[0] != (Event{Key: game.KeyRight, Down: false}) {
		t.Fatalf("events = %+v, want right up", events)
	}
}

func TestArrowKeys(t *testing.T) {
	s := newStream()

	feed(s, "\x1b[D\x1b[C\x1b[A")
	events, _ := s.Poll(time.Now())

	want := []Event{{Key: game.KeyLeft, Down: true}, {Key: game.KeyRight, Down: true}}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestByteMapping(t *testing.T) {
	tests := []struct {
		in   byte
		want game.Key
	}{
		{'a', game.KeyLeft},
		{'J', game.KeyLeft},
		{'l', game.KeyRight},
		{' ', game.KeyFire},
		{'\r', game.KeyFire},
		{'p', game.KeyPause},
		{'\x1b', game.KeyPause},
		{'m', game.KeyMute},
		{'z', game.KeyNone},
	}
	for _, tt := range tests {
		if got := byteKey(tt.in); got != tt.want {
			t.Errorf("byteKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, in := range []string{"q", "Q", "\x03"} {
		s := newStream()
		feed(s, in)
		if _, quit := s.Poll(time.Now()); !quit {
			t.Errorf("%q did not quit", in)
		}
	}
}

func TestClosedReaderQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, quit := s.Poll(time.Now()); quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("closed reader never reported quit")
}

type recorder struct {
	down, up []game.Key
}

func (r *recorder) KeyDown(k game.Key) { r.down = append(r.down, k) }

func (r *recorder) KeyUp(k game.Key) { r.up = append(r.up, k) }

func TestApply(t *testing.T) {
	r := &recorder{}

	Apply(r, []Event{{Key: game.KeyFire, Down: true}, {Key: game.KeyFire, Down: false}})

	if len(r.down) != 1 || len(r.up) != 1 || r.down[0] != game.KeyFire {
		t.Errorf("recorder = %+v", r)
	}
}

func TestArrowSplitAcrossPolls(t *testing.T) {
	s := newStream()
	now := time.Now()

	feed(s, "\x1b")
	if events, _ := s.Poll(now); len(events) != 0 {
		t.Fatalf("events after ESC = %+v, want none yet", events)
	}
	feed(s, "[D")
	events, _ := s.Poll(now.Add(10 * time.Millisecond))
	if len(events) != 1 || events[0] != (Event{Key: game.KeyLeft, Down: true}) {
		t.Fatalf("events = %+v, want one left down", events)
	}

	feed(s, "\x1b[")
	if events, _ := s.Poll(now.Add(20 * time.Millisecond)); len(events) != 0 {
		t.Fatalf("events after ESC [ = %+v, want none yet", events)
	}
	feed(s, "D")
	events, _ = s.Poll(now.Add(30 * time.Millisecond))
	if len(events) != 0 {
		t.Fatalf("events = %+v, want left to stay held", events)
	}
	if !s.held[game.KeyLeft] || s.held[game.KeyRight] || s.held[game.KeyPause] {
		t.Errorf("held = %v, want only left", s.held)
	}
}

func TestLoneEscapePausesAfterHold(t *testing.T) {
	s := newStream()
	now := time.Now()

	feed(s, "\x1b")
	if events, _ := s.Poll(now); len(events) != 0 {
		t.Fatalf("events = %+v, want ESC held back", events)
	}
	if events, _ := s.Poll(now.Add(keyHoldDuration / 2)); len(events) != 0 {
		t.Fatalf("events = %+v, want ESC still held back", events)
	}
	events, _ := s.Poll(now.Add(keyHoldDuration))
	if len(events) != 1 || events[0] != (Event{Key: game.KeyPause, Down: true}) {
		t.Fatalf("events = %+v, want pause down", events)
	}
}

func TestEscapeBeforeOtherKeyPauses(t *testing.T) {
	s := newStream()

	feed(s, "\x1bm")
	events, _ := s.Poll(time.Now())

	want := []Event{{Key: game.KeyPause, Down: true}, {Key: game.KeyMute, Down: true}}
	if len(events) != len(want) || events[0] != want[0] || events[1] != want[1] {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
}
