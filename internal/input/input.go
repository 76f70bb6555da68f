// Package input turns a raw terminal byte stream into game key events.
//
// Terminals report key presses only, never releases. A key counts as held
// while its bytes keep arriving within the hold window (auto-repeat), and is
// released once the window passes without a repeat.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/invaders/internal/game"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// It has to outlast the auto-repeat interval of common terminals.
const keyHoldDuration = 60 * time.Millisecond

// keyCount bounds the key table. It must exceed every game.Key value mapped below.
const keyCount = 8

// Event is a key transition delivered to the game.
type Event struct {
	Key  game.Key
	Down bool
}

// Stream delivers input bytes via a channel and tracks key state between polls.
type Stream struct {
	ch     chan byte
	closed bool

	lastSeen [keyCount]time.Time
	held     [keyCount]bool
	hold     time.Duration

	// partial is a trailing ESC or ESC [ kept until the rest of the sequence
	// arrives or the hold window passes, when it counts as a lone ESC.
	partial   []byte
	partialAt time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream reports quit once r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:   make(chan byte, 128),
		hold: keyHoldDuration,
	}
}

// Poll drains all available bytes without blocking and returns the key
// transitions since the previous call. quit is set for q, Ctrl-C or a closed reader.
func (s *Stream) Poll(now time.Time) (events []Event, quit bool) {
	buf, open := s.drain()
	if !open {
		quit = true
	}
	if len(s.partial) > 0 {
		buf = append(s.partial, buf...)
		s.partial = nil
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if open && csiPrefix(buf[i:]) {
				if s.partialAt.IsZero() {
					s.partialAt = now
				}
				if now.Sub(s.partialAt) < s.hold {
					s.partial = append([]byte(nil), buf[i:]...)
					break
				}
			}
			s.partialAt = time.Time{}

			// CSI sequence: ESC [ <code>
			if i+2 < len(buf) && buf[i+1] == '[' {
				if k := arrowKey(buf[i+2]); k != game.KeyNone {
					s.press(k, now, &events)
				}
				i += 2
				continue
			}
		}

		if isQuit(b) {
			quit = true
			continue
		}
		if k := byteKey(b); k != game.KeyNone {
			s.press(k, now, &events)
		}
	}

	for k := range s.held {
		if s.held[k] && now.Sub(s.lastSeen[k]) >= s.hold {
			s.held[k] = false
			events = append(events, Event{Key: game.Key(k), Down: false})
		}
	}
	return events, quit
}

// drain collects every byte queued so far. open is false once the reader is gone.
func (s *Stream) drain() (buf []byte, open bool) {
	if s.closed {
		return nil, false
	}
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf, false
			}
			buf = append(buf, b)
		default:
			return buf, true
		}
	}
}

// csiPrefix reports whether b is ESC or ESC [ with nothing after it.
func csiPrefix(b []byte) bool {
	return len(b) == 1 || (len(b) == 2 && b[1] == '[')
}

func (s *Stream) press(k game.Key, now time.Time, events *[]Event) {
	s.lastSeen[k] = now
	if !s.held[k] {
		s.held[k] = true
		*events = append(*events, Event{Key: k, Down: true})
	}
}

func arrowKey(code byte) game.Key {
	switch code {
	case 'C':
		return game.KeyRight
	case 'D':
		return game.KeyLeft
	}
	return game.KeyNone
}

func byteKey(b byte) game.Key {
	switch b {
	case 'a', 'A', 'j', 'J', 'h', 'H':
		return game.KeyLeft
	case 'd', 'D', 'l', 'L':
		return game.KeyRight
	case ' ', '\n', '\r':
		return game.KeyFire
	case 'p', 'P', '\x1b':
		return game.KeyPause
	case 'm', 'M':
		return game.KeyMute
	}
	return game.KeyNone
}

func isQuit(b byte) bool {
	return b == 'q' || b == 'Q' || b == '\x03'
}

// KeyReceiver accepts key transitions, typically a *game.Machine.
type KeyReceiver interface {
	KeyDown(k game.Key)
	KeyUp(k game.Key)
}

// Apply forwards events to m in order.
func Apply(m KeyReceiver, events []Event) {
	for _, e := range events {
		if e.Down {
			m.KeyDown(e.Key)
		} else {
			m.KeyUp(e.Key)
		}
	}
}
