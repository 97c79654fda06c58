// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"io"
	"time"
)

// keyHoldDuration is how long a key is considered held after its last press.
// Terminals only report repeats, so a held key shows up as a byte stream.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	// Held keys.
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Fire  bool

	// Edge-triggered: true only on the frame the byte arrived.
	Quit      bool
	Restart   bool
	ToggleHUD bool
	Start     bool
	Mute      bool

	// Closed is set once the underlying reader has ended.
	Closed bool
}

// Moving reports whether any movement key is held.
func (in Input) Moving() bool {
	return in.Up || in.Down || in.Left || in.Right
}

type keyState struct {
	up    time.Time
	down  time.Time
	left  time.Time
	right time.Time
	fire  time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	state  keyState
	buf    []byte
	closed bool
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r io.Reader) *Stream {
	s := newStream()
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	go func() {
		for {
			b, err := br.ReadByte()
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
	return &Stream{ch: make(chan byte, 128)}
}

// Read drains all available bytes without blocking and returns the key
// state as of now.
func (s *Stream) Read(now time.Time) Input {
	buf := s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	s.buf = buf

	var in Input
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		// CSI arrow keys: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		s.apply(&in, b, now)
	}

	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Fire = now.Sub(s.state.fire) < keyHoldDuration
	in.Closed = s.closed
	return in
}

// Reset forgets held keys, e.g. after a restart.
func (s *Stream) Reset() {
	s.state = keyState{}
}

func (s *Stream) apply(in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case 'w', 'W', 'k', 'K':
		s.state.up = now
	case 's', 'S', 'j', 'J':
		s.state.down = now
	case 'a', 'A', 'h', 'H':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case ' ':
		s.state.fire = now
	case 'r', 'R':
		in.Restart = true
	case '\t':
		in.ToggleHUD = true
	case 'm', 'M':
		in.Mute = true
	case '\n', '\r':
		in.Start = true
	}
}

// Any reports whether a key was pressed or is held.
func (in Input) Any() bool {
	return in.Moving() || in.Fire || in.Quit || in.Restart || in.ToggleHUD || in.Start || in.Mute
}
