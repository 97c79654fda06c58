package input

import (
	"strings"
	"testing"
	"time"
)

func feed(s *Stream, bytes string) {
	for i := range len(bytes) {
		s.ch <- bytes[i]
	}
}

func TestHeldKeysExpire(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	feed(s, "w ")
	in := s.Read(now)
	if !in.Up || !in.Fire {
		t.Fatalf("keys not held: %+v", in)
	}

	in = s.Read(now.Add(keyHoldDuration / 2))
	if !in.Up || !in.Fire {
		t.Errorf("keys released too early: %+v", in)
	}

	in = s.Read(now.Add(keyHoldDuration))
	if in.Up || in.Fire {
		t.Errorf("keys still held after hold duration: %+v", in)
	}
}

func TestArrowKeys(t *testing.T) {
	s := newStream()
	feed(s, "\x1b[A\x1b[B\x1b[C\x1b[D")
	in := s.Read(time.Unix(1, 0))
	if !in.Up || !in.Down || !in.Left || !in.Right {
		t.Errorf("arrows not parsed: %+v", in)
	}
	if in.Quit || in.Restart {
		t.Errorf("arrow bytes leaked into other keys: %+v", in)
	}
}

func TestEdgeTriggeredKeys(t *testing.T) {
	s := newStream()
	now := time.Unix(1, 0)

	feed(s, "r\tm\r")
	in := s.Read(now)
	if !in.Restart || !in.ToggleHUD || !in.Mute || !in.Start {
		t.Fatalf("edge keys missing: %+v", in)
	}

	in = s.Read(now)
	if in.Restart || in.ToggleHUD || in.Mute || in.Start {
		t.Errorf("edge keys repeated on next frame: %+v", in)
	}
}

func TestQuitAndClose(t *testing.T) {
	s := StartStream(strings.NewReader("q"))
	deadline := time.Now().Add(time.Second)
	var sawQuit, sawClosed bool
	for time.Now().Before(deadline) && !(sawQuit && sawClosed) {
		in := s.Read(time.Now())
		sawQuit = sawQuit || in.Quit
		sawClosed = sawClosed || in.Closed
		time.Sleep(time.Millisecond)
	}
	if !sawQuit {
		t.Error("quit not reported")
	}
	if !sawClosed {
		t.Error("closed not reported")
	}
}

func TestReset(t *testing.T) {
	s := newStream()
	now := time.Unix(1, 0)
	feed(s, "d")
	s.Read(now)
	s.Reset()
	if in := s.Read(now); in.Right {
		t.Error("held key survived Reset")
	}
}
