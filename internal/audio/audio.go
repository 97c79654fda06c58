// Package audio plays the game's sound cues.
package audio

import "sync"

// Cue names.
const (
	CueExplosion  = "explosion2"
	CueFire       = "tx0_fire1"
	CueHyperspace = "hyperspace_activate"
	CueEngine     = "engine_2"
)

// Player plays named cues. Calls are fire-and-forget.
type Player interface {
	PlayCue(name string)
}

// Nop discards every cue. SSH sessions use it since the server has no
// speaker the player can hear.
type Nop struct{}

func (Nop) PlayCue(string) {}

// Recording remembers cues in the order they were played.
type Recording struct {
	mu   sync.Mutex
	cues []string
}

func (r *Recording) PlayCue(name string) {
	r.mu.Lock()
	r.cues = append(r.cues, name)
	r.mu.Unlock()
}

// Cues returns a copy of the played cues.
func (r *Recording) Cues() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.cues...)
}

// Count returns how many times name was played.
func (r *Recording) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.cues {
		if c == name {
			n++
		}
	}
	return n
}

// Mutable forwards cues to a Player unless muted.
type Mutable struct {
	Player Player
	muted  bool
}

func (m *Mutable) PlayCue(name string) {
	if !m.muted {
		m.Player.PlayCue(name)
	}
}

// Toggle flips the mute state and returns the new one.
func (m *Mutable) Toggle() bool {
	m.muted = !m.muted
	return m.muted
}

// Muted reports whether cues are being dropped.
func (m *Mutable) Muted() bool { return m.muted }
