package metrics

import (
	"sync"
	"time"
)

// Stats is the public summary served to the landing page.
type Stats struct {
	ActiveGames  int       `json:"active_games"`
	GamesPlayed  int       `json:"games_played"`
	BestScore    int       `json:"best_score"`
	BestLevel    int       `json:"best_level"`
	LastGameOver time.Time `json:"last_game_over,omitzero"`
}

// Board aggregates results across every session. Safe for concurrent use.
type Board struct {
	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Snapshot returns the current stats.
func (b *Board) Snapshot() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Board) gameStarted() {
	b.mu.Lock()
	b.stats.ActiveGames++
	b.mu.Unlock()
}

func (b *Board) gameEnded(points, level int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stats.ActiveGames > 0 {
		b.stats.ActiveGames--
	}
	b.stats.GamesPlayed++
	b.stats.BestScore = max(b.stats.BestScore, points)
	b.stats.BestLevel = max(b.stats.BestLevel, level)
	b.stats.LastGameOver = b.now()
}

func (b *Board) levelReached(level int) {
	b.mu.Lock()
	b.stats.BestLevel = max(b.stats.BestLevel, level)
	b.mu.Unlock()
}
