// Package score tracks points, counters and the difficulty curve of a game.
package score

import "github.com/tomz197/spaceshooter/internal/config"

// Rules are the fixed parameters of scoring and level progression.
type Rules struct {
	SecondsPerLevel         int
	AsteroidTimeDecrease    float64
	MinTimeBetweenAsteroids float64
	AsteroidSpeedIncrease   float64
	PerimeterSpeedIncrease  float64
	AsteroidPassedPenalty   int
	AsteroidHitBonus        int
	ShotFiredPenalty        int
}

// Difficulty holds the tunables that LevelUp moves.
type Difficulty struct {
	TimeBetweenAsteroids     float64 // milliseconds
	AsteroidMinSpeed         float64
	AsteroidMaxSpeed         float64
	PerimeterSpeedAdjustment float64
}

// State is the score and difficulty of one game. Points never go below zero.
type State struct {
	rules   Rules
	initial Difficulty
	current Difficulty

	points int
	level  int
	hits   int
	misses int
	shots  int
}

// New returns a level 1 state. initial is captured and restored by Reset.
func New(rules Rules, initial Difficulty) *State {
	return &State{
		rules:   rules,
		initial: initial,
		current: initial,
		level:   1,
	}
}

// FromConfig builds a State from the game configuration.
func FromConfig(cfg config.Config) *State {
	l := cfg.Levels
	return New(Rules{
		SecondsPerLevel:         l.SecondsPerLevel,
		AsteroidTimeDecrease:    l.AsteroidTimeDecrease,
		MinTimeBetweenAsteroids: l.MinTimeBetweenAsteroids,
		AsteroidSpeedIncrease:   l.AsteroidSpeedIncrease,
		PerimeterSpeedIncrease:  l.PerimeterSpeedIncrease,
		AsteroidPassedPenalty:   l.AsteroidPassedPenalty,
		AsteroidHitBonus:        l.AsteroidHitBonus,
		ShotFiredPenalty:        l.ShotFiredPenalty,
	}, Difficulty{
		TimeBetweenAsteroids:     cfg.Asteroids.TimeBetweenAsteroids,
		AsteroidMinSpeed:         cfg.Asteroids.MinSpeed,
		AsteroidMaxSpeed:         cfg.Asteroids.MaxSpeed,
		PerimeterSpeedAdjustment: l.PerimeterSpeedAdjustment,
	})
}

func (s *State) Points() int            { return s.points }
func (s *State) Level() int             { return s.level }
func (s *State) Hits() int              { return s.hits }
func (s *State) Misses() int            { return s.misses }
func (s *State) Shots() int             { return s.shots }
func (s *State) Difficulty() Difficulty { return s.current }

// LevelUp makes the game harder. The spawn interval only shrinks while the
// result stays above the minimum.
func (s *State) LevelUp() {
	d := &s.current
	if d.TimeBetweenAsteroids-s.rules.AsteroidTimeDecrease > s.rules.MinTimeBetweenAsteroids {
		d.TimeBetweenAsteroids -= s.rules.AsteroidTimeDecrease
	}
	d.AsteroidMinSpeed += s.rules.AsteroidSpeedIncrease
	d.AsteroidMaxSpeed += s.rules.AsteroidSpeedIncrease
	d.PerimeterSpeedAdjustment += s.rules.PerimeterSpeedIncrease
	s.level++
}

// Advance levels up once if aliveSeconds has passed the end of the current
// level. It reports whether a level-up happened.
func (s *State) Advance(aliveSeconds float64) bool {
	if aliveSeconds > float64(s.level*s.rules.SecondsPerLevel) {
		s.LevelUp()
		return true
	}
	return false
}

// NextLevelIn returns the whole seconds left until the next level-up.
func (s *State) NextLevelIn(aliveSeconds float64) int {
	per := s.rules.SecondsPerLevel
	if per <= 0 {
		return 0
	}
	return per - int(aliveSeconds)%per
}

func (s *State) AsteroidHit() {
	s.hits++
	s.points += s.rules.AsteroidHitBonus
}

func (s *State) AsteroidPassed() {
	s.misses++
	s.penalise(s.rules.AsteroidPassedPenalty)
}

func (s *State) BulletShot() {
	s.shots++
	s.penalise(s.rules.ShotFiredPenalty)
}

func (s *State) penalise(n int) {
	s.points = max(s.points-n, 0)
}

// Reset clears the counters, returns to level 1 and restores the difficulty
// captured by New.
func (s *State) Reset() {
	s.points, s.hits, s.misses, s.shots = 0, 0, 0, 0
	s.level = 1
	s.current = s.initial
}
