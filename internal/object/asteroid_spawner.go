package object

// AsteroidSpawner releases a new asteroid whenever the current spawn
// interval has passed since the last one.
type AsteroidSpawner struct {
	last float64 // game time of the last spawn, ms
}

// NewAsteroidSpawner creates a spawner whose first interval starts at now.
func NewAsteroidSpawner(now float64) *AsteroidSpawner {
	return &AsteroidSpawner{last: now}
}

// Update spawns into asteroids if interval milliseconds have passed and the
// pool has room. A full pool does not restart the interval. It reports
// whether an asteroid was added.
func (s *AsteroidSpawner) Update(now, interval float64, asteroids *Asteroids) bool {
	if asteroids.IsFull() || now-s.last <= interval {
		return false
	}
	if !asteroids.Spawn() {
		return false
	}
	s.last = now
	return true
}

// Restart begins a fresh interval at now.
func (s *AsteroidSpawner) Restart(now float64) {
	s.last = now
}
