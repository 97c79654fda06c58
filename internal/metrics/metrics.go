// Package metrics records gameplay counters for Prometheus and keeps a
// small in-memory stats board for the landing page.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives gameplay events from a running game.
type Recorder interface {
	GameStarted()
	GameEnded(points, level int)
	ShipDestroyed()
	Frame(d time.Duration)
	Hits(n int)
	Misses(n int)
	Shots(n int)
	LevelReached(level int)
	// Dropped counts spawn requests rejected by a full pool.
	Dropped(pool string, n uint64)
}

// Nop discards everything.
type Nop struct{}

func (Nop) GameStarted()           {}
func (Nop) GameEnded(int, int)     {}
func (Nop) ShipDestroyed()         {}
func (Nop) Frame(time.Duration)    {}
func (Nop) Hits(int)               {}
func (Nop) Misses(int)             {}
func (Nop) Shots(int)              {}
func (Nop) LevelReached(int)       {}
func (Nop) Dropped(string, uint64) {}

// Prometheus is a Recorder backed by Prometheus collectors. Labels are
// bounded: the only label is the pool name.
type Prometheus struct {
	activeGames   prometheus.Gauge
	gamesTotal    prometheus.Counter
	deathsTotal   prometheus.Counter
	frameDuration prometheus.Histogram
	hitsTotal     prometheus.Counter
	missesTotal   prometheus.Counter
	shotsTotal    prometheus.Counter
	levelReached  prometheus.Histogram
	droppedTotal  *prometheus.CounterVec

	board *Board
}

// NewPrometheus registers the collectors with reg. board may be nil.
func NewPrometheus(reg prometheus.Registerer, board *Board) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		activeGames: f.NewGauge(prometheus.GaugeOpts{
			Name: "shooter_active_games",
			Help: "Games currently running",
		}),
		gamesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "shooter_games_total",
			Help: "Games started",
		}),
		deathsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "shooter_ship_destroyed_total",
			Help: "Ships lost to asteroids",
		}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shooter_frame_duration_seconds",
			Help:    "Time spent updating one frame",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033},
		}),
		hitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "shooter_asteroids_hit_total",
			Help: "Asteroids destroyed by bullets",
		}),
		missesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "shooter_asteroids_missed_total",
			Help: "Asteroids that flew past the camera",
		}),
		shotsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "shooter_bullets_shot_total",
			Help: "Bullets fired",
		}),
		levelReached: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shooter_level_reached",
			Help:    "Level reached on each level-up",
			Buckets: prometheus.LinearBuckets(2, 2, 10),
		}),
		droppedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shooter_spawn_dropped_total",
			Help: "Spawn requests rejected by a full pool",
		}, []string{"pool"}), // Bounded: "asteroids", "bullets", "explosions"
		board: board,
	}
}

func (p *Prometheus) GameStarted() {
	p.activeGames.Inc()
	p.gamesTotal.Inc()
	if p.board != nil {
		p.board.gameStarted()
	}
}

func (p *Prometheus) GameEnded(points, level int) {
	p.activeGames.Dec()
	if p.board != nil {
		p.board.gameEnded(points, level)
	}
}

func (p *Prometheus) ShipDestroyed() {
	p.deathsTotal.Inc()
}

func (p *Prometheus) Frame(d time.Duration) {
	p.frameDuration.Observe(d.Seconds())
}

func (p *Prometheus) Hits(n int) {
	if n > 0 {
		p.hitsTotal.Add(float64(n))
	}
}

func (p *Prometheus) Misses(n int) {
	if n > 0 {
		p.missesTotal.Add(float64(n))
	}
}

func (p *Prometheus) Shots(n int) {
	if n > 0 {
		p.shotsTotal.Add(float64(n))
	}
}

func (p *Prometheus) LevelReached(level int) {
	p.levelReached.Observe(float64(level))
	if p.board != nil {
		p.board.levelReached(level)
	}
}

func (p *Prometheus) Dropped(pool string, n uint64) {
	if n > 0 {
		p.droppedTotal.WithLabelValues(pool).Add(float64(n))
	}
}
