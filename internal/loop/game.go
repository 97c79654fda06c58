// Package loop drives one game: the per-frame update order, the terminal
// frame loop and the screens drawn on top of the field.
package loop

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/metrics"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/score"
)

// Logical canvas size. The camera projects onto this space and the canvas
// scales it to the terminal.
const (
	logicalWidth  = 160
	logicalHeight = 96 // sub-pixels, 48 terminal rows
)

// engineCueInterval throttles the engine cue to roughly its own length.
const engineCueInterval = 120 * time.Millisecond

// Options configures a Game. Zero fields get working defaults.
type Options struct {
	Logger   *zap.Logger
	Audio    audio.Player
	Rand     *rand.Rand
	Recorder metrics.Recorder
	// SkipTitle starts the game immediately.
	SkipTitle bool
}

// Game is one player's session. It is not safe for concurrent use.
type Game struct {
	cfg      config.Config
	ctx      *object.Context
	world    *physics.World
	field    *object.Field
	spawner  *object.AsteroidSpawner
	camera   *draw.Camera
	audio    *audio.Mutable
	logger   *zap.Logger
	recorder metrics.Recorder

	fire   *rate.Limiter
	engine *rate.Limiter

	state       GameState
	clock       time.Time // game clock, advanced by Update
	started     time.Time // start of the current life
	nextLevelIn int
	showHUD     bool

	seen counters
}

// counters remembers what has already been reported to the recorder.
type counters struct {
	hits, misses, shots int
	dropped             [3]uint64 // asteroids, bullets, explosions
}

var poolNames = [3]string{"asteroids", "bullets", "explosions"}

// gameEpoch is the zero of the game clock.
var gameEpoch = time.Unix(0, 0)

// NewGame builds a game from cfg.
func NewGame(cfg config.Config, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Nop{}
	}

	f := cfg.Field
	world := physics.NewWorld(physics.WorldConfig{
		Gravity: mgl64.Vec3{0, 0, cfg.Physics.Gravity},
		MinX:    -f.SizeX,
		MinY:    -f.SizeY,
		MaxX:    2 * f.SizeX,
		MaxY:    2 * f.SizeY,
		// Largest interaction distance is an asteroid pair.
		CellSize: 2 * max(cfg.Asteroids.Radius, cfg.Ship.Radius, cfg.Bullets.Radius),
	})

	g := &Game{
		cfg:      cfg,
		world:    world,
		audio:    &audio.Mutable{Player: opts.Audio},
		logger:   opts.Logger,
		recorder: opts.Recorder,
		fire:     rate.NewLimiter(rate.Every(time.Duration(cfg.Bullets.TimeBetweenBullets*float64(time.Millisecond))), 1),
		engine:   rate.NewLimiter(rate.Every(engineCueInterval), 1),
		clock:    gameEpoch,
		showHUD:  true,
		camera: draw.NewCamera(
			mgl64.Vec3{f.SizeX / 2, f.SizeY / 2, f.CameraHeight},
			mgl64.Vec3{f.SizeX / 2, f.SizeY / 2, 0},
			mgl64.Vec3{0, 1, 0},
			f.Perspective, 1, f.CameraHeight+f.CameraMaxDistance,
			logicalWidth, logicalHeight,
		),
	}
	g.ctx = &object.Context{
		Config:  cfg,
		Physics: world,
		Score:   score.FromConfig(cfg),
		Audio:   g.audio,
		Logger:  opts.Logger,
		Rand:    opts.Rand,
	}
	g.field = object.NewField(g.ctx)
	g.spawner = object.NewAsteroidSpawner(0)
	g.nextLevelIn = cfg.Levels.SecondsPerLevel

	if opts.SkipTitle {
		g.start()
	}
	return g
}

// State returns the current phase.
func (g *Game) State() GameState { return g.state }

// Field exposes the entities, mostly for tests.
func (g *Game) Field() *object.Field { return g.field }

// Score returns the running score.
func (g *Game) Score() *score.State { return g.ctx.Score }

// Elapsed returns game time since NewGame.
func (g *Game) Elapsed() time.Duration { return g.clock.Sub(gameEpoch) }

// HUDVisible reports whether the score overlay is shown.
func (g *Game) HUDVisible() bool { return g.showHUD }

func (g *Game) aliveSeconds() float64 {
	return g.clock.Sub(g.started).Seconds()
}

func (g *Game) millis() float64 {
	return float64(g.Elapsed()) / float64(time.Millisecond)
}

// start leaves the title screen.
func (g *Game) start() {
	g.state = GameStatePlaying
	g.started = g.clock
	g.spawner.Restart(g.millis())
	g.recorder.GameStarted()
	g.logger.Info("game started")
}

// restart revives the ship after a death.
func (g *Game) restart() {
	g.field.Ship.Reset()
	g.ctx.Score.Reset()
	g.seen.hits, g.seen.misses, g.seen.shots = 0, 0, 0
	g.started = g.clock
	g.nextLevelIn = g.cfg.Levels.SecondsPerLevel
	g.spawner.Restart(g.millis())
	g.state = GameStatePlaying
	g.recorder.GameStarted()
	g.logger.Info("game restarted")
}

// Update advances the game by dt and applies in.
//
// Frame order: level check (or clearing asteroids while dead), physics
// step with collision callbacks, sweeps, input, asteroid spawn timer.
func (g *Game) Update(dt time.Duration, in input.Input) {
	g.clock = g.clock.Add(dt)

	if in.Mute {
		g.audio.Toggle()
	}
	if in.ToggleHUD {
		g.showHUD = !g.showHUD
	}

	if g.state == GameStateStart {
		g.field.Perimeter.Update(g.ctx.Score.Difficulty().PerimeterSpeedAdjustment)
		if in.Start || in.Fire {
			g.start()
		}
		return
	}

	ship := g.field.Ship
	sc := g.ctx.Score
	if ship.Alive() {
		if sc.Advance(g.aliveSeconds()) {
			g.recorder.LevelReached(sc.Level())
			g.logger.Info("level up",
				zap.Int("level", sc.Level()),
				zap.Float64("time_between_asteroids", sc.Difficulty().TimeBetweenAsteroids))
		}
		g.nextLevelIn = sc.NextLevelIn(g.aliveSeconds())
	} else {
		g.field.Asteroids.Reset()
	}

	g.world.Update(dt.Seconds())

	g.field.Bullets.Sweep()
	g.field.Asteroids.Sweep()
	g.field.Perimeter.Update(sc.Difficulty().PerimeterSpeedAdjustment)
	g.field.Explosions.Sweep(float64(dt) / float64(time.Millisecond))

	if g.state == GameStatePlaying && !ship.Alive() {
		g.state = GameStateDead
		g.recorder.ShipDestroyed()
		g.recorder.GameEnded(sc.Points(), sc.Level())
	}

	g.handleInput(in)

	g.spawner.Update(g.millis(), sc.Difficulty().TimeBetweenAsteroids, g.field.Asteroids)

	g.report()
}

func (g *Game) handleInput(in input.Input) {
	ship := g.field.Ship
	step := g.cfg.Ship.MovementAmount

	if in.Moving() && g.engine.AllowN(g.clock, 1) {
		g.audio.PlayCue(audio.CueEngine)
	}
	if in.Left {
		ship.Left(step)
	}
	if in.Right {
		ship.Right(step)
	}
	if in.Up {
		ship.Up(step)
	}
	if in.Down {
		ship.Down(step)
	}

	if in.Restart && !ship.Alive() {
		g.restart()
	}

	if in.Fire && ship.Alive() && g.fire.AllowN(g.clock, 1) {
		muzzle := ship.Position().Sub(mgl64.Vec3{0, 0, g.cfg.Ship.MuzzleOffset})
		if g.field.Bullets.Shoot(muzzle) {
			g.audio.PlayCue(audio.CueFire)
		}
	}
}

// report forwards counter deltas to the recorder.
func (g *Game) report() {
	sc := g.ctx.Score
	g.recorder.Hits(sc.Hits() - g.seen.hits)
	g.recorder.Misses(sc.Misses() - g.seen.misses)
	g.recorder.Shots(sc.Shots() - g.seen.shots)
	g.seen.hits, g.seen.misses, g.seen.shots = sc.Hits(), sc.Misses(), sc.Shots()

	dropped := [3]uint64{
		g.field.Asteroids.Dropped(),
		g.field.Bullets.Dropped(),
		g.field.Explosions.Dropped(),
	}
	for i, n := range dropped {
		if n > g.seen.dropped[i] {
			g.recorder.Dropped(poolNames[i], n-g.seen.dropped[i])
		}
	}
	g.seen.dropped = dropped
}

// Close ends the session. A game in progress is reported as ended.
func (g *Game) Close() {
	if g.state == GameStatePlaying {
		g.recorder.GameEnded(g.ctx.Score.Points(), g.ctx.Score.Level())
	}
	g.state = GameStateDead
	g.field.Asteroids.Reset()
	g.field.Bullets.Reset()
	g.field.Explosions.Reset()
}
