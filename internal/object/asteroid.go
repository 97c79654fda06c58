package object

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/pool"
)

// Asteroid is a pooled rock flying toward the camera.
type Asteroid struct {
	body      *physics.Body
	model     Model
	destroyed bool
}

// Body returns the asteroid's physics body.
func (a *Asteroid) Body() *physics.Body { return a.body }

// Position returns the asteroid's centre.
func (a *Asteroid) Position() mgl64.Vec3 { return a.body.Position }

// MarkDestroyed flags the asteroid for removal by the next sweep.
func (a *Asteroid) MarkDestroyed() { a.destroyed = true }

// IsDestroyed returns true if the asteroid is marked for removal.
func (a *Asteroid) IsDestroyed() bool { return a.destroyed }

// Asteroids is the fixed-capacity asteroid pool.
type Asteroids struct {
	ctx     *Context
	handler physics.CollisionHandler
	pool    *pool.Pool[Asteroid]
}

// NewAsteroids creates an empty pool. handler is attached to every
// asteroid body.
func NewAsteroids(ctx *Context, handler physics.CollisionHandler) *Asteroids {
	return &Asteroids{
		ctx:     ctx,
		handler: handler,
		pool:    pool.New[Asteroid](ctx.Config.Asteroids.Capacity),
	}
}

// Spawn adds an asteroid at a random point of the inner 80% of the
// playfield, deep in the distance, heading toward the camera at the
// current difficulty's speed. It reports false when the pool is full.
func (a *Asteroids) Spawn() bool {
	f := a.ctx.Config.Field
	d := a.ctx.Score.Difficulty()
	rng := a.ctx.Rand

	pos := mgl64.Vec3{
		uniform(rng, 0.1, 0.9) * f.SizeX,
		uniform(rng, 0.1, 0.9) * f.SizeY,
		-0.8 * f.CameraMaxDistance,
	}
	vel := mgl64.Vec3{0, 0, uniform(rng, d.AsteroidMinSpeed, d.AsteroidMaxSpeed)}
	_, ok := a.Add(pos, vel)
	return ok
}

// Add places an asteroid with the given position and velocity in the
// lowest free slot.
func (a *Asteroids) Add(pos, vel mgl64.Vec3) (int, bool) {
	cfg := a.ctx.Config.Asteroids
	rng := a.ctx.Rand
	slot, err := a.pool.Acquire(func(i int) (Asteroid, error) {
		b := physics.NewBody(pos, cfg.Radius, cfg.Mass)
		b.Velocity = vel
		b.AngularVelocity = mgl64.Vec3{
			uniform(rng, -1, 1),
			uniform(rng, -1, 1),
			uniform(rng, -1, 1),
		}
		b.Layer = LayerAsteroid
		b.Mask = LayerAsteroid | LayerBullet | LayerShip
		b.Owner = physics.Owner{Kind: KindAsteroid, Slot: i}
		b.Handler = a.handler
		a.ctx.Physics.Add(b)
		return Asteroid{body: b, model: newRockModel(rng)}, nil
	})
	if errors.Is(err, pool.ErrExhausted) {
		a.ctx.Logger.Debug("asteroid spawn dropped", zap.Int("capacity", a.pool.Cap()))
		return -1, false
	}
	return slot, err == nil
}

// Sweep releases asteroids that left the playfield box or were destroyed.
// An asteroid that flew past the camera costs the player points.
func (a *Asteroids) Sweep() {
	f := a.ctx.Config.Field
	a.pool.ForEachActive(func(i int, ast *Asteroid) {
		p := ast.body.Position
		passed := p.Z() > f.CameraHeight
		outside := passed ||
			p.Z() < -f.CameraMaxDistance ||
			math.Abs(p.X()) > f.SizeX ||
			math.Abs(p.Y()) > f.SizeY
		if !outside && !ast.destroyed {
			return
		}
		destroyed := ast.destroyed
		a.release(i)
		if passed && !destroyed {
			a.ctx.Score.AsteroidPassed()
		}
	})
}

// Reset removes every asteroid.
func (a *Asteroids) Reset() {
	err := a.pool.Reset(func(ast *Asteroid) error {
		return removeBody(a.ctx, ast.body, "asteroid")
	})
	logRelease(a.ctx, "asteroid", -1, err)
}

func (a *Asteroids) release(i int) {
	err := a.pool.Release(i, func(ast *Asteroid) error {
		return removeBody(a.ctx, ast.body, "asteroid")
	})
	logRelease(a.ctx, "asteroid", i, err)
}

// Get returns the active asteroid in slot i.
func (a *Asteroids) Get(i int) (*Asteroid, bool) { return a.pool.Get(i) }

// ForEach visits active asteroids in slot order.
func (a *Asteroids) ForEach(fn func(i int, ast *Asteroid)) { a.pool.ForEachActive(fn) }

func (a *Asteroids) Len() int        { return a.pool.Len() }
func (a *Asteroids) Cap() int        { return a.pool.Cap() }
func (a *Asteroids) IsFull() bool    { return a.pool.IsFull() }
func (a *Asteroids) Dropped() uint64 { return a.pool.Dropped() }

// Draw renders the asteroids as irregular polygons.
func (a *Asteroids) Draw(ctx DrawContext) {
	scale := a.ctx.Config.Asteroids.Scale
	a.pool.ForEachActive(func(_ int, ast *Asteroid) {
		drawModel(ctx, ast.model, ast.body.Transform(), scale, false)
	})
}
