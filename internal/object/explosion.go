package object

import (
	"errors"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/pool"
)

// Explosion is a pooled particle burst shown for a fixed time.
type Explosion struct {
	body *physics.Body
	// Remaining display time in milliseconds. A new explosion is unarmed
	// with zero lifetime; its first sweep arms it with the full duration.
	lifetime float64
	armed    bool
}

// Origin returns where the explosion started.
func (e *Explosion) Origin() mgl64.Vec3 { return e.body.Position }

// Lifetime returns the remaining display time in milliseconds.
func (e *Explosion) Lifetime() float64 { return e.lifetime }

// Armed reports whether the countdown has started.
func (e *Explosion) Armed() bool { return e.armed }

// Particles returns the live particles of the burst.
func (e *Explosion) Particles() []physics.Particle { return e.body.Emitter.Particles() }

// Explosions is the fixed-capacity explosion pool.
type Explosions struct {
	ctx     *Context
	pool    *pool.Pool[Explosion]
	emitter physics.EmitterConfig
}

// NewExplosions creates an empty pool.
func NewExplosions(ctx *Context) *Explosions {
	cfg := ctx.Config.Explosions
	return &Explosions{
		ctx:  ctx,
		pool: pool.New[Explosion](cfg.Capacity),
		emitter: physics.EmitterConfig{
			Count:             cfg.Particles,
			Speed:             cfg.ParticleSpeed,
			Lifetime:          cfg.ParticleLifetime,
			LifetimeVariance:  cfg.LifetimeVariance,
			DirectionVariance: cfg.DirectionVariance,
			Colour:            color.RGBA{R: cfg.Colour.R, G: cfg.Colour.G, B: cfg.Colour.B, A: 255},
			ColourVariance:    cfg.ColourVariance,
		},
	}
}

// Spawn starts an explosion at pos. It reports false when the pool is full.
func (e *Explosions) Spawn(pos mgl64.Vec3) bool {
	_, err := e.pool.Acquire(func(i int) (Explosion, error) {
		body := physics.NewBody(pos, 0, 0)
		body.NonForce = true
		body.Owner = physics.Owner{Kind: KindExplosion, Slot: i}
		body.Emitter = physics.NewEmitter(pos, e.emitter, e.ctx.Rand)
		e.ctx.Physics.Add(body)
		return Explosion{body: body}, nil
	})
	if err != nil {
		if errors.Is(err, pool.ErrExhausted) {
			e.ctx.Logger.Debug("explosion dropped", zap.Int("capacity", e.pool.Cap()))
		}
		return false
	}
	return true
}

// Sweep counts explosions down by elapsed milliseconds and releases the
// ones whose time ran out.
func (e *Explosions) Sweep(elapsed float64) {
	display := e.ctx.Config.Explosions.DisplayTime
	e.pool.ForEachActive(func(i int, ex *Explosion) {
		if !ex.armed {
			ex.lifetime = display
			ex.armed = true
		} else {
			ex.lifetime -= elapsed
		}
		if ex.lifetime < 0 {
			e.release(i)
		}
	})
}

// Reset removes every explosion.
func (e *Explosions) Reset() {
	err := e.pool.Reset(func(ex *Explosion) error {
		return removeBody(e.ctx, ex.body, "explosion")
	})
	logRelease(e.ctx, "explosion", -1, err)
}

func (e *Explosions) release(i int) {
	err := e.pool.Release(i, func(ex *Explosion) error {
		return removeBody(e.ctx, ex.body, "explosion")
	})
	logRelease(e.ctx, "explosion", i, err)
}

// Get returns the active explosion in slot i.
func (e *Explosions) Get(i int) (*Explosion, bool) { return e.pool.Get(i) }

// ForEach visits active explosions in slot order.
func (e *Explosions) ForEach(fn func(i int, ex *Explosion)) { e.pool.ForEachActive(fn) }

func (e *Explosions) Len() int        { return e.pool.Len() }
func (e *Explosions) Cap() int        { return e.pool.Cap() }
func (e *Explosions) IsFull() bool    { return e.pool.IsFull() }
func (e *Explosions) Dropped() uint64 { return e.pool.Dropped() }

// Draw plots every live particle.
func (e *Explosions) Draw(ctx DrawContext) {
	scale := e.ctx.Config.Explosions.Scale
	e.pool.ForEachActive(func(_ int, ex *Explosion) {
		for _, p := range ex.Particles() {
			pt, depth, ok := ctx.Camera.Project(p.Position)
			if !ok || !ctx.Camera.Visible(pt, 0) {
				continue
			}
			// Fade out by skipping particles near the end of their life.
			if p.MaxLife > 0 && p.Life/p.MaxLife < 0.15 {
				continue
			}
			ctx.Canvas.SetPen(p.Colour)
			if ctx.Camera.ScaleAt(particleExtent*scale, depth) >= 1 {
				ctx.Canvas.SetFloat(pt.X+0.5, pt.Y)
			}
			ctx.Canvas.SetFloat(pt.X, pt.Y)
		}
	})
	ctx.Canvas.ResetPen()
}
