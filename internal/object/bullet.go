package object

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/pool"
)

// Bullet is a pooled shot travelling away from the camera.
type Bullet struct {
	body      *physics.Body
	destroyed bool
}

// Body returns the bullet's physics body.
func (b *Bullet) Body() *physics.Body { return b.body }

// Position returns the bullet's centre.
func (b *Bullet) Position() mgl64.Vec3 { return b.body.Position }

// MarkDestroyed flags the bullet for removal by the next sweep.
func (b *Bullet) MarkDestroyed() { b.destroyed = true }

// IsDestroyed returns true if the bullet is marked for removal.
func (b *Bullet) IsDestroyed() bool { return b.destroyed }

// Bullets is the fixed-capacity bullet pool.
type Bullets struct {
	ctx     *Context
	handler physics.CollisionHandler
	pool    *pool.Pool[Bullet]
}

// NewBullets creates an empty pool. handler is attached to every bullet.
func NewBullets(ctx *Context, handler physics.CollisionHandler) *Bullets {
	return &Bullets{
		ctx:     ctx,
		handler: handler,
		pool:    pool.New[Bullet](ctx.Config.Bullets.Capacity),
	}
}

// Shoot fires a bullet from pos straight into the screen. Each shot costs
// points. Rate limiting is up to the caller. It reports false when the
// pool is full, in which case nothing is charged.
func (b *Bullets) Shoot(pos mgl64.Vec3) bool {
	cfg := b.ctx.Config.Bullets
	_, err := b.pool.Acquire(func(i int) (Bullet, error) {
		body := physics.NewBody(pos, cfg.Radius, cfg.Mass)
		body.NonForce = true
		body.Velocity = mgl64.Vec3{0, 0, -cfg.Speed}
		body.Layer = LayerBullet
		body.Mask = LayerAsteroid
		body.Owner = physics.Owner{Kind: KindBullet, Slot: i}
		body.Handler = b.handler
		b.ctx.Physics.Add(body)
		return Bullet{body: body}, nil
	})
	if err != nil {
		if errors.Is(err, pool.ErrExhausted) {
			b.ctx.Logger.Debug("bullet dropped", zap.Int("capacity", b.pool.Cap()))
		}
		return false
	}
	b.ctx.Score.BulletShot()
	return true
}

// Sweep releases bullets past the far end of the field and bullets that
// hit something.
func (b *Bullets) Sweep() {
	f := b.ctx.Config.Field
	limit := -(f.CameraMaxDistance - f.CameraHeight)
	b.pool.ForEachActive(func(i int, bu *Bullet) {
		if bu.body.Position.Z() < limit || bu.destroyed {
			b.release(i)
		}
	})
}

// Reset removes every bullet.
func (b *Bullets) Reset() {
	err := b.pool.Reset(func(bu *Bullet) error {
		return removeBody(b.ctx, bu.body, "bullet")
	})
	logRelease(b.ctx, "bullet", -1, err)
}

func (b *Bullets) release(i int) {
	err := b.pool.Release(i, func(bu *Bullet) error {
		return removeBody(b.ctx, bu.body, "bullet")
	})
	logRelease(b.ctx, "bullet", i, err)
}

// Get returns the active bullet in slot i.
func (b *Bullets) Get(i int) (*Bullet, bool) { return b.pool.Get(i) }

// ForEach visits active bullets in slot order.
func (b *Bullets) ForEach(fn func(i int, bu *Bullet)) { b.pool.ForEachActive(fn) }

func (b *Bullets) Len() int        { return b.pool.Len() }
func (b *Bullets) Cap() int        { return b.pool.Cap() }
func (b *Bullets) IsFull() bool    { return b.pool.IsFull() }
func (b *Bullets) Dropped() uint64 { return b.pool.Dropped() }

// Draw renders each bullet as a pixel, or a small disc up close.
func (b *Bullets) Draw(ctx DrawContext) {
	scale := b.ctx.Config.Bullets.Scale
	b.pool.ForEachActive(func(_ int, bu *Bullet) {
		pt, depth, ok := ctx.Camera.Project(bu.body.Position)
		if !ok {
			return
		}
		if ctx.Camera.ScaleAt(bulletExtent*scale, depth) < 1 {
			ctx.Canvas.SetFloat(pt.X, pt.Y)
			return
		}
		drawModel(ctx, bulletModel, bu.body.Transform(), scale, true)
	})
}

var bulletModel = Model{
	Outline: []mgl64.Vec2{{0, 1}, {-1, 0}, {0, -1}, {1, 0}},
	Extent:  bulletExtent,
}
