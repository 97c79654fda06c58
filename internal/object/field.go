package object

import "github.com/tomz197/spaceshooter/internal/physics"

// Field owns every entity of one game and resolves their collisions.
type Field struct {
	ctx     *Context
	elastic physics.Elastic

	Ship       *Ship
	Asteroids  *Asteroids
	Bullets    *Bullets
	Explosions *Explosions
	Perimeter  *Perimeter
}

// NewField creates the pools, registers the ship and scatters the
// perimeter.
func NewField(ctx *Context) *Field {
	f := &Field{
		ctx:     ctx,
		elastic: physics.Elastic{Elasticity: ctx.Config.Physics.Elasticity},
	}
	f.Asteroids = NewAsteroids(ctx, f)
	f.Bullets = NewBullets(ctx, f)
	f.Explosions = NewExplosions(ctx)
	f.Ship = NewShip(ctx, f)
	f.Perimeter = NewPerimeter(ctx.Config, ctx.Rand)
	return f
}

// Draw renders the field back to front.
func (f *Field) Draw(ctx DrawContext) {
	f.Perimeter.Draw(ctx)
	f.Asteroids.Draw(ctx)
	f.Bullets.Draw(ctx)
	f.Explosions.Draw(ctx)
	f.Ship.Draw(ctx)
}
