package object

import (
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// CollisionKind selects how a contact is resolved.
type CollisionKind int

const (
	// CollisionElastic bounces the bodies off each other and nothing else.
	CollisionElastic CollisionKind = iota
	// CollisionBulletAsteroid scores a hit and blows up both bodies.
	CollisionBulletAsteroid
	// CollisionShipAsteroid ends the ship's life.
	CollisionShipAsteroid
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionBulletAsteroid:
		return "bullet-asteroid"
	case CollisionShipAsteroid:
		return "ship-asteroid"
	default:
		return "elastic"
	}
}

// classify picks the collision kind for a pair of bodies. swapped is true
// when the asteroid came first, so callers can put it second.
func classify(a, b *physics.Body) (kind CollisionKind, swapped bool) {
	ka, kb := a.Owner.Kind, b.Owner.Kind
	switch {
	case ka == KindBullet && kb == KindAsteroid:
		return CollisionBulletAsteroid, false
	case ka == KindAsteroid && kb == KindBullet:
		return CollisionBulletAsteroid, true
	case ka == KindShip && kb == KindAsteroid:
		return CollisionShipAsteroid, false
	case ka == KindAsteroid && kb == KindShip:
		return CollisionShipAsteroid, true
	}
	return CollisionElastic, false
}

// Collide implements physics.CollisionHandler for every body in the field.
func (f *Field) Collide(a, b *physics.Body, c physics.Contact, _ physics.Environment) {
	f.resolveCollision(a, b, c)
}

// resolveCollision applies the response for one contact and returns the
// kind it resolved as.
func (f *Field) resolveCollision(a, b *physics.Body, c physics.Contact) CollisionKind {
	kind, swapped := classify(a, b)
	if swapped {
		a, b = b, a
		c.Normal = c.Normal.Mul(-1)
	}
	switch kind {
	case CollisionBulletAsteroid:
		f.bulletHitsAsteroid(a, b, c)
	case CollisionShipAsteroid:
		f.asteroidHitsShip(b)
	default:
		f.elastic.Resolve(a, b, c)
	}
	return kind
}

// bulletHitsAsteroid scores the hit, bounces the bodies, leaves an
// explosion where the asteroid was and marks both for removal. Entities
// already marked by an earlier contact this frame are left alone.
func (f *Field) bulletHitsAsteroid(bulletBody, asteroidBody *physics.Body, c physics.Contact) {
	bullet, ok := f.Bullets.Get(bulletBody.Owner.Slot)
	if !ok || bullet.body != bulletBody || bullet.destroyed {
		return
	}
	asteroid, ok := f.Asteroids.Get(asteroidBody.Owner.Slot)
	if !ok || asteroid.body != asteroidBody || asteroid.destroyed {
		return
	}

	origin := asteroidBody.Position

	f.ctx.Score.AsteroidHit()
	f.elastic.Resolve(bulletBody, asteroidBody, c)
	f.Explosions.Spawn(origin)
	f.ctx.Audio.PlayCue(audio.CueExplosion)

	bullet.MarkDestroyed()
	asteroid.MarkDestroyed()
}

// asteroidHitsShip ends the ship's life. There is no bounce: the ship is
// gone and the asteroids are cleared on the next frame.
func (f *Field) asteroidHitsShip(asteroidBody *physics.Body) {
	if !f.Ship.Alive() {
		return
	}
	ast, ok := f.Asteroids.Get(asteroidBody.Owner.Slot)
	if !ok || ast.destroyed {
		return
	}

	origin := f.Ship.Position()
	f.Ship.Kill()
	f.Explosions.Spawn(origin)
	f.ctx.Audio.PlayCue(audio.CueExplosion)
	f.ctx.Logger.Info("ship destroyed",
		zap.Int("level", f.ctx.Score.Level()),
		zap.Int("score", f.ctx.Score.Points()))
}
