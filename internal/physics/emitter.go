package physics

import (
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// EmitterConfig describes a one-shot particle burst.
type EmitterConfig struct {
	Count             int
	Speed             float64
	Lifetime          float64 // seconds
	LifetimeVariance  float64 // seconds, applied symmetrically
	BaseDirection     mgl64.Vec3
	DirectionVariance float64
	Colour            color.RGBA
	ColourVariance    uint8
}

// Particle is a point in an emitter's burst.
type Particle struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Life     float64 // seconds remaining
	MaxLife  float64
	Colour   color.RGBA
}

// Emitter owns the particles of an explosion. The World integrates it along
// with the body it is attached to; particles do not collide.
type Emitter struct {
	particles []Particle
}

// NewEmitter creates cfg.Count particles at origin.
func NewEmitter(origin mgl64.Vec3, cfg EmitterConfig, rng *rand.Rand) *Emitter {
	e := &Emitter{particles: make([]Particle, 0, cfg.Count)}
	for range cfg.Count {
		dir := cfg.BaseDirection.Add(mgl64.Vec3{
			(rng.Float64()*2 - 1) * cfg.DirectionVariance,
			(rng.Float64()*2 - 1) * cfg.DirectionVariance,
			(rng.Float64()*2 - 1) * cfg.DirectionVariance,
		})
		if dir.Len() == 0 {
			dir = mgl64.Vec3{0, 0, 1}
		}
		life := max(cfg.Lifetime+(rng.Float64()*2-1)*cfg.LifetimeVariance, 0)
		e.particles = append(e.particles, Particle{
			Position: origin,
			Velocity: dir.Normalize().Mul(cfg.Speed),
			Life:     life,
			MaxLife:  life,
			Colour:   jitter(cfg.Colour, cfg.ColourVariance, rng),
		})
	}
	return e
}

func jitter(c color.RGBA, v uint8, rng *rand.Rand) color.RGBA {
	if v == 0 {
		return c
	}
	ch := func(x uint8) uint8 {
		n := int(x) + rng.IntN(2*int(v)+1) - int(v)
		return uint8(min(max(n, 0), 255))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}

// Particles returns the live particles. The slice is only valid until the
// next Update.
func (e *Emitter) Particles() []Particle { return e.particles }

// Done reports whether every particle has expired.
func (e *Emitter) Done() bool { return len(e.particles) == 0 }

func (e *Emitter) update(dt float64) {
	live := e.particles[:0]
	for _, p := range e.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		live = append(live, p)
	}
	e.particles = live
}
