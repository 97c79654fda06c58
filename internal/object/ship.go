package object

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Ship is the player's craft. It sits in the Z=0 plane and moves in X/Y
// only; leaving the field on one side brings it back on the other.
type Ship struct {
	ctx   *Context
	body  *physics.Body
	alive bool
}

// NewShip registers the ship at the centre of the field.
func NewShip(ctx *Context, handler physics.CollisionHandler) *Ship {
	cfg := ctx.Config.Ship
	body := physics.NewBody(startPosition(ctx), cfg.Radius, cfg.Mass)
	body.NonForce = true
	body.Layer = LayerShip
	body.Mask = LayerAsteroid
	body.Owner = physics.Owner{Kind: KindShip}
	body.Handler = handler
	ctx.Physics.Add(body)
	return &Ship{ctx: ctx, body: body, alive: true}
}

func startPosition(ctx *Context) mgl64.Vec3 {
	f := ctx.Config.Field
	return mgl64.Vec3{f.SizeX / 2, f.SizeY / 2, 0}
}

// Body returns the ship's physics body.
func (s *Ship) Body() *physics.Body { return s.body }

// Position returns the ship's centre.
func (s *Ship) Position() mgl64.Vec3 { return s.body.Position }

// SetPosition moves the ship without wrapping.
func (s *Ship) SetPosition(p mgl64.Vec3) { s.body.Position = p }

// Alive reports whether the ship is still flying.
func (s *Ship) Alive() bool { return s.alive }

// Kill ends the current life.
func (s *Ship) Kill() { s.alive = false }

// Reset revives the ship at the centre of the field.
func (s *Ship) Reset() {
	s.alive = true
	s.body.Position = startPosition(s.ctx)
	s.body.Velocity = mgl64.Vec3{}
	s.ctx.Audio.PlayCue(audio.CueHyperspace)
}

// Up moves the ship by distance along +Y.
func (s *Ship) Up(distance float64) { s.move(1, distance) }

// Down moves the ship by distance along -Y.
func (s *Ship) Down(distance float64) { s.move(1, -distance) }

// Left moves the ship by distance along -X.
func (s *Ship) Left(distance float64) { s.move(0, -distance) }

// Right moves the ship by distance along +X.
func (s *Ship) Right(distance float64) { s.move(0, distance) }

// move shifts one axis. Crossing an edge jumps to the opposite edge, inset
// by the step size, with a hyperspace cue.
func (s *Ship) move(axis int, delta float64) {
	size := s.ctx.Config.Field.SizeX
	if axis == 1 {
		size = s.ctx.Config.Field.SizeY
	}
	step := delta
	if step < 0 {
		step = -step
	}

	p := s.body.Position
	p[axis] += delta
	switch {
	case p[axis] > size:
		p[axis] = step
	case p[axis] < 0:
		p[axis] = size - step
	default:
		s.body.Position = p
		return
	}
	s.body.Position = p
	s.ctx.Audio.PlayCue(audio.CueHyperspace)
}

// Draw renders the ship as an arrowhead while it is alive.
func (s *Ship) Draw(ctx DrawContext) {
	if !s.alive {
		return
	}
	drawModel(ctx, shipModel, s.body.Transform(), s.ctx.Config.Ship.Scale, true)
}
