// Package object holds the game entities: the ship, the pooled asteroids,
// bullets and explosions, and the decorative perimeter.
package object

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/score"
)

// Owner kinds stored on physics bodies.
const (
	KindShip uint8 = iota + 1
	KindAsteroid
	KindBullet
	KindExplosion
)

// Collision layers. Bullets and the ship only ever meet asteroids.
const (
	LayerShip physics.Layer = 1 << iota
	LayerAsteroid
	LayerBullet
)

// Context is what entities share within one game. Every game owns its own
// Context; nothing in it is safe for concurrent use.
type Context struct {
	Config  config.Config
	Physics physics.Environment
	Score   *score.State
	Audio   audio.Player
	Logger  *zap.Logger
	Rand    *rand.Rand
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
	Camera *draw.Camera
}

// Model is the visual shape of an entity: an outline on the unit circle and
// the model's extent in world units before scaling.
type Model struct {
	Outline []mgl64.Vec2
	Extent  float64
}

// Model extents, chosen so that the configured scales draw each entity at
// roughly its collision radius.
const (
	asteroidExtent = 1200.0
	shipExtent     = 1000.0
	bulletExtent   = 350.0
	particleExtent = 20.0
)

var shipModel = Model{
	Outline: []mgl64.Vec2{{0, 1}, {-0.7, -0.7}, {0, -0.3}, {0.7, -0.7}},
	Extent:  shipExtent,
}

// newRockModel builds an irregular polygon with 8-12 vertices.
func newRockModel(rng *rand.Rand) Model {
	n := 8 + rng.IntN(5)
	outline := make([]mgl64.Vec2, n)
	for i := range outline {
		angle := float64(i) * 2 * math.Pi / float64(n)
		// Vary radius by ±30% for irregular shape
		r := 0.7 + rng.Float64()*0.6
		outline[i] = mgl64.Vec2{math.Cos(angle) * r, math.Sin(angle) * r}
	}
	return Model{Outline: outline, Extent: asteroidExtent}
}

// drawModel projects the outline around transform's origin. The outline
// is rotated in the screen plane by the transform's rotation about Z.
func drawModel(ctx DrawContext, m Model, transform mgl64.Mat4, scale float64, filled bool) {
	centre := transform.Col(3).Vec3()
	pt, depth, ok := ctx.Camera.Project(centre)
	if !ok {
		return
	}
	size := ctx.Camera.ScaleAt(m.Extent*scale, depth)
	if !ctx.Camera.Visible(pt, size) {
		return
	}
	if size < 1 {
		ctx.Canvas.SetFloat(pt.X, pt.Y)
		return
	}

	xAxis := transform.Col(0).Vec3()
	angle := math.Atan2(xAxis.Y(), xAxis.X())
	sin, cos := math.Sincos(angle)

	points := ctx.Canvas.BorrowPoints(len(m.Outline))
	for i, v := range m.Outline {
		x := v.X()*cos - v.Y()*sin
		y := v.X()*sin + v.Y()*cos
		// Screen Y grows downward.
		points[i] = draw.Point{X: pt.X + x*size, Y: pt.Y - y*size}
	}
	ctx.Canvas.DrawPolygon(points, filled)
}

// drawPoint plots a single world position.
func drawPoint(ctx DrawContext, p mgl64.Vec3) {
	pt, _, ok := ctx.Camera.Project(p)
	if !ok || !ctx.Camera.Visible(pt, 0) {
		return
	}
	ctx.Canvas.SetFloat(pt.X, pt.Y)
}

// removeBody hands b back to the environment. A stale handle means the
// body was already removed, which breaks the ownership rules; it is
// reported and otherwise ignored so the slot can still be freed.
func removeBody(ctx *Context, b *physics.Body, entity string) error {
	if err := ctx.Physics.Remove(b.Handle()); err != nil {
		ctx.Logger.DPanic("physics body already removed",
			zap.String("entity", entity),
			zap.Int("slot", b.Owner.Slot),
			zap.Error(err))
	}
	return nil
}

// logRelease reports a failed pool release.
func logRelease(ctx *Context, entity string, slot int, err error) {
	if err != nil {
		ctx.Logger.DPanic("release failed",
			zap.String("entity", entity),
			zap.Int("slot", slot),
			zap.Error(err))
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
