package physics

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	layerA Layer = 1 << iota
	layerB
)

func newTestWorld() *World {
	return NewWorld(WorldConfig{
		Gravity:  mgl64.Vec3{0, 0, 10},
		MinX:     0,
		MinY:     0,
		MaxX:     1000,
		MaxY:     1000,
		CellSize: 50,
	})
}

func sphere(x, y, z, r float64, layer, mask Layer) *Body {
	b := NewBody(mgl64.Vec3{x, y, z}, r, 1)
	b.NonForce = true
	b.Layer = layer
	b.Mask = mask
	return b
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func approxVec(a, b mgl64.Vec3) bool {
	return approx(a.X(), b.X()) && approx(a.Y(), b.Y()) && approx(a.Z(), b.Z())
}

func TestHandleLifecycle(t *testing.T) {
	w := newTestWorld()
	b := NewBody(mgl64.Vec3{}, 1, 1)
	h := w.Add(b)
	if h.IsZero() || b.Handle() != h {
		t.Fatalf("handle = %v", h)
	}
	if got, ok := w.Lookup(h); !ok || got != b {
		t.Fatal("lookup failed")
	}
	if err := w.Remove(h); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Lookup(h); ok {
		t.Fatal("stale handle still resolves")
	}
	if err := w.Remove(h); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("second remove err = %v", err)
	}

	// The slot is reused with a new generation.
	h2 := w.Add(NewBody(mgl64.Vec3{}, 1, 1))
	if h2.index() != h.index() || h2 == h {
		t.Fatalf("reuse: h=%x h2=%x", h, h2)
	}
	if _, ok := w.Lookup(h); ok {
		t.Fatal("old handle resolves to reused slot")
	}
	if w.Len() != 1 {
		t.Fatalf("len = %d", w.Len())
	}
	if _, ok := w.Lookup(0); ok {
		t.Fatal("zero handle resolved")
	}
}

func TestIntegrationRespectsNonForce(t *testing.T) {
	w := newTestWorld()
	falling := NewBody(mgl64.Vec3{0, 0, 0}, 1, 1)
	falling.Velocity = mgl64.Vec3{0, 0, 5}
	fixed := NewBody(mgl64.Vec3{0, 0, 0}, 1, 1)
	fixed.NonForce = true
	fixed.Velocity = mgl64.Vec3{0, 0, -200}
	w.Add(falling)
	w.Add(fixed)

	w.Update(0.5)

	if !approx(falling.Velocity.Z(), 10) || !approx(falling.Position.Z(), 5) {
		t.Errorf("falling body v=%v p=%v", falling.Velocity, falling.Position)
	}
	if !approx(fixed.Velocity.Z(), -200) || !approx(fixed.Position.Z(), -100) {
		t.Errorf("non-force body v=%v p=%v", fixed.Velocity, fixed.Position)
	}
}

func TestAngularVelocityRotates(t *testing.T) {
	w := newTestWorld()
	b := NewBody(mgl64.Vec3{}, 1, 1)
	b.NonForce = true
	b.AngularVelocity = mgl64.Vec3{0, 0, math.Pi}
	w.Add(b)
	w.Update(0.5)
	got := b.Orientation.Rotate(mgl64.Vec3{1, 0, 0})
	if !approxVec(got, mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("rotated x axis = %v", got)
	}
}

func TestEachPairReportedOnce(t *testing.T) {
	w := newTestWorld()
	calls := 0
	h := CollisionFunc(func(a, b *Body, c Contact, env Environment) { calls++ })
	a := sphere(100, 100, 0, 10, layerA, layerA)
	b := sphere(110, 100, 0, 10, layerA, layerA)
	a.Handler = h
	b.Handler = h
	w.Add(a)
	w.Add(b)

	w.Update(0)
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestContactGeometry(t *testing.T) {
	w := newTestWorld()
	var got Contact
	a := sphere(100, 100, 0, 10, layerA, layerA)
	b := sphere(100, 100, 15, 10, layerA, layerA)
	a.Handler = CollisionFunc(func(_, _ *Body, c Contact, _ Environment) { got = c })
	w.Add(a)
	w.Add(b)
	w.Update(0)

	if !got.Normal.ApproxEqual(mgl64.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v", got.Normal)
	}
	if !approx(got.Depth, 5) {
		t.Errorf("depth = %v", got.Depth)
	}
	if !got.Point.ApproxEqual(mgl64.Vec3{100, 100, 10}) {
		t.Errorf("point = %v", got.Point)
	}
}

func TestLayerFiltering(t *testing.T) {
	w := newTestWorld()
	calls := 0
	h := CollisionFunc(func(a, b *Body, c Contact, env Environment) { calls++ })

	// Two B bodies only accept A, so they never meet each other.
	b1 := sphere(100, 100, 0, 10, layerB, layerA)
	b2 := sphere(105, 100, 0, 10, layerB, layerA)
	b1.Handler, b2.Handler = h, h
	w.Add(b1)
	w.Add(b2)
	w.Update(0)
	if calls != 0 {
		t.Fatalf("filtered pair reported %d times", calls)
	}

	a := sphere(100, 105, 0, 10, layerA, layerB)
	a.Handler = h
	w.Add(a)
	w.Update(0)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (a with each b)", calls)
	}
}

func TestSeparatedDepthIsNotReported(t *testing.T) {
	w := newTestWorld()
	calls := 0
	a := sphere(100, 100, 0, 10, layerA, layerA)
	b := sphere(100, 100, 500, 10, layerA, layerA)
	a.Handler = CollisionFunc(func(_, _ *Body, _ Contact, _ Environment) { calls++ })
	w.Add(a)
	w.Add(b)
	w.Update(0)
	if calls != 0 {
		t.Fatal("bodies far apart in Z collided")
	}
}

func TestRemoveDuringCallback(t *testing.T) {
	w := newTestWorld()
	calls := 0
	var h CollisionFunc = func(a, b *Body, c Contact, env Environment) {
		calls++
		if err := env.Remove(a.Handle()); err != nil {
			t.Errorf("remove a: %v", err)
		}
		if err := env.Remove(b.Handle()); err != nil {
			t.Errorf("remove b: %v", err)
		}
		env.Add(sphere(a.Position.X(), a.Position.Y(), 0, 10, layerA, layerA))
	}
	// Three mutually overlapping bodies: once the first pair is removed the
	// third has nobody left to touch.
	for _, x := range []float64{100, 105, 110} {
		b := sphere(x, 100, 0, 10, layerA, layerA)
		b.Handler = h
		w.Add(b)
	}
	w.Update(0)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if w.Len() != 2 {
		t.Fatalf("len = %d, want 2", w.Len())
	}
}

func TestBodiesOutsideGridStillCollide(t *testing.T) {
	w := newTestWorld()
	calls := 0
	a := sphere(-400, -400, 0, 10, layerA, layerA)
	b := sphere(-390, -400, 0, 10, layerA, layerA)
	a.Handler = CollisionFunc(func(_, _ *Body, _ Contact, _ Environment) { calls++ })
	w.Add(a)
	w.Add(b)
	w.Update(0)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestGridGrowsForLargeBodies(t *testing.T) {
	w := newTestWorld()
	calls := 0
	a := sphere(100, 100, 0, 70, layerA, layerA)
	b := sphere(230, 100, 0, 70, layerA, layerA)
	a.Handler = CollisionFunc(func(_, _ *Body, _ Contact, _ Environment) { calls++ })
	w.Add(a)
	w.Add(b)
	w.Update(0)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	if w.grid.CellSize() < 140 {
		t.Fatalf("cell size = %v", w.grid.CellSize())
	}
}

func TestElasticConservesMomentum(t *testing.T) {
	a := NewBody(mgl64.Vec3{0, 0, 0}, 10, 25)
	b := NewBody(mgl64.Vec3{15, 0, 0}, 10, 40)
	a.Velocity = mgl64.Vec3{30, 0, 0}
	b.Velocity = mgl64.Vec3{-10, 0, 0}
	c, ok := contact(a, b)
	if !ok {
		t.Fatal("expected contact")
	}
	before := a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass))
	keBefore := 0.5*a.Mass*a.Velocity.Dot(a.Velocity) + 0.5*b.Mass*b.Velocity.Dot(b.Velocity)

	Elastic{Elasticity: 1}.Resolve(a, b, c)

	after := a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass))
	if !approxVec(before, after) {
		t.Errorf("momentum %v -> %v", before, after)
	}
	keAfter := 0.5*a.Mass*a.Velocity.Dot(a.Velocity) + 0.5*b.Mass*b.Velocity.Dot(b.Velocity)
	if math.Abs(keBefore-keAfter) > 1e-6 {
		t.Errorf("kinetic energy %v -> %v", keBefore, keAfter)
	}
	if d := math.Sqrt(DistanceSquared(a.Position, b.Position)); d < a.Radius+b.Radius-1e-9 {
		t.Errorf("bodies still overlap after separation: distance %v", d)
	}
}

func TestElasticIgnoresSeparatingBodies(t *testing.T) {
	a := NewBody(mgl64.Vec3{0, 0, 0}, 10, 1)
	b := NewBody(mgl64.Vec3{15, 0, 0}, 10, 1)
	a.Velocity = mgl64.Vec3{-5, 0, 0}
	b.Velocity = mgl64.Vec3{5, 0, 0}
	c, _ := contact(a, b)
	Elastic{Elasticity: 1}.Resolve(a, b, c)
	if a.Velocity.X() != -5 || b.Velocity.X() != 5 {
		t.Fatalf("velocities changed: %v %v", a.Velocity, b.Velocity)
	}
}

func TestEmitterBurstExpires(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	e := NewEmitter(mgl64.Vec3{1, 2, 3}, EmitterConfig{
		Count:             75,
		Speed:             250,
		Lifetime:          0.5,
		LifetimeVariance:  0.5,
		DirectionVariance: 100,
		Colour:            color.RGBA{R: 255, A: 255},
		ColourVariance:    1,
	}, rng)
	if len(e.Particles()) != 75 {
		t.Fatalf("particles = %d", len(e.Particles()))
	}
	for _, p := range e.Particles() {
		if math.Abs(p.Velocity.Len()-250) > 1e-6 {
			t.Fatalf("particle speed = %v", p.Velocity.Len())
		}
		if p.Colour.R < 254 || p.Colour.G > 1 || p.Colour.B > 1 {
			t.Fatalf("colour = %v", p.Colour)
		}
		if p.Life < 0 || p.Life > 1 {
			t.Fatalf("life = %v", p.Life)
		}
	}

	w := newTestWorld()
	body := NewBody(mgl64.Vec3{1, 2, 3}, 0, 0)
	body.Emitter = e
	w.Add(body)
	w.Update(0.25)
	if e.Done() {
		t.Fatal("emitter finished too early")
	}
	w.Update(1.0)
	if !e.Done() {
		t.Fatalf("%d particles outlived their lifetime", len(e.Particles()))
	}
}

func TestTransformTranslates(t *testing.T) {
	b := NewBody(mgl64.Vec3{1, 2, 3}, 1, 1)
	p := b.Transform().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if !p.Vec3().ApproxEqual(mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("origin maps to %v", p)
	}
}
