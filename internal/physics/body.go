package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrStaleHandle is returned when a handle no longer names a live body,
// typically because the body was already removed.
var ErrStaleHandle = errors.New("stale physics handle")

// Handle identifies a body registered with an Environment. It encodes a
// 32-bit slot index in the lower bits and a 32-bit generation in the upper
// bits; removing a body bumps the generation so old handles stop resolving.
// The zero Handle is never issued.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// IsZero reports whether h is the unset handle.
func (h Handle) IsZero() bool { return h == 0 }

// Layer is a collision category bitmask.
type Layer uint32

// Owner points back from a body to the game entity that owns it. It is a
// lookup key only; the environment never acts on it.
type Owner struct {
	Kind uint8
	Slot int
}

// Contact describes where two bodies touch. Normal points from the first
// body toward the second.
type Contact struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

// CollisionHandler responds to a contact between two bodies. It is called
// synchronously from Environment.Update.
type CollisionHandler interface {
	Collide(a, b *Body, c Contact, env Environment)
}

// CollisionFunc adapts a function to CollisionHandler.
type CollisionFunc func(a, b *Body, c Contact, env Environment)

func (f CollisionFunc) Collide(a, b *Body, c Contact, env Environment) { f(a, b, c, env) }

// Environment is the physics collaborator the game talks to.
type Environment interface {
	Add(b *Body) Handle
	Remove(h Handle) error
	Update(dt float64)
	Lookup(h Handle) (*Body, bool)
}

// Body is a sphere with linear and angular state.
type Body struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3 // axis * radians per second

	Radius float64
	Mass   float64
	// NonForce bodies are not affected by gravity.
	NonForce bool

	// A pair of bodies is tested only when each one's Mask includes the
	// other's Layer.
	Layer Layer
	Mask  Layer

	Owner   Owner
	Handler CollisionHandler
	Emitter *Emitter

	handle Handle
}

// NewBody returns a body with identity orientation.
func NewBody(pos mgl64.Vec3, radius, mass float64) *Body {
	return &Body{
		Position:    pos,
		Orientation: mgl64.QuatIdent(),
		Radius:      radius,
		Mass:        mass,
	}
}

// Handle returns the handle the body was registered under, or zero.
func (b *Body) Handle() Handle { return b.handle }

// Transform is the body's world matrix: rotation followed by translation.
func (b *Body) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(b.Position.X(), b.Position.Y(), b.Position.Z()).Mul4(b.Orientation.Mat4())
}

// InverseMass is zero for massless bodies, which then act as immovable.
func (b *Body) InverseMass() float64 {
	if b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) collidesWith(o *Body) bool {
	return b.Mask&o.Layer != 0 && o.Mask&b.Layer != 0
}
