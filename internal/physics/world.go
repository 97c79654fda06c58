package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldConfig configures a World.
type WorldConfig struct {
	Gravity mgl64.Vec3
	// Area covered by the broad-phase grid. Bodies outside it still collide,
	// they just share the edge cells.
	MinX, MinY, MaxX, MaxY float64
	// CellSize is the initial grid cell size. The grid grows when a body's
	// diameter exceeds it.
	CellSize float64
}

// World is the in-process Environment. Bodies are stored in slots addressed
// by generational handles. It is not safe for concurrent use.
type World struct {
	cfg         WorldConfig
	bodies      []*Body
	generations []uint32
	freeList    []uint32
	count       int

	grid      *SpatialGrid
	colliders []*Body // bodies inserted into the grid this step
}

// NewWorld returns an empty world.
func NewWorld(cfg WorldConfig) *World {
	if cfg.CellSize <= 0 {
		cfg.CellSize = 100
	}
	return &World{
		cfg:  cfg,
		grid: NewSpatialGrid(cfg.MinX, cfg.MinY, cfg.MaxX, cfg.MaxY, cfg.CellSize),
	}
}

// Add registers b and returns its handle. It may be called from inside a
// collision handler; the new body takes part from the next Update.
func (w *World) Add(b *Body) Handle {
	var idx uint32
	if n := len(w.freeList); n > 0 {
		idx = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
	} else {
		idx = uint32(len(w.bodies))
		w.bodies = append(w.bodies, nil)
		w.generations = append(w.generations, 1)
	}
	w.bodies[idx] = b
	b.handle = newHandle(idx, w.generations[idx])
	w.count++
	return b.handle
}

// Remove unregisters the body named by h. Removing twice returns
// ErrStaleHandle.
func (w *World) Remove(h Handle) error {
	b, ok := w.Lookup(h)
	if !ok {
		return ErrStaleHandle
	}
	idx := h.index()
	w.bodies[idx] = nil
	w.generations[idx]++
	if w.generations[idx] == 0 {
		w.generations[idx] = 1
	}
	w.freeList = append(w.freeList, idx)
	w.count--
	b.handle = 0
	return nil
}

// Lookup resolves a handle to its body.
func (w *World) Lookup(h Handle) (*Body, bool) {
	if h.IsZero() {
		return nil, false
	}
	idx := h.index()
	if int(idx) >= len(w.bodies) || w.generations[idx] != h.generation() || w.bodies[idx] == nil {
		return nil, false
	}
	return w.bodies[idx], true
}

// Len reports the number of registered bodies.
func (w *World) Len() int { return w.count }

// Update advances every body by dt seconds and then reports each touching
// pair once to a collision handler.
func (w *World) Update(dt float64) {
	w.integrate(dt)
	w.collide()
}

func (w *World) integrate(dt float64) {
	for _, b := range w.bodies {
		if b == nil {
			continue
		}
		if !b.NonForce && b.Mass > 0 {
			b.Velocity = b.Velocity.Add(w.cfg.Gravity.Mul(dt))
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))

		if speed := b.AngularVelocity.Len(); speed > 0 {
			spin := mgl64.QuatRotate(speed*dt, b.AngularVelocity.Mul(1/speed))
			b.Orientation = spin.Mul(b.Orientation).Normalize()
		}

		if b.Emitter != nil {
			b.Emitter.update(dt)
		}
	}
}

func (w *World) collide() {
	w.colliders = w.colliders[:0]
	maxRadius := 0.0
	for _, b := range w.bodies {
		if b == nil || b.Layer == 0 || b.Mask == 0 {
			continue
		}
		w.colliders = append(w.colliders, b)
		maxRadius = math.Max(maxRadius, b.Radius)
	}
	if len(w.colliders) < 2 {
		return
	}

	if 2*maxRadius > w.grid.CellSize() {
		w.grid = NewSpatialGrid(w.cfg.MinX, w.cfg.MinY, w.cfg.MaxX, w.cfg.MaxY, 2*maxRadius)
	}
	w.grid.Clear()
	for i, b := range w.colliders {
		w.grid.Insert(b.Position.X(), b.Position.Y(), i)
	}

	// Bodies removed by a handler have a zero handle and are skipped for
	// the rest of the step; bodies added by a handler are not in the grid.
	for i, a := range w.colliders {
		if a.handle.IsZero() {
			continue
		}
		w.grid.QueryAround(a.Position.X(), a.Position.Y(), func(j int) bool {
			if j <= i {
				return false
			}
			b := w.colliders[j]
			if b.handle.IsZero() || !a.collidesWith(b) {
				return false
			}
			c, ok := contact(a, b)
			if !ok {
				return false
			}
			h := a.Handler
			if h == nil {
				h = b.Handler
			}
			if h != nil {
				h.Collide(a, b, c, w)
			}
			return a.handle.IsZero()
		})
	}
}

func contact(a, b *Body) (Contact, bool) {
	r := a.Radius + b.Radius
	dist2 := DistanceSquared(a.Position, b.Position)
	if dist2 >= r*r {
		return Contact{}, false
	}
	dist := math.Sqrt(dist2)
	n := mgl64.Vec3{0, 0, 1}
	if dist > 0 {
		n = b.Position.Sub(a.Position).Mul(1 / dist)
	}
	return Contact{
		Point:  a.Position.Add(n.Mul(a.Radius)),
		Normal: n,
		Depth:  r - dist,
	}, true
}
