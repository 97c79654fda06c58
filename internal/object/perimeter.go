package object

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/spaceshooter/internal/config"
)

// PerimeterObject is a decorative rock along an edge of the field. It is
// never registered with physics and never collides.
type PerimeterObject struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Perimeter is the fixed set of rocks streaming past the four edges of the
// field. Its members are always active and recycle forever.
type Perimeter struct {
	objects      []PerimeterObject
	cameraHeight float64
	recycleZ     float64
	scale        float64
	model        Model
}

// NewPerimeter splits cfg.Perimeter.Count rocks evenly over the top,
// bottom, left and right edges.
func NewPerimeter(cfg config.Config, rng *rand.Rand) *Perimeter {
	f := cfg.Field
	pc := cfg.Perimeter
	p := &Perimeter{
		cameraHeight: f.CameraHeight,
		recycleZ:     f.CameraHeight - 0.9*f.CameraMaxDistance,
		scale:        pc.Scale,
		model:        newRockModel(rng),
	}

	perSide := pc.Count / 4
	edges := []func() (x, y float64){
		func() (float64, float64) { return uniform(rng, 0, f.SizeX), f.SizeY }, // top
		func() (float64, float64) { return uniform(rng, 0, f.SizeX), 0 },       // bottom
		func() (float64, float64) { return 0, uniform(rng, 0, f.SizeY) },       // left
		func() (float64, float64) { return f.SizeX, uniform(rng, 0, f.SizeY) }, // right
	}
	p.objects = make([]PerimeterObject, 0, perSide*len(edges))
	for _, edge := range edges {
		for range perSide {
			x, y := edge()
			p.objects = append(p.objects, PerimeterObject{
				Position: mgl64.Vec3{x, y, uniform(rng, p.recycleZ, f.CameraHeight)},
				Velocity: mgl64.Vec3{0, 0, uniform(rng, pc.MinSpeed, pc.MaxSpeed)},
			})
		}
	}
	return p
}

// Update advances every rock by adjust times its velocity. Rocks that
// passed the camera start over in the distance.
func (p *Perimeter) Update(adjust float64) {
	for i := range p.objects {
		o := &p.objects[i]
		o.Position = o.Position.Add(o.Velocity.Mul(adjust))
		if o.Position.Z() > p.cameraHeight {
			o.Position[2] = p.recycleZ
		}
	}
}

// Objects returns the perimeter rocks.
func (p *Perimeter) Objects() []PerimeterObject { return p.objects }

// Draw renders the rocks, as pixels once they are small enough.
func (p *Perimeter) Draw(ctx DrawContext) {
	for _, o := range p.objects {
		drawModel(ctx, p.model, mgl64.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z()), p.scale, false)
	}
}
