// Package physics is the rigid-body environment the game registers its
// entities with: sphere bodies, gravity, collision detection and particle
// emitters.
package physics

import "github.com/go-gl/mathgl/mgl64"

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}
