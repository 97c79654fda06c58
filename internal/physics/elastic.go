package physics

// Elastic is the base collision response: an impulse along the contact
// normal scaled by the coefficient of restitution, then positional
// separation split by mass.
type Elastic struct {
	Elasticity float64
}

func (e Elastic) Collide(a, b *Body, c Contact, _ Environment) {
	e.Resolve(a, b, c)
}

// Resolve applies the response to a and b.
func (e Elastic) Resolve(a, b *Body, c Contact) {
	invA, invB := a.InverseMass(), b.InverseMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}
	n := c.Normal

	// Relative velocity along the collision normal. Positive means the
	// bodies are approaching.
	dvn := a.Velocity.Sub(b.Velocity).Dot(n)
	if dvn > 0 {
		j := (1 + e.Elasticity) * dvn / invSum
		a.Velocity = a.Velocity.Sub(n.Mul(j * invA))
		b.Velocity = b.Velocity.Add(n.Mul(j * invB))
	}

	if c.Depth > 0 {
		a.Position = a.Position.Sub(n.Mul(c.Depth * invA / invSum))
		b.Position = b.Position.Add(n.Mul(c.Depth * invB / invSum))
	}
}
