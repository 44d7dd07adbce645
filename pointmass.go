package bubble

// DampedPointMass is a 2D point mass that accumulates forces and impulses
// between steps and integrates them with a position-based (Verlet-style)
// update. The bubble anchor and every circle stretch spring are one of these.
type DampedPointMass struct {
	Position Vec2
	Velocity Vec2
	// Mass must be positive. NewDampedPointMass substitutes 1 otherwise.
	Mass float64
	// Damping is a linear drag coefficient applied against Velocity.
	Damping float64

	force   Vec2
	impulse Vec2
}

// NewDampedPointMass creates a mass at rest at pos.
func NewDampedPointMass(pos Vec2, mass, damping float64) *DampedPointMass {
	if mass <= 0 {
		mass = 1
	}
	if damping < 0 {
		damping = 0
	}
	return &DampedPointMass{Position: pos, Mass: mass, Damping: damping}
}

// ApplyForce adds f to the force applied during the next Update.
func (m *DampedPointMass) ApplyForce(f Vec2) {
	m.force = m.force.Add(f)
}

// ApplyImpulse adds j to the pending impulse. The impulse is spread over
// exactly the next Update's dt and then discarded.
func (m *DampedPointMass) ApplyImpulse(j Vec2) {
	m.impulse = m.impulse.Add(j)
}

// Update integrates the mass by dt seconds and clears the accumulators.
// A zero dt leaves position and velocity untouched.
func (m *DampedPointMass) Update(dt float64) {
	if dt == 0 {
		m.clear()
		return
	}

	force := m.force.Add(m.impulse.Mul(1 / dt))
	force = force.Sub(m.Velocity.Mul(m.Damping))

	next := m.Position.
		Add(m.Velocity.Mul(dt)).
		Add(force.Mul(dt * dt / m.Mass))
	m.Velocity = next.Sub(m.Position).Mul(1 / dt)
	m.Position = next

	m.clear()
}

func (m *DampedPointMass) clear() {
	m.force = Vec2{}
	m.impulse = Vec2{}
}
