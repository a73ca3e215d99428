package state

// State9 is the 9-element kinematic state (spec.md §3): position, velocity,
// acceleration, each a Vec3, plus elapsed simulation time in seconds.
type State9 struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Time         float64
}

// MotionBounds constrains the admissible range of a State9 (spec.md §3).
// Invariants: MinPos <= MaxPos componentwise; MaxSpeed, MaxAccel > 0;
// 0 <= MaxTurnRateDeg <= 360.
type MotionBounds struct {
	MinPos         Vec3
	MaxPos         Vec3
	MaxSpeed       float64
	MaxAccel       float64
	MaxTurnRateDeg float64
}

// Valid reports whether b satisfies its documented invariants.
func (b MotionBounds) Valid() bool {
	if b.MinPos.X > b.MaxPos.X || b.MinPos.Y > b.MaxPos.Y || b.MinPos.Z > b.MaxPos.Z {
		return false
	}
	if b.MaxSpeed <= 0 || b.MaxAccel <= 0 {
		return false
	}
	if b.MaxTurnRateDeg < 0 || b.MaxTurnRateDeg > 360 {
		return false
	}
	return true
}

// Integrate performs second-order constant-acceleration integration over dt
// seconds (spec.md §3, §8 scenario 1):
//
//	position += velocity*dt + 0.5*acceleration*dt^2
//	velocity += acceleration*dt
//	time     += dt
//
// Acceleration is held constant across the step. dt must be >= 0; the
// caller is responsible for bounds-clamping the result (see IntegrateClamped).
func (s State9) Integrate(dt float64) State9 {
	halfDt2 := 0.5 * dt * dt
	return State9{
		Position: Vec3{
			X: s.Position.X + s.Velocity.X*dt + s.Acceleration.X*halfDt2,
			Y: s.Position.Y + s.Velocity.Y*dt + s.Acceleration.Y*halfDt2,
			Z: s.Position.Z + s.Velocity.Z*dt + s.Acceleration.Z*halfDt2,
		},
		Velocity: Vec3{
			X: s.Velocity.X + s.Acceleration.X*dt,
			Y: s.Velocity.Y + s.Acceleration.Y*dt,
			Z: s.Velocity.Z + s.Acceleration.Z*dt,
		},
		Acceleration: s.Acceleration,
		Time:         s.Time + dt,
	}
}

// IntegrateClamped integrates s by dt and then clamps velocity, acceleration
// magnitude and position to bounds (spec.md §8: "||integrate_then_clamp(s,dt).velocity|| <= bounds.max_speed").
func (s State9) IntegrateClamped(dt float64, bounds MotionBounds) State9 {
	next := s.Integrate(dt)
	next.Velocity = next.Velocity.ClampNorm(bounds.MaxSpeed)
	next.Acceleration = next.Acceleration.ClampNorm(bounds.MaxAccel)
	next.Position = next.Position.ClampComponents(bounds.MinPos, bounds.MaxPos)
	return next
}
