package motion

import (
	"math"
	"testing"

	"github.com/airtrace/core/internal/state"
)

func defaultBounds() state.MotionBounds {
	return state.MotionBounds{
		MinPos:         state.Vec3{X: -1e6, Y: -1e6, Z: -1e6},
		MaxPos:         state.Vec3{X: 1e6, Y: 1e6, Z: 1e6},
		MaxSpeed:       1000,
		MaxAccel:       100,
		MaxTurnRateDeg: 90,
	}
}

func TestConstantVelocityZeroesAcceleration(t *testing.T) {
	s := state.State9{Velocity: state.Vec3{X: 10}, Acceleration: state.Vec3{X: 5}}
	got := Step(ConstantVelocity, s, 1, defaultBounds(), 0)
	if got.Acceleration != (state.Vec3{}) {
		t.Fatalf("expected zero acceleration, got %+v", got.Acceleration)
	}
	if got.Velocity.X != 10 {
		t.Fatalf("expected velocity to be held constant, got %+v", got.Velocity)
	}
}

func TestConstantAccelerationMatchesIntegrate(t *testing.T) {
	s := state.State9{Velocity: state.Vec3{X: 1}, Acceleration: state.Vec3{X: 2}}
	got := Step(ConstantAcceleration, s, 0.5, defaultBounds(), 0)
	want := s.IntegrateClamped(0.5, defaultBounds())
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCoordinatedTurnPreservesSpeed(t *testing.T) {
	s := state.State9{Velocity: state.Vec3{X: 10, Y: 0}}
	got := Step(CoordinatedTurn, s, 1, defaultBounds(), 90)
	speedBefore := math.Hypot(s.Velocity.X, s.Velocity.Y)
	speedAfter := math.Hypot(got.Velocity.X, got.Velocity.Y)
	if math.Abs(speedBefore-speedAfter) > 1e-9 {
		t.Fatalf("speed changed: before=%v after=%v", speedBefore, speedAfter)
	}
}

func TestCoordinatedTurnRotatesHeading(t *testing.T) {
	s := state.State9{Velocity: state.Vec3{X: 10, Y: 0}}
	got := Step(CoordinatedTurn, s, 1, defaultBounds(), 90)
	if got.Velocity.Y <= 0 {
		t.Fatalf("expected positive Y velocity after a 90deg/s turn for 1s, got %+v", got.Velocity)
	}
}

func TestWeavingIsStableAtRest(t *testing.T) {
	s := state.State9{}
	got := Step(Weaving, s, 1, defaultBounds(), 45)
	if got.Position != (state.Vec3{}) || got.Velocity != (state.Vec3{}) {
		t.Fatalf("expected a resting state to remain at rest, got %+v", got)
	}
}

func TestTurnRateClampedToBounds(t *testing.T) {
	bounds := defaultBounds()
	bounds.MaxTurnRateDeg = 10
	s := state.State9{Velocity: state.Vec3{X: 10, Y: 0}}
	clamped := Step(CoordinatedTurn, s, 1, bounds, 90)
	unclamped := Step(CoordinatedTurn, s, 1, bounds, 10)
	if clamped != unclamped {
		t.Fatalf("expected turn rate request above bounds to be clamped: %+v != %+v", clamped, unclamped)
	}
}

func TestModelString(t *testing.T) {
	cases := map[Model]string{
		ConstantVelocity:     "constant_velocity",
		ConstantAcceleration: "constant_acceleration",
		CoordinatedTurn:      "coordinated_turn",
		Weaving:              "weaving",
		Model(99):            "unknown",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Model(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
