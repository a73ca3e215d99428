package state

import "testing"

// TestIntegrateScenario1 mirrors spec.md §8 scenario 1.
func TestIntegrateScenario1(t *testing.T) {
	s := State9{
		Position:     Vec3{0, 0, 0},
		Velocity:     Vec3{10, -5, 2},
		Acceleration: Vec3{1, 0, -1},
		Time:         0,
	}

	got := s.Integrate(2)

	want := Vec3{22, -10, 2}
	if got.Position != want {
		t.Fatalf("position = %+v, want %+v", got.Position, want)
	}
	wantVel := Vec3{12, -5, 0}
	if got.Velocity != wantVel {
		t.Fatalf("velocity = %+v, want %+v", got.Velocity, wantVel)
	}
	if got.Time != 2 {
		t.Fatalf("time = %v, want 2", got.Time)
	}

	proj := got.Position.ProjectXY()
	wantProj := Projection2D{X: 22, Y: -10, Plane: PlaneXY}
	if proj != wantProj {
		t.Fatalf("projectXY = %+v, want %+v", proj, wantProj)
	}
}

func TestIntegrateAdvancesTimeByDt(t *testing.T) {
	cases := []float64{0, 0.5, 1, 3.25}
	for _, dt := range cases {
		s := State9{Time: 10}
		got := s.Integrate(dt)
		if got.Time != 10+dt {
			t.Errorf("dt=%v: time = %v, want %v", dt, got.Time, 10+dt)
		}
	}
}

func TestIntegrateClampedRespectsMaxSpeed(t *testing.T) {
	bounds := MotionBounds{
		MinPos:         Vec3{-1000, -1000, -1000},
		MaxPos:         Vec3{1000, 1000, 1000},
		MaxSpeed:       5,
		MaxAccel:       50,
		MaxTurnRateDeg: 90,
	}
	s := State9{
		Velocity:     Vec3{100, 0, 0},
		Acceleration: Vec3{0, 0, 0},
	}
	got := s.IntegrateClamped(1, bounds)
	if n := got.Velocity.Norm(); n > bounds.MaxSpeed+1e-9 {
		t.Fatalf("velocity norm %v exceeds max speed %v", n, bounds.MaxSpeed)
	}
}

func TestMotionBoundsValid(t *testing.T) {
	valid := MotionBounds{MinPos: Vec3{-1, -1, -1}, MaxPos: Vec3{1, 1, 1}, MaxSpeed: 1, MaxAccel: 1, MaxTurnRateDeg: 45}
	if !valid.Valid() {
		t.Fatal("expected bounds to be valid")
	}

	invalidPos := valid
	invalidPos.MinPos.X = 2
	if invalidPos.Valid() {
		t.Fatal("expected bounds with MinPos > MaxPos to be invalid")
	}

	invalidSpeed := valid
	invalidSpeed.MaxSpeed = 0
	if invalidSpeed.Valid() {
		t.Fatal("expected bounds with MaxSpeed <= 0 to be invalid")
	}

	invalidTurn := valid
	invalidTurn.MaxTurnRateDeg = 361
	if invalidTurn.Valid() {
		t.Fatal("expected bounds with turn rate > 360 to be invalid")
	}
}
