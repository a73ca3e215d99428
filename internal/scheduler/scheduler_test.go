package scheduler

import (
	"testing"
	"time"
)

func noop(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func TestTickAdmitsAuxWithinBudget(t *testing.T) {
	s := New(Budget{PrimaryBudget: 10 * time.Millisecond, AuxBudget: 4 * time.Millisecond, MaxAuxPipelines: 3}, 3, 2)

	d := s.Tick(noop(1*time.Millisecond), []func() time.Duration{
		noop(2 * time.Millisecond),
		noop(2 * time.Millisecond),
		noop(2 * time.Millisecond),
	})

	if !d.PrimaryOK {
		t.Fatal("expected primary within budget")
	}
	if d.AuxAdmitted != 2 {
		t.Fatalf("want 2 aux admitted (budget exhausted on 3rd), got %d", d.AuxAdmitted)
	}
	if d.AuxSkipped != 1 {
		t.Fatalf("want 1 aux skipped, got %d", d.AuxSkipped)
	}
}

func TestTickCapsAtMaxAuxPipelines(t *testing.T) {
	s := New(Budget{PrimaryBudget: 10 * time.Millisecond, AuxBudget: time.Second, MaxAuxPipelines: 1}, 3, 2)

	d := s.Tick(noop(0), []func() time.Duration{noop(0), noop(0), noop(0)})

	if d.AuxAdmitted != 1 {
		t.Fatalf("want 1 aux admitted, got %d", d.AuxAdmitted)
	}
	if d.AuxSkipped != 2 {
		t.Fatalf("want 2 aux skipped, got %d", d.AuxSkipped)
	}
}

func TestSkipModeEntersAfterConsecutiveOverruns(t *testing.T) {
	s := New(Budget{PrimaryBudget: time.Millisecond, AuxBudget: time.Second, MaxAuxPipelines: 5}, 2, 2)

	s.Tick(noop(10*time.Millisecond), nil)
	d := s.Tick(noop(10*time.Millisecond), []func() time.Duration{noop(0)})

	if !d.SkipModeActive {
		t.Fatal("expected skip mode after 2 consecutive overruns")
	}
	if d.AuxAdmitted != 0 || d.AuxSkipped != 1 {
		t.Fatalf("expected all aux skipped in skip mode, got admitted=%d skipped=%d", d.AuxAdmitted, d.AuxSkipped)
	}
}

func TestSkipModeExitsAfterConsecutiveFastRuns(t *testing.T) {
	s := New(Budget{PrimaryBudget: time.Millisecond, AuxBudget: time.Second, MaxAuxPipelines: 5}, 2, 2)

	s.Tick(noop(10*time.Millisecond), nil)
	s.Tick(noop(10*time.Millisecond), nil)
	s.Tick(noop(0), nil)
	d := s.Tick(noop(0), []func() time.Duration{noop(0)})

	if d.SkipModeActive {
		t.Fatal("expected skip mode to have cleared after 2 consecutive fast runs")
	}
	if d.AuxAdmitted != 1 {
		t.Fatalf("want 1 aux admitted, got %d", d.AuxAdmitted)
	}
}
