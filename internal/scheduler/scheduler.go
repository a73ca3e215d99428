// Package scheduler admits the primary tracking pipeline and a bounded set
// of auxiliary snapshot pipelines under per-tick time budgets (spec.md §2
// component E, §3 "Snapshot (auxiliary)").
package scheduler

import "time"

// Budget holds the configured time ceilings for one tick's work
// (`scheduler.primary_budget_ms`, `scheduler.aux_budget_ms`,
// `scheduler.max_aux_pipelines` per spec.md §4.2).
type Budget struct {
	PrimaryBudget   time.Duration
	AuxBudget       time.Duration
	MaxAuxPipelines int
}

// Decision reports whether the primary pipeline ran within budget and how
// many auxiliary pipelines were admitted this tick.
type Decision struct {
	PrimaryOK      bool
	AuxAdmitted    int
	AuxSkipped     int
	SkipModeActive bool
}

// Scheduler admits the primary pipeline unconditionally and gates auxiliary
// ("snapshot") pipelines behind a time budget and a consecutive-overrun
// hysteresis, generalized from the visualiser's slow/fast send-cooldown
// pattern.
type Scheduler struct {
	budget Budget
	cool   *cooldown
}

// New constructs a Scheduler. maxSlow/minFast tune the hysteresis: maxSlow
// consecutive over-budget ticks enter skip mode, minFast consecutive
// within-budget ticks exit it.
func New(budget Budget, maxSlow, minFast int) *Scheduler {
	return &Scheduler{budget: budget, cool: newCooldown(maxSlow, minFast)}
}

// Tick runs primaryFn unconditionally, then admits up to
// budget.MaxAuxPipelines entries from auxFns in order for as long as the
// elapsed time of the entries already admitted is below budget.AuxBudget;
// an admitted entry runs to completion even if it carries the total past
// the budget. All aux entries are skipped when the cooldown is in skip
// mode.
func (s *Scheduler) Tick(primaryFn func() time.Duration, auxFns []func() time.Duration) Decision {
	elapsed := primaryFn()
	primaryOK := elapsed <= s.budget.PrimaryBudget

	d := Decision{PrimaryOK: primaryOK}

	if primaryOK {
		s.cool.recordFast()
	} else {
		s.cool.recordSlow()
	}
	d.SkipModeActive = s.cool.inSkipMode()

	if d.SkipModeActive {
		d.AuxSkipped = len(auxFns)
		return d
	}

	var spent time.Duration
	max := s.budget.MaxAuxPipelines
	for i, fn := range auxFns {
		if i >= max {
			d.AuxSkipped += len(auxFns) - i
			break
		}
		if spent >= s.budget.AuxBudget {
			d.AuxSkipped += len(auxFns) - i
			break
		}
		spent += fn()
		d.AuxAdmitted++
	}

	return d
}
