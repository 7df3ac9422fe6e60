package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// ErrInconsistent marks a state that violates a structural invariant.
var ErrInconsistent = errors.New("inconsistent state")

// Validate checks the invariants every reachable state satisfies. It is used
// on restored snapshots and in tests.
func (s State) Validate(env Env) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
	}

	var err error
	s.Pillars.Each(func(p pillar.Pillar, v float64) {
		if err == nil && (v < 0 || v > pillar.MaxScore || math.IsNaN(v)) {
			err = bad("pillar %s = %v", p, v)
		}
	})
	if err != nil {
		return err
	}
	if s.OHIScore < 0 || s.OHIScore > pillar.MaxOHI {
		return bad("ohi %v out of range", s.OHIScore)
	}
	if s.Country == nil {
		if s.Phase != PhaseSetup {
			return bad("phase %s without a country", s.Phase)
		}
		return nil
	}
	if want := pillar.OHI(s.Pillars, env.Rules.Weights); math.Abs(want-s.OHIScore) > 1e-9 {
		return bad("ohi %v does not match pillars (%v)", s.OHIScore, want)
	}
	if !s.Policies.Consistent(env.Catalog, s.Year) {
		return bad("policy ledger statuses are stale")
	}
	if !engine.RankingsConsistent(s.Rankings) {
		return bad("rankings out of order")
	}
	for _, e := range s.ActiveEffects {
		if e.RemainingCycles <= 0 {
			return bad("expired effect %s still registered", e.ID)
		}
	}
	if !s.Budget.Spent.NonNegative() || !s.Budget.Allocated.NonNegative() {
		return bad("negative budget")
	}
	if (s.Phase == PhaseEvent) != (s.CurrentEvent != nil) {
		return bad("phase %s with event=%v", s.Phase, s.CurrentEvent != nil)
	}
	return nil
}
