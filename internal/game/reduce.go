package game

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/ohi-sim/internal/budget"
	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/pillar"
	"github.com/talgya/ohi-sim/internal/policy"
)

var (
	ErrWrongPhase     = errors.New("action not allowed in this phase")
	ErrNoCountry      = errors.New("no country selected")
	ErrInvalidCountry = errors.New("invalid country profile")
	ErrNoEvent        = errors.New("no pending event")
	ErrInvalidPillar  = errors.New("invalid pillar")
	ErrUnknownAction  = errors.New("unknown action")
)

// Reduce returns the state after a. Illegal actions return s unchanged.
func Reduce(env Env, s State, a Action) State {
	next, err := apply(env, s, a)
	if err != nil {
		return s
	}
	return next
}

// Explain reports why a would be rejected in s, or nil if it is legal.
func Explain(env Env, s State, a Action) error {
	_, err := apply(env, s, a)
	return err
}

func wrongPhase(a Action, s State) error {
	return fmt.Errorf("%w: %s in %s", ErrWrongPhase, a.Name(), s.Phase)
}

func apply(env Env, s State, a Action) (State, error) {
	switch a := a.(type) {
	case SelectCountry:
		return selectCountry(env, s, a)
	case StartGame:
		if s.Phase != PhaseSetup {
			return s, wrongPhase(a, s)
		}
		if s.Country == nil {
			return s, ErrNoCountry
		}
		return withPhase(s, PhasePlaying), nil
	case AllocateBudget:
		return allocate(s, a)
	case InvestPolicy:
		return invest(env, s, a)
	case AdvanceCycle:
		return advance(env, s, a)
	case TriggerEvent:
		return trigger(s, a)
	case ResolveEvent:
		if s.Phase != PhaseEvent {
			return s, wrongPhase(a, s)
		}
		return resolve(env, s, a.ChoiceID, false)
	case ExpireEvent:
		if s.Phase != PhaseEvent {
			return s, wrongPhase(a, s)
		}
		if s.CurrentEvent == nil {
			return s, ErrNoEvent
		}
		return resolve(env, s, s.CurrentEvent.DefaultChoice().ID, true)
	case DismissEvent:
		return dismiss(s, a)
	case PauseGame:
		return transition(s, a, PhasePlaying, PhasePaused)
	case ResumeGame:
		return transition(s, a, PhasePaused, PhasePlaying)
	case ContinueGame:
		return transition(s, a, PhaseResults, PhasePlaying)
	case SetAutoAdvance:
		next := s.Clone()
		next.UI.AutoAdvance = a.Enabled
		if a.Speed > 0 {
			next.UI.Speed = a.Speed
		}
		return next, nil
	case SelectPillar:
		if a.Pillar != nil && !a.Pillar.Valid() {
			return s, ErrInvalidPillar
		}
		next := s.Clone()
		next.UI.SelectedPillar = nil
		if a.Pillar != nil {
			p := *a.Pillar
			next.UI.SelectedPillar = &p
		}
		return next, nil
	case ToggleWorldMap:
		next := s.Clone()
		next.UI.WorldMapVisible = !next.UI.WorldMapVisible
		return next, nil
	case ResetGame:
		return NewState(env), nil
	case nil:
		return s, ErrUnknownAction
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownAction, a.Name())
	}
}

func withPhase(s State, p Phase) State {
	next := s.Clone()
	next.Phase = p
	return next
}

func transition(s State, a Action, from, to Phase) (State, error) {
	if s.Phase != from {
		return s, wrongPhase(a, s)
	}
	return withPhase(s, to), nil
}

func selectCountry(env Env, s State, a SelectCountry) (State, error) {
	if s.Phase != PhaseSetup {
		return s, wrongPhase(a, s)
	}
	if a.Profile.ISO == "" {
		return s, fmt.Errorf("%w: empty iso", ErrInvalidCountry)
	}
	if !a.Profile.InitialPillars.Finite() {
		return s, fmt.Errorf("%w: %s: non-finite pillars", ErrInvalidCountry, a.Profile.ISO)
	}

	prof := a.Profile
	prof.InitialPillars = prof.InitialPillars.Clamped()
	ohi := pillar.OHI(prof.InitialPillars, env.Rules.Weights)

	next := NewState(env)
	next.UI = s.UI
	next.Country = &prof
	next.Pillars = prof.InitialPillars
	next.OHIScore = ohi
	next.Budget = budget.New(country.BudgetPoints(prof))
	next.Policies = policy.NewLedger(env.Catalog, env.Rules.StartYear)
	next.Rankings = engine.GenerateBaseRankings(prof, ohi, env.Field)
	next.Statistics = engine.Statistics{BestRank: next.Rank(), HighestOHI: ohi}
	return next, nil
}

func allocate(s State, a AllocateBudget) (State, error) {
	if s.Country == nil {
		return s, ErrNoCountry
	}
	b, err := s.Budget.Allocate(a.Allocation)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	next.Budget = b
	return next, nil
}

func invest(env Env, s State, a InvestPolicy) (State, error) {
	if s.Country == nil {
		return s, ErrNoCountry
	}
	if s.Phase == PhaseSetup || s.Phase == PhaseEnded {
		return s, wrongPhase(a, s)
	}
	def, ok := env.Catalog.Get(a.PolicyID)
	if !ok {
		return s, fmt.Errorf("%w: %q", policy.ErrUnknownPolicy, a.PolicyID)
	}
	if err := s.Policies.Check(env.Catalog, a.PolicyID); err != nil {
		return s, err
	}
	b, err := s.Budget.Spend(def.Pillar, a.Points)
	if err != nil {
		return s, err
	}
	ledger, err := s.Policies.Invest(env.Catalog, a.PolicyID, a.Points, s.Year)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	next.Budget = b
	next.Policies = ledger
	next.Statistics.Investments++
	next.Statistics.PointsInvested += a.Points
	next.Statistics.PoliciesMaxed = ledger.Count(policy.StatusMaxed)
	return next, nil
}

func advance(env Env, s State, a AdvanceCycle) (State, error) {
	if s.Phase != PhasePlaying && s.Phase != PhasePaused {
		return s, wrongPhase(a, s)
	}
	if s.Country == nil {
		return s, ErrNoCountry
	}

	res := engine.SimulateCycle(engine.CycleInput{
		Catalog:  env.Catalog,
		Rules:    env.Rules,
		Drift:    env.Drift,
		Year:     s.Year,
		Cycle:    s.Cycle,
		Pillars:  s.Pillars,
		OHIScore: s.OHIScore,
		Budget:   s.Budget,
		Policies: s.Policies,
		Effects:  s.ActiveEffects,
		Rankings: s.Rankings,
		Stats:    s.Statistics,
	})

	next := s.Clone()
	next.Pillars = res.Pillars
	next.OHIScore = res.OHIScore
	next.ActiveEffects = engine.TickEffects(s.ActiveEffects)
	next.Rankings = res.Rankings
	next.History = append(slices.Clip(next.History), res.Record)
	next.Statistics = res.Stats
	next.Budget = s.Budget.ResetCycle()
	next.Policies = s.Policies.ResetCycle()
	next.Year += env.Rules.CycleYears
	next.Cycle++
	next.Policies = next.Policies.Refresh(env.Catalog, next.Year)

	if next.Year >= next.EndYear {
		next.Phase = PhaseEnded
		next.UI.AutoAdvance = false
	} else {
		next.Phase = PhaseResults
	}

	slog.Debug("cycle advanced",
		"cycle", s.Cycle,
		"year", next.Year,
		"ohi", res.OHIScore,
		"rank", res.Rank,
		"rank_delta", res.RankDelta,
		"effects", len(next.ActiveEffects),
		"phase", next.Phase,
	)
	return next, nil
}

func trigger(s State, a TriggerEvent) (State, error) {
	if s.Phase != PhasePlaying {
		return s, wrongPhase(a, s)
	}
	if err := a.Event.Validate(); err != nil {
		return s, err
	}
	ev := a.Event.Clone()
	ev.TriggeredCycle = s.Cycle
	ev.IsResolved = false
	ev.SelectedChoice = ""

	next := s.Clone()
	next.CurrentEvent = &ev
	next.Phase = PhaseEvent
	next.UI.AutoAdvance = false
	return next, nil
}

func resolve(env Env, s State, choiceID string, expired bool) (State, error) {
	if s.CurrentEvent == nil {
		return s, ErrNoEvent
	}
	res, err := engine.ResolveEvent(engine.ResolveInput{
		Event:    *s.CurrentEvent,
		ChoiceID: choiceID,
		Cycle:    s.Cycle,
		Year:     s.Year,
		Rank:     s.Rank(),
		Pillars:  s.Pillars,
		Budget:   s.Budget,
		Effects:  s.ActiveEffects,
		Stats:    s.Statistics,
		Weights:  env.Rules.Weights,
	})
	if err != nil {
		return s, err
	}

	next := s.Clone()
	next.Pillars = res.Pillars
	next.OHIScore = res.OHIScore
	next.Budget = res.Budget
	next.ActiveEffects = res.Effects
	next.Statistics = res.Stats
	if expired {
		next.Statistics.EventsExpired++
	}
	next.EventLog = append(slices.Clip(next.EventLog), res.Event)
	next.CurrentEvent = nil
	next.Phase = PhasePlaying
	return next, nil
}

func dismiss(s State, a DismissEvent) (State, error) {
	if s.Phase != PhaseEvent {
		return s, wrongPhase(a, s)
	}
	next := s.Clone()
	if next.CurrentEvent != nil {
		next.EventLog = append(slices.Clip(next.EventLog), *next.CurrentEvent)
	}
	next.CurrentEvent = nil
	next.Statistics.EventsDismissed++
	next.Phase = PhasePlaying
	return next, nil
}
