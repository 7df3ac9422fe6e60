package advisor

import (
	"log/slog"

	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/policy"
)

// Advisor plays a session. It can drive a store directly with Act or be
// handed to an autoplay runner as both planner and event decider.
type Advisor struct {
	Catalog *policy.Catalog
	Memory  Memory
}

// New creates an Advisor for sessions using cat.
func New(cat *policy.Catalog) *Advisor {
	return &Advisor{Catalog: cat}
}

// Recommend runs observe, triage and decide without touching anything.
func (a *Advisor) Recommend(s game.State) (Snapshot, Health, Decision) {
	snap := Observe(s, a.Catalog)
	h := Triage(snap)
	return snap, h, Decide(snap, h)
}

// Plan implements autoplay.Planner.
func (a *Advisor) Plan(s game.State) []game.Action {
	snap, h, d := a.Recommend(s)
	a.remember(snap, h, d, len(d.Actions()), 0)
	return d.Actions()
}

// Choose implements autoplay.Decider.
func (a *Advisor) Choose(s game.State) (string, bool) {
	if s.CurrentEvent == nil {
		return "", false
	}
	snap := Observe(s, a.Catalog)
	return ChooseEvent(*s.CurrentEvent, snap, Triage(snap))
}

// Result counts what happened when a plan was applied.
type Result struct {
	Accepted int
	Rejected int
	State    game.State
}

// Act decides for the store's current state and dispatches the plan. A
// pending event is answered first.
func (a *Advisor) Act(st *game.Store) Result {
	var res Result
	s := st.State()
	if s.Phase == game.PhaseEvent {
		if choice, ok := a.Choose(s); ok {
			a.count(st, game.ResolveEvent{ChoiceID: choice}, &res)
		}
		s = st.State()
	}

	snap, h, d := a.Recommend(s)
	for _, act := range d.Actions() {
		a.count(st, act, &res)
	}
	a.remember(snap, h, d, res.Accepted, res.Rejected)
	res.State = st.State()
	return res
}

func (a *Advisor) count(st *game.Store, act game.Action, res *Result) {
	if _, err := st.Dispatch(act); err != nil {
		slog.Debug("advisor action rejected", "action", act.Name(), "error", err)
		res.Rejected++
		return
	}
	res.Accepted++
}

func (a *Advisor) remember(snap Snapshot, h Health, d Decision, accepted, rejected int) {
	a.Memory.Record(Record{
		Cycle:       snap.Cycle,
		Year:        snap.Year,
		OHI:         snap.OHI,
		Rank:        snap.Rank,
		CrisisLevel: h.CrisisLevel,
		Weakest:     h.Weakest,
		Accepted:    accepted,
		Rejected:    rejected,
		Rationale:   d.Rationale,
	})
}
