// Package advisor is a rule-based headless player. Each cycle it observes the
// session, triages pillar health, decides an allocation and investment plan,
// and acts on it through the store.
package advisor

import (
	"github.com/talgya/ohi-sim/internal/budget"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/pillar"
	"github.com/talgya/ohi-sim/internal/policy"
)

// trendWindow is how many history entries the trend is measured over.
const trendWindow = 3

// Snapshot holds everything collected during an observation.
type Snapshot struct {
	Cycle   int
	Year    int
	Pillars pillar.Values
	OHI     float64
	Rank    int
	Budget  budget.State
	Trend   pillar.Values // average per-cycle change over recent history
	Options []Option
}

// Option is a policy that can be invested in right now.
type Option struct {
	Def   policy.Definition
	Level int
}

// Observe collects a Snapshot from s.
func Observe(s game.State, cat *policy.Catalog) Snapshot {
	snap := Snapshot{
		Cycle:   s.Cycle,
		Year:    s.Year,
		Pillars: s.Pillars,
		OHI:     s.OHIScore,
		Rank:    s.Rank(),
		Budget:  s.Budget,
	}

	if n := len(s.History); n >= 2 {
		from := s.History[max(0, n-trendWindow)]
		to := s.History[n-1]
		span := float64(to.Cycle - from.Cycle)
		if span > 0 {
			for _, p := range pillar.All() {
				snap.Trend.Set(p, (to.Pillars.Get(p)-from.Pillars.Get(p))/span)
			}
		}
	}

	for i, st := range s.Policies {
		if i >= cat.Len() || !st.Status.Investable() {
			continue
		}
		snap.Options = append(snap.Options, Option{Def: cat.At(i), Level: st.CurrentLevel})
	}
	return snap
}
