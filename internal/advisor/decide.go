package advisor

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// minInvestment is the smallest spend worth making.
const minInvestment = 5.0

// Decision is the advisor's plan for one cycle.
type Decision struct {
	Allocation  pillar.Values
	Investments []game.InvestPolicy
	Rationale   string
}

// Actions returns the decision as store actions, allocation first.
func (d Decision) Actions() []game.Action {
	out := make([]game.Action, 0, len(d.Investments)+1)
	out = append(out, game.AllocateBudget{Allocation: d.Allocation})
	for _, inv := range d.Investments {
		out = append(out, inv)
	}
	return out
}

// Decide splits the budget by triage priority and spends each pillar's share
// on its most impactful open policies.
func Decide(snap Snapshot, h Health) Decision {
	total := snap.Budget.Total
	var d Decision
	for _, p := range pillar.All() {
		// Round down to cents so the shares never sum past the total.
		share := math.Floor(total*h.Priority.Get(p)*100) / 100
		d.Allocation.Set(p, max(share, snap.Budget.Spent.Get(p)))
	}
	if d.Allocation.Sum() > total {
		// Spending already exceeds the plan somewhere; keep the current split.
		d.Allocation = snap.Budget.Allocated
	}

	order := pillar.All()
	slices.SortStableFunc(order, func(a, b pillar.Pillar) int {
		return cmp.Compare(h.Priority.Get(b), h.Priority.Get(a))
	})

	for _, p := range order {
		left := d.Allocation.Get(p) - snap.Budget.Spent.Get(p)
		opts := optionsFor(snap.Options, p)
		for _, o := range opts {
			if left < minInvestment {
				break
			}
			pts := min(o.Def.SuggestedCost, left)
			if pts <= 0 {
				pts = left
			}
			d.Investments = append(d.Investments, game.InvestPolicy{PolicyID: o.Def.ID, Points: pts})
			left -= pts
		}
	}

	d.Rationale = fmt.Sprintf("%s: weakest %s at %.1f, %d investments",
		h.CrisisLevel, h.Weakest.Label(), snap.Pillars.Get(h.Weakest), len(d.Investments))
	return d
}

// optionsFor returns the open policies of p, highest remaining payoff first.
func optionsFor(all []Option, p pillar.Pillar) []Option {
	var out []Option
	for _, o := range all {
		if o.Def.Pillar == p {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b Option) int {
		return cmp.Compare(payoff(b), payoff(a))
	})
	return out
}

// payoff is the impact gained per level still to buy.
func payoff(o Option) float64 {
	if o.Def.MaxLevel <= 0 {
		return 0
	}
	return o.Def.Impact / float64(o.Def.MaxLevel)
}

// ChooseEvent picks the choice with the best expected pillar change net of
// its cost. Cost is scaled so spending the whole budget weighs as much as
// losing 25 pillar points.
func ChooseEvent(ev engine.GameEvent, snap Snapshot, h Health) (string, bool) {
	if len(ev.Choices) == 0 {
		return "", false
	}
	costScale := 25 / max(snap.Budget.Total, 1)
	if h.CrisisLevel == Critical {
		// In a crisis pillar points matter more than budget.
		costScale /= 2
	}

	best, bestScore := "", math.Inf(-1)
	for _, c := range ev.Choices {
		score := valueOf(c, h) - c.Cost*costScale
		if score > bestScore {
			best, bestScore = c.ID, score
		}
	}
	return best, true
}

// valueOf weights a choice's pillar changes by how much each pillar needs
// them.
func valueOf(c engine.Choice, h Health) float64 {
	var v float64
	for _, p := range pillar.All() {
		v += c.Impacts.Get(p) * (1 + h.Priority.Get(p))
	}
	for _, t := range c.Effects {
		v += t.Delta * float64(t.Duration) * (1 + h.Priority.Get(t.Pillar))
	}
	return v
}
