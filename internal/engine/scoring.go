package engine

import (
	"log/slog"
	"math"
	"slices"

	"github.com/talgya/ohi-sim/internal/budget"
	"github.com/talgya/ohi-sim/internal/pillar"
	"github.com/talgya/ohi-sim/internal/policy"
)

// CycleRecord is the durable per-cycle history entry.
type CycleRecord struct {
	Cycle         int           `json:"cycle"`
	Year          int           `json:"year"`
	Pillars       pillar.Values `json:"pillars"`
	OHIScore      float64       `json:"ohiScore"`
	Rank          int           `json:"rank"`
	RankDelta     int           `json:"rankDelta"`
	Allocated     pillar.Values `json:"allocated"`
	Spent         pillar.Values `json:"spent"`
	CarryOver     float64       `json:"carryOver"`
	PolicyDelta   pillar.Values `json:"policyDelta"`
	EffectDelta   pillar.Values `json:"effectDelta"`
	ActiveEffects int           `json:"activeEffects"`
	Achievements  []string      `json:"achievements"`
}

func (r CycleRecord) Clone() CycleRecord {
	r.Achievements = slices.Clone(r.Achievements)
	return r
}

// CycleInput is everything a cycle simulation reads.
type CycleInput struct {
	Catalog  *policy.Catalog
	Rules    Rules
	Drift    *Drift
	Year     int
	Cycle    int
	Pillars  pillar.Values
	OHIScore float64
	Budget   budget.State
	Policies policy.Ledger
	Effects  []ActiveEffect
	Rankings []Ranking
	Stats    Statistics
}

// CycleResult is the outcome of one simulated cycle. Effects are not ticked
// here; that is a separate step.
type CycleResult struct {
	Pillars      pillar.Values
	OHIScore     float64
	Rankings     []Ranking
	Rank         int
	RankDelta    int
	Achievements []Achievement
	Stats        Statistics
	Record       CycleRecord
}

// PolicyContribution is the per-cycle pillar delta of one policy. It scales
// with level over max level and with how much was spent on it this cycle.
func PolicyContribution(def policy.Definition, st policy.State, r Rules) float64 {
	if st.CurrentLevel <= 0 || def.MaxLevel <= 0 {
		return 0
	}
	levelShare := float64(st.CurrentLevel) / float64(def.MaxLevel)
	boost := 0.0
	if r.ReferenceSpend > 0 && st.InvestedThisCycle > 0 {
		boost = math.Min(st.InvestedThisCycle/r.ReferenceSpend, r.MaxSpendBoost)
	}
	return def.Impact * levelShare * (r.SustainRate + boost)
}

// SimulateCycle computes next-cycle pillars from policies, neglect and active
// effects, clamping after every additive step, then re-scores the OHI,
// rankings, statistics and achievements.
func SimulateCycle(in CycleInput) CycleResult {
	next := in.Pillars.Clamped()
	var policyDelta, effectDelta pillar.Values

	for i := 0; i < in.Catalog.Len() && i < len(in.Policies); i++ {
		def := in.Catalog.At(i)
		d := PolicyContribution(def, in.Policies[i], in.Rules)
		if d == 0 {
			continue
		}
		before := next.Get(def.Pillar)
		next.AddClamped(def.Pillar, d)
		policyDelta.Add(def.Pillar, next.Get(def.Pillar)-before)
	}

	if in.Rules.NeglectDecay > 0 {
		for _, p := range pillar.All() {
			if in.Budget.Allocated.Get(p) <= 0 {
				next.AddClamped(p, -in.Rules.NeglectDecay)
			}
		}
	}

	for _, e := range in.Effects {
		if e.RemainingCycles <= 0 {
			continue
		}
		before := next.Get(e.Pillar)
		next.AddClamped(e.Pillar, e.DeltaPerCycle)
		effectDelta.Add(e.Pillar, next.Get(e.Pillar)-before)
	}

	ohi := pillar.OHI(next, in.Rules.Weights)
	rankings := Rerank(in.Rankings, ohi, in.Cycle, in.Drift)
	me, _ := PlayerRanking(rankings)

	stats := in.Stats.Clone()
	stats.CyclesPlayed++
	stats.PoliciesMaxed = in.Policies.Count(policy.StatusMaxed)
	if me.CurrentRank > 0 && (stats.BestRank == 0 || me.CurrentRank < stats.BestRank) {
		stats.BestRank = me.CurrentRank
	}
	stats.HighestOHI = math.Max(stats.HighestOHI, ohi)

	earned := EvaluateAchievements(AchievementInput{
		Stats:   stats,
		PrevOHI: in.OHIScore,
		OHI:     ohi,
		Pillars: next,
		Rank:    me.CurrentRank,
		Cycle:   in.Cycle,
		Year:    in.Year,
	})
	stats.Achievements = append(stats.Achievements, earned...)

	ids := make([]string, len(earned))
	for i, a := range earned {
		ids[i] = a.ID
		slog.Info("achievement unlocked", "id", a.ID, "cycle", in.Cycle, "year", in.Year)
	}

	return CycleResult{
		Pillars:      next,
		OHIScore:     ohi,
		Rankings:     rankings,
		Rank:         me.CurrentRank,
		RankDelta:    me.RankDelta,
		Achievements: earned,
		Stats:        stats,
		Record: CycleRecord{
			Cycle:         in.Cycle,
			Year:          in.Year,
			Pillars:       next,
			OHIScore:      ohi,
			Rank:          me.CurrentRank,
			RankDelta:     me.RankDelta,
			Allocated:     in.Budget.Allocated,
			Spent:         in.Budget.Spent,
			CarryOver:     in.Budget.TotalAllocated() - in.Budget.TotalSpent(),
			PolicyDelta:   policyDelta,
			EffectDelta:   effectDelta,
			ActiveEffects: len(in.Effects),
			Achievements:  ids,
		},
	}
}
