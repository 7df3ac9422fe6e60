package engine

import (
	"slices"

	"github.com/talgya/ohi-sim/internal/pillar"
)

// Statistics is the running record of a game. Counters only grow.
type Statistics struct {
	CyclesPlayed          int           `json:"cyclesPlayed"`
	Investments           int           `json:"investments"`
	PointsInvested        float64       `json:"pointsInvested"`
	PoliciesMaxed         int           `json:"policiesMaxed"`
	EventsHandled         int           `json:"eventsHandled"`
	CriticalEventsManaged int           `json:"criticalEventsManaged"`
	EventsDismissed       int           `json:"eventsDismissed"`
	EventsExpired         int           `json:"eventsExpired"`
	ForgivenCost          float64       `json:"forgivenCost"`
	BestRank              int           `json:"bestRank"` // 0 until ranked
	HighestOHI            float64       `json:"highestOhi"`
	Achievements          []Achievement `json:"achievements"`
}

// Achievement is an unlocked milestone.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cycle       int    `json:"cycle"`
	Year        int    `json:"year"`
}

func (s Statistics) Clone() Statistics {
	s.Achievements = slices.Clone(s.Achievements)
	return s
}

// Has reports whether achievement id is already unlocked.
func (s Statistics) Has(id string) bool {
	return slices.ContainsFunc(s.Achievements, func(a Achievement) bool { return a.ID == id })
}

// AchievementInput is the post-cycle view achievements are judged on.
type AchievementInput struct {
	Stats   Statistics
	PrevOHI float64
	OHI     float64
	Pillars pillar.Values
	Rank    int
	Cycle   int
	Year    int
}

type achievementRule struct {
	id, title, desc string
	met             func(in AchievementInput) bool
}

func crossed(floor float64) func(AchievementInput) bool {
	return func(in AchievementInput) bool {
		return in.PrevOHI < floor && in.OHI >= floor
	}
}

func rankAtMost(n int) func(AchievementInput) bool {
	return func(in AchievementInput) bool {
		return in.Rank > 0 && in.Rank <= n
	}
}

var achievementRules = []achievementRule{
	{"first-investment", "First Steps", "Invest in a policy.", func(in AchievementInput) bool { return in.Stats.Investments >= 1 }},
	{"first-maxed", "Fully Committed", "Raise a policy to its maximum level.", func(in AchievementInput) bool { return in.Stats.PoliciesMaxed >= 1 }},
	{"five-maxed", "Policy Architect", "Max out five policies.", func(in AchievementInput) bool { return in.Stats.PoliciesMaxed >= 5 }},
	{"top-10", "Top Ten", "Reach the top 10 of the rankings.", rankAtMost(10)},
	{"top-3", "Podium", "Reach the top 3 of the rankings.", rankAtMost(3)},
	{"rank-1", "World Leader", "Reach first place.", rankAtMost(1)},
	{"stage-developing", "Developing System", "Cross into the developing maturity stage.", crossed(pillar.StageDeveloping.Floor())},
	{"stage-established", "Established System", "Cross into the established maturity stage.", crossed(pillar.StageEstablished.Floor())},
	{"stage-advanced", "Advanced System", "Cross into the advanced maturity stage.", crossed(pillar.StageAdvanced.Floor())},
	{"crisis-manager", "Crisis Manager", "Manage three critical events.", func(in AchievementInput) bool { return in.Stats.CriticalEventsManaged >= 3 }},
	{"balanced-system", "Balanced System", "Bring every pillar to 60 or above.", func(in AchievementInput) bool {
		_, low := in.Pillars.Min()
		return low >= 60
	}},
}

// EvaluateAchievements returns achievements newly met. Already unlocked ones
// are never returned again.
func EvaluateAchievements(in AchievementInput) []Achievement {
	var out []Achievement
	for _, r := range achievementRules {
		if in.Stats.Has(r.id) || !r.met(in) {
			continue
		}
		out = append(out, Achievement{ID: r.id, Title: r.title, Description: r.desc, Cycle: in.Cycle, Year: in.Year})
	}
	return out
}
