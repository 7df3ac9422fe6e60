package engine

import (
	"cmp"
	"slices"

	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// Ranking is one row of the league table.
type Ranking struct {
	ISO          string  `json:"iso"`
	Name         string  `json:"name"`
	BaseScore    float64 `json:"baseScore"`
	CurrentScore float64 `json:"currentScore"`
	CurrentRank  int     `json:"currentRank"` // 1 = best
	PreviousRank int     `json:"previousRank"`
	RankDelta    int     `json:"rankDelta"` // positive = improvement
	IsPlayer     bool    `json:"isPlayer"`
}

// sortRankings orders by score descending, ISO ascending on ties, and assigns
// ranks by position.
func sortRankings(list []Ranking) {
	slices.SortStableFunc(list, func(a, b Ranking) int {
		if c := cmp.Compare(b.CurrentScore, a.CurrentScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ISO, b.ISO)
	})
	for i := range list {
		list[i].CurrentRank = i + 1
	}
}

// GenerateBaseRankings builds the starting table: every country in field
// except the player's own entry, plus the player scored at playerScore.
func GenerateBaseRankings(player country.Profile, playerScore float64, field []country.Profile) []Ranking {
	list := make([]Ranking, 0, len(field)+1)
	for _, c := range field {
		if c.ISO == player.ISO {
			continue
		}
		base := pillar.ClampOHI(c.InitialOHI)
		list = append(list, Ranking{ISO: c.ISO, Name: c.Name, BaseScore: base, CurrentScore: base})
	}
	ps := pillar.ClampOHI(playerScore)
	list = append(list, Ranking{ISO: player.ISO, Name: player.Name, BaseScore: ps, CurrentScore: ps, IsPlayer: true})
	sortRankings(list)
	for i := range list {
		list[i].PreviousRank = list[i].CurrentRank
	}
	return list
}

// Rerank re-scores the table for cycle and re-sorts it. The player's entry
// takes playerScore; competitors follow drift.
func Rerank(prev []Ranking, playerScore float64, cycle int, drift *Drift) []Ranking {
	list := slices.Clone(prev)
	for i := range list {
		r := &list[i]
		r.PreviousRank = r.CurrentRank
		if r.IsPlayer {
			r.CurrentScore = pillar.ClampOHI(playerScore)
		} else {
			r.CurrentScore = drift.Score(r.ISO, r.BaseScore, cycle)
		}
	}
	sortRankings(list)
	for i := range list {
		list[i].RankDelta = list[i].PreviousRank - list[i].CurrentRank
	}
	return list
}

// PlayerRanking returns the player's row.
func PlayerRanking(list []Ranking) (Ranking, bool) {
	for _, r := range list {
		if r.IsPlayer {
			return r, true
		}
	}
	return Ranking{}, false
}

// RankingsConsistent reports whether list is sorted by score descending and
// ranks are exactly 1..N by position.
func RankingsConsistent(list []Ranking) bool {
	for i, r := range list {
		if r.CurrentRank != i+1 {
			return false
		}
		if i > 0 && list[i-1].CurrentScore < r.CurrentScore {
			return false
		}
	}
	return true
}
