// Package engine holds the pure simulation functions: cycle scoring, event
// resolution, active effects, rankings and achievements. Nothing here keeps
// state between calls; every function takes its inputs explicitly and returns
// new values.
package engine

import "github.com/talgya/ohi-sim/internal/pillar"

// Rules are the tunable constants of a game.
type Rules struct {
	StartYear  int `json:"startYear"`
	EndYear    int `json:"endYear"`
	CycleYears int `json:"cycleYears"`

	Weights        pillar.Weights `json:"weights"`
	SustainRate    float64        `json:"sustainRate"`    // share of impact a funded-at-zero policy still delivers
	ReferenceSpend float64        `json:"referenceSpend"` // points per cycle that earn one full spend boost
	MaxSpendBoost  float64        `json:"maxSpendBoost"`
	NeglectDecay   float64        `json:"neglectDecay"` // per-cycle loss on pillars with nothing allocated

	DriftAmplitude float64 `json:"driftAmplitude"` // competitor OHI noise amplitude
	TrendMax       float64 `json:"trendMax"`       // max competitor OHI trend per cycle

	Seed int64 `json:"seed"`
}

// DefaultRules returns the standard 2025–2050 yearly-cycle game.
func DefaultRules() Rules {
	return Rules{
		StartYear:      2025,
		EndYear:        2050,
		CycleYears:     1,
		Weights:        pillar.EqualWeights(),
		SustainRate:    0.25,
		ReferenceSpend: 50,
		MaxSpendBoost:  1,
		NeglectDecay:   0.5,
		DriftAmplitude: 0.15,
		TrendMax:       0.02,
	}
}

// Cycles is the number of cycles a full game lasts.
func (r Rules) Cycles() int {
	if r.CycleYears <= 0 {
		return 0
	}
	return (r.EndYear - r.StartYear + r.CycleYears - 1) / r.CycleYears
}
