// Package country holds immutable country profiles and the static sample set
// used both for player selection and for the competitor field.
package country

import (
	"math"
	"strings"

	"github.com/talgya/ohi-sim/internal/pillar"
)

// Budget point bounds. Points scale with the log of health spending so large
// economies do not dwarf small ones.
const (
	MinBudgetPoints = 200
	MaxBudgetPoints = 600
)

// Profile is the read-only description of a country at game start.
type Profile struct {
	ISO                  string        `json:"iso"`
	Name                 string        `json:"name"`
	Region               string        `json:"region"`
	GDP                  float64       `json:"gdp"`                  // billion USD
	Population           float64       `json:"population"`           // millions
	HealthExpenditurePct float64       `json:"healthExpenditurePct"` // % of GDP
	LaborForce           float64       `json:"laborForce"`           // millions
	FormalSectorPct      float64       `json:"formalSectorPct"`
	InitialOHI           float64       `json:"initialOhi"`
	InitialPillars       pillar.Values `json:"initialPillars"`
}

// HealthSpend is annual health expenditure in billion USD.
func (p Profile) HealthSpend() float64 {
	if p.GDP <= 0 || p.HealthExpenditurePct <= 0 {
		return 0
	}
	return p.GDP * p.HealthExpenditurePct / 100
}

// BudgetPoints derives the fixed per-cycle point budget from GDP and the
// health expenditure ratio.
func BudgetPoints(p Profile) float64 {
	pts := math.Round(200 + 100*math.Log10(1+p.HealthSpend()))
	return math.Max(MinBudgetPoints, math.Min(MaxBudgetPoints, pts))
}

// WithDerivedOHI returns a copy whose InitialOHI is computed from the pillars.
func (p Profile) WithDerivedOHI() Profile {
	p.InitialPillars = p.InitialPillars.Clamped()
	p.InitialOHI = pillar.OHI(p.InitialPillars, pillar.EqualWeights())
	return p
}

// Samples returns a fresh copy of the built-in country set.
func Samples() []Profile {
	out := make([]Profile, len(samples))
	for i, s := range samples {
		out[i] = s.WithDerivedOHI()
	}
	return out
}

// Lookup finds a sample country by ISO code, case-insensitively.
func Lookup(iso string) (Profile, bool) {
	iso = strings.ToUpper(strings.TrimSpace(iso))
	for _, s := range samples {
		if s.ISO == iso {
			return s.WithDerivedOHI(), true
		}
	}
	return Profile{}, false
}
