package pillar

import "math"

// OHI composite scale.
const (
	MaxOHI   = 4.0
	MaxScore = 100.0
)

// Weights scales each pillar's contribution to the composite.
type Weights = Values

// EqualWeights gives every pillar the same influence.
func EqualWeights() Weights {
	return Uniform(1)
}

// OHI computes the composite index in [0, 4] from pillar scores. It is always
// derived from the pillars, never tracked incrementally. A non-positive weight
// total falls back to equal weights.
func OHI(scores Values, w Weights) float64 {
	if !w.Finite() || !w.NonNegative() || w.Sum() <= 0 {
		w = EqualWeights()
	}
	c := scores.Clamped()
	var acc float64
	c.Each(func(p Pillar, x float64) {
		acc += x * w.Get(p)
	})
	mean := acc / w.Sum()
	return ClampOHI(mean / MaxScore * MaxOHI)
}

// ClampOHI bounds a composite to [0, 4].
func ClampOHI(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxOHI {
		return MaxOHI
	}
	return v
}

// Stage is a maturity band on the OHI scale.
type Stage uint8

const (
	StageInitial Stage = iota
	StageDeveloping
	StageEstablished
	StageAdvanced
)

var stageNames = [...]string{"initial", "developing", "established", "advanced"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Floor is the lowest OHI that belongs to the stage.
func (s Stage) Floor() float64 {
	return float64(s)
}

// StageFor returns the maturity band for an OHI value.
func StageFor(ohi float64) Stage {
	switch {
	case ohi >= 3:
		return StageAdvanced
	case ohi >= 2:
		return StageEstablished
	case ohi >= 1:
		return StageDeveloping
	default:
		return StageInitial
	}
}
