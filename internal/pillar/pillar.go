// Package pillar defines the four policy pillars of an occupational-health system
// and the per-pillar value vector used for scores, budgets and impacts.
package pillar

import (
	"fmt"
	"math"
)

// Pillar is one of the four fixed policy areas. The set is closed.
type Pillar uint8

const (
	Governance Pillar = iota
	HazardControl
	HealthVigilance
	Restoration
)

// Count is the number of pillars.
const Count = 4

var names = [Count]string{"governance", "hazardControl", "healthVigilance", "restoration"}

var labels = [Count]string{"Governance", "Hazard Control", "Health Vigilance", "Restoration"}

// All returns every pillar in canonical order.
func All() []Pillar {
	return []Pillar{Governance, HazardControl, HealthVigilance, Restoration}
}

// Valid reports whether p is one of the four defined pillars.
func (p Pillar) Valid() bool {
	return p < Count
}

// String returns the wire key, e.g. "hazardControl".
func (p Pillar) String() string {
	if !p.Valid() {
		return fmt.Sprintf("pillar(%d)", uint8(p))
	}
	return names[p]
}

// Label returns a human-readable name.
func (p Pillar) Label() string {
	if !p.Valid() {
		return p.String()
	}
	return labels[p]
}

// Parse maps a wire key back to a Pillar.
func Parse(s string) (Pillar, error) {
	for i, n := range names {
		if n == s {
			return Pillar(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pillar %q", s)
}

func (p Pillar) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid pillar %d", uint8(p))
	}
	return []byte(names[p]), nil
}

func (p *Pillar) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Clamp bounds a pillar score to [0, 100]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Display rounds a score to the integer shown to players.
func Display(v float64) int {
	return int(math.Round(Clamp(v)))
}
