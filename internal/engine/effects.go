package engine

import (
	"fmt"

	"github.com/talgya/ohi-sim/internal/pillar"
)

// ActiveEffect is a per-cycle pillar adjustment left behind by an event choice.
type ActiveEffect struct {
	ID              string        `json:"id"`
	EventID         string        `json:"eventId"`
	Pillar          pillar.Pillar `json:"pillar"`
	DeltaPerCycle   float64       `json:"deltaPerCycle"`
	RemainingCycles int           `json:"remainingCycles"`
}

// EffectTemplate describes an effect a choice will create.
type EffectTemplate struct {
	Pillar   pillar.Pillar `json:"pillar" yaml:"pillar"`
	Delta    float64       `json:"delta" yaml:"delta"`
	Duration int           `json:"duration" yaml:"duration"`
}

func effectID(eventID string, cycle, idx int) string {
	return fmt.Sprintf("%s:%d:%d", eventID, cycle, idx)
}

// InstantiateEffects creates one ActiveEffect per template.
func InstantiateEffects(eventID string, cycle int, templates []EffectTemplate) []ActiveEffect {
	out := make([]ActiveEffect, 0, len(templates))
	for i, t := range templates {
		if t.Duration <= 0 {
			continue
		}
		out = append(out, ActiveEffect{
			ID:              effectID(eventID, cycle, i),
			EventID:         eventID,
			Pillar:          t.Pillar,
			DeltaPerCycle:   t.Delta,
			RemainingCycles: t.Duration,
		})
	}
	return out
}

// TickEffects decrements every effect once and drops those that reach zero.
// Callers apply effects before ticking, so an expiring effect still counts
// for the cycle it expires in.
func TickEffects(effects []ActiveEffect) []ActiveEffect {
	out := make([]ActiveEffect, 0, len(effects))
	for _, e := range effects {
		e.RemainingCycles--
		if e.RemainingCycles > 0 {
			out = append(out, e)
		}
	}
	return out
}

// EffectTotal sums the per-cycle delta of every live effect targeting p.
func EffectTotal(effects []ActiveEffect, p pillar.Pillar) float64 {
	var sum float64
	for _, e := range effects {
		if e.Pillar == p && e.RemainingCycles > 0 {
			sum += e.DeltaPerCycle
		}
	}
	return sum
}
