package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/talgya/ohi-sim/internal/budget"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// Severity ranks an event. Critical is the highest tier.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrUnknownChoice = errors.New("unknown choice")
)

// Choice is one response to an event.
type Choice struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Cost        float64          `json:"cost"`
	Impacts     pillar.Values    `json:"impacts"`
	Effects     []EffectTemplate `json:"effects"`
	Default     bool             `json:"default,omitempty"` // taken when the deadline lapses
}

// GameEvent is a discrete-choice situation. Content is fixed once triggered;
// only the resolution fields change.
type GameEvent struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Choices        []Choice `json:"choices"`
	Deadline       int      `json:"deadline"` // cycles before the default choice is forced
	TriggeredCycle int      `json:"triggeredCycle"`
	IsResolved     bool     `json:"isResolved"`
	SelectedChoice string   `json:"selectedChoice,omitempty"`
}

// Clone returns a deep copy.
func (e GameEvent) Clone() GameEvent {
	e.Choices = slices.Clone(e.Choices)
	for i := range e.Choices {
		e.Choices[i].Effects = slices.Clone(e.Choices[i].Effects)
	}
	return e
}

// Choice returns the choice with id.
func (e GameEvent) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// DefaultChoice is the first choice flagged default, else the first choice.
func (e GameEvent) DefaultChoice() Choice {
	for _, c := range e.Choices {
		if c.Default {
			return c
		}
	}
	if len(e.Choices) == 0 {
		return Choice{}
	}
	return e.Choices[0]
}

// Validate checks the event shape.
func (e GameEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEvent)
	}
	if !e.Severity.Valid() {
		return fmt.Errorf("%w: %s: severity %q", ErrInvalidEvent, e.ID, e.Severity)
	}
	if n := len(e.Choices); n < 2 || n > 4 {
		return fmt.Errorf("%w: %s: %d choices, want 2-4", ErrInvalidEvent, e.ID, n)
	}
	if e.Deadline < 0 {
		return fmt.Errorf("%w: %s: negative deadline", ErrInvalidEvent, e.ID)
	}
	seen := make(map[string]bool, len(e.Choices))
	for _, c := range e.Choices {
		if c.ID == "" || seen[c.ID] {
			return fmt.Errorf("%w: %s: missing or duplicate choice id %q", ErrInvalidEvent, e.ID, c.ID)
		}
		seen[c.ID] = true
		if c.Cost < 0 || math.IsNaN(c.Cost) || math.IsInf(c.Cost, 0) {
			return fmt.Errorf("%w: %s/%s: cost %v", ErrInvalidEvent, e.ID, c.ID, c.Cost)
		}
		if !c.Impacts.Finite() {
			return fmt.Errorf("%w: %s/%s: non-finite impact", ErrInvalidEvent, e.ID, c.ID)
		}
		for _, t := range c.Effects {
			if !t.Pillar.Valid() || t.Duration < 1 || math.IsNaN(t.Delta) {
				return fmt.Errorf("%w: %s/%s: bad effect template", ErrInvalidEvent, e.ID, c.ID)
			}
		}
	}
	return nil
}

// ResolveInput is everything event resolution reads.
type ResolveInput struct {
	Event    GameEvent
	ChoiceID string
	Cycle    int
	Year     int
	Rank     int
	Pillars  pillar.Values
	Budget   budget.State
	Effects  []ActiveEffect
	Stats    Statistics
	Weights  pillar.Weights
}

// ResolveResult is the state after applying a choice.
type ResolveResult struct {
	Event    GameEvent
	Pillars  pillar.Values
	OHIScore float64
	Budget   budget.State
	Effects  []ActiveEffect
	Stats    Statistics
	Forgiven float64

	// Achievements unlocked by the resolution itself, already appended to Stats.
	Achievements []Achievement
}

// ResolveEvent applies a choice: immediate impacts, new long-term effects,
// proportional cost deduction, OHI recompute and statistics.
func ResolveEvent(in ResolveInput) (ResolveResult, error) {
	choice, ok := in.Event.Choice(in.ChoiceID)
	if !ok {
		return ResolveResult{}, fmt.Errorf("%w: %q on event %s", ErrUnknownChoice, in.ChoiceID, in.Event.ID)
	}

	pillars := in.Pillars
	choice.Impacts.Each(func(p pillar.Pillar, d float64) {
		pillars.AddClamped(p, d)
	})

	effects := slices.Clone(in.Effects)
	effects = append(effects, InstantiateEffects(in.Event.ID, in.Cycle, choice.Effects)...)

	b, forgiven := in.Budget.DeductProportional(choice.Cost)
	if forgiven > 0 {
		slog.Info("event cost forgiven", "event", in.Event.ID, "choice", choice.ID, "forgiven", forgiven)
	}

	stats := in.Stats.Clone()
	stats.EventsHandled++
	if in.Event.Severity == SeverityCritical {
		stats.CriticalEventsManaged++
	}
	stats.ForgivenCost += forgiven

	prevOHI := pillar.OHI(in.Pillars, in.Weights)
	ohi := pillar.OHI(pillars, in.Weights)
	stats.HighestOHI = math.Max(stats.HighestOHI, ohi)

	earned := EvaluateAchievements(AchievementInput{
		Stats:   stats,
		PrevOHI: prevOHI,
		OHI:     ohi,
		Pillars: pillars,
		Rank:    in.Rank,
		Cycle:   in.Cycle,
		Year:    in.Year,
	})
	stats.Achievements = append(stats.Achievements, earned...)
	for _, a := range earned {
		slog.Info("achievement unlocked", "id", a.ID, "event", in.Event.ID, "cycle", in.Cycle)
	}

	ev := in.Event.Clone()
	ev.IsResolved = true
	ev.SelectedChoice = choice.ID

	return ResolveResult{
		Event:    ev,
		Pillars:  pillars,
		OHIScore: ohi,
		Budget:   b,
		Effects:  effects,
		Stats:    stats,
		Forgiven: forgiven,

		Achievements: earned,
	}, nil
}
