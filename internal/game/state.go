// Package game is the state machine that owns a single play session. Reduce
// is pure: it takes a state and an action and returns the next state, leaving
// the input untouched. Store wraps it for callers that need a current value.
package game

import (
	"slices"

	"github.com/talgya/ohi-sim/internal/budget"
	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/entropy"
	"github.com/talgya/ohi-sim/internal/pillar"
	"github.com/talgya/ohi-sim/internal/policy"
)

// Phase is the session lifecycle stage.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhasePaused  Phase = "paused"
	PhaseEvent   Phase = "event"
	PhaseResults Phase = "results" // transient, between cycles
	PhaseEnded   Phase = "ended"
)

// UI is presentation state carried alongside the simulation. Nothing here
// affects scoring.
type UI struct {
	SelectedPillar  *pillar.Pillar `json:"selectedPillar"`
	WorldMapVisible bool           `json:"worldMapVisible"`
	AutoAdvance     bool           `json:"autoAdvance"`
	Speed           float64        `json:"speed"` // auto-advance rate multiplier
}

// State is the whole session. Treat values as immutable; use Clone before
// changing anything.
type State struct {
	Phase         Phase                 `json:"phase"`
	Year          int                   `json:"currentYear"`
	Cycle         int                   `json:"cycleNumber"`
	StartYear     int                   `json:"startYear"`
	EndYear       int                   `json:"endYear"`
	Country       *country.Profile      `json:"selectedCountry"`
	Pillars       pillar.Values         `json:"pillars"`
	OHIScore      float64               `json:"ohiScore"`
	Budget        budget.State          `json:"budget"`
	Policies      policy.Ledger         `json:"policies"`
	CurrentEvent  *engine.GameEvent     `json:"currentEvent"`
	EventLog      []engine.GameEvent    `json:"eventLog"`
	ActiveEffects []engine.ActiveEffect `json:"activeEffects"`
	Rankings      []engine.Ranking      `json:"rankings"`
	History       []engine.CycleRecord  `json:"history"`
	Statistics    engine.Statistics     `json:"statistics"`
	UI            UI                    `json:"ui"`
	Seed          int64                 `json:"seed"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	if s.Country != nil {
		c := *s.Country
		s.Country = &c
	}
	if s.CurrentEvent != nil {
		ev := s.CurrentEvent.Clone()
		s.CurrentEvent = &ev
	}
	if s.UI.SelectedPillar != nil {
		p := *s.UI.SelectedPillar
		s.UI.SelectedPillar = &p
	}
	s.Policies = s.Policies.Clone()
	s.ActiveEffects = slices.Clone(s.ActiveEffects)
	s.Rankings = slices.Clone(s.Rankings)
	if s.EventLog != nil {
		log := make([]engine.GameEvent, len(s.EventLog))
		for i, ev := range s.EventLog {
			log[i] = ev.Clone()
		}
		s.EventLog = log
	}
	if s.History != nil {
		h := make([]engine.CycleRecord, len(s.History))
		for i, r := range s.History {
			h[i] = r.Clone()
		}
		s.History = h
	}
	s.Statistics = s.Statistics.Clone()
	return s
}

// Rank returns the player's current rank, or 0 before a country is chosen.
func (s State) Rank() int {
	me, _ := engine.PlayerRanking(s.Rankings)
	return me.CurrentRank
}

// Stage is the maturity band of the current OHI.
func (s State) Stage() pillar.Stage {
	return pillar.StageFor(s.OHIScore)
}

// Env is the fixed context a session runs in. It is passed explicitly to
// every reduction.
type Env struct {
	Catalog *policy.Catalog
	Field   []country.Profile
	Rules   engine.Rules
	Drift   *engine.Drift
}

// NewEnv builds an Env. A zero seed is replaced with a random one so the
// resulting Env is still replayable from Rules.Seed.
func NewEnv(cat *policy.Catalog, field []country.Profile, rules engine.Rules) Env {
	if rules.Seed == 0 {
		rules.Seed = entropy.RandomSeed()
	}
	if rules.CycleYears <= 0 {
		rules.CycleYears = 1
	}
	return Env{
		Catalog: cat,
		Field:   slices.Clone(field),
		Rules:   rules,
		Drift:   engine.NewDrift(rules.Seed, rules.DriftAmplitude, rules.TrendMax),
	}
}

// DefaultEnv uses the built-in catalog and country set.
func DefaultEnv(rules engine.Rules) Env {
	return NewEnv(policy.Default(), country.Samples(), rules)
}

// NewState is the canonical initial state.
func NewState(env Env) State {
	return State{
		Phase:     PhaseSetup,
		Year:      env.Rules.StartYear,
		Cycle:     1,
		StartYear: env.Rules.StartYear,
		EndYear:   env.Rules.EndYear,
		UI:        UI{Speed: 1},
		Seed:      env.Rules.Seed,
	}
}
