package game

import (
	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// Action is anything that can be dispatched to the state machine.
type Action interface {
	Name() string
}

type (
	SelectCountry  struct{ Profile country.Profile }
	StartGame      struct{}
	AllocateBudget struct{ Allocation pillar.Values }
	InvestPolicy   struct {
		PolicyID string
		Points   float64
	}
	AdvanceCycle   struct{}
	TriggerEvent   struct{ Event engine.GameEvent }
	ResolveEvent   struct{ ChoiceID string }
	DismissEvent   struct{}
	ExpireEvent    struct{} // deadline lapsed, the default choice is forced
	PauseGame      struct{}
	ResumeGame     struct{}
	ContinueGame   struct{} // leave the per-cycle results screen
	SetAutoAdvance struct {
		Enabled bool
		Speed   float64 // <= 0 keeps the current speed
	}
	SelectPillar   struct{ Pillar *pillar.Pillar }
	ToggleWorldMap struct{}
	ResetGame      struct{}
)

func (SelectCountry) Name() string  { return "SELECT_COUNTRY" }
func (StartGame) Name() string      { return "START_GAME" }
func (AllocateBudget) Name() string { return "ALLOCATE_BUDGET" }
func (InvestPolicy) Name() string   { return "INVEST_POLICY" }
func (AdvanceCycle) Name() string   { return "ADVANCE_CYCLE" }
func (TriggerEvent) Name() string   { return "TRIGGER_EVENT" }
func (ResolveEvent) Name() string   { return "RESOLVE_EVENT" }
func (DismissEvent) Name() string   { return "DISMISS_EVENT" }
func (ExpireEvent) Name() string    { return "EXPIRE_EVENT" }
func (PauseGame) Name() string      { return "PAUSE_GAME" }
func (ResumeGame) Name() string     { return "RESUME_GAME" }
func (ContinueGame) Name() string   { return "CONTINUE_GAME" }
func (SetAutoAdvance) Name() string { return "SET_AUTO_ADVANCE" }
func (SelectPillar) Name() string   { return "SELECT_PILLAR" }
func (ToggleWorldMap) Name() string { return "TOGGLE_WORLD_MAP" }
func (ResetGame) Name() string      { return "RESET_GAME" }
