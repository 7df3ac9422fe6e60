package policy

import (
	"errors"
	"fmt"
)

// Status is the derived availability of a policy.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusActive    Status = "active"
	StatusMaxed     Status = "maxed"
)

// Investable reports whether a policy in this status can take another level.
func (s Status) Investable() bool {
	return s == StatusAvailable || s == StatusActive
}

var (
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrPolicyLocked  = errors.New("policy locked")
	ErrPolicyMaxed   = errors.New("policy at max level")
	ErrInvalidPoints = errors.New("invalid investment points")
)

// State is the runtime investment record for one policy.
type State struct {
	ID                string  `json:"id"`
	CurrentLevel      int     `json:"currentLevel"`
	InvestedThisCycle float64 `json:"investedThisCycle"`
	TotalInvested     float64 `json:"totalInvested"`
	Status            Status  `json:"status"`
}

// StatusFor is the single rule that derives a policy's status.
func StatusFor(def Definition, level int, prereqsMet bool, year int) Status {
	switch {
	case level >= def.MaxLevel:
		return StatusMaxed
	case level > 0:
		return StatusActive
	case prereqsMet && def.UnlockYear <= year:
		return StatusAvailable
	default:
		return StatusLocked
	}
}

// Ledger holds one State per catalog definition, in catalog order. Methods
// return new ledgers and never modify the receiver.
type Ledger []State

// NewLedger creates a zero-level ledger with statuses evaluated for year.
func NewLedger(cat *Catalog, year int) Ledger {
	l := make(Ledger, cat.Len())
	for i := range l {
		l[i] = State{ID: cat.defs[i].ID}
	}
	return l.Refresh(cat, year)
}

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Get returns the state for id.
func (l Ledger) Get(id string) (State, bool) {
	for _, s := range l {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}

// Level returns the current level for id, or 0 if absent.
func (l Ledger) Level(id string) int {
	s, _ := l.Get(id)
	return s.CurrentLevel
}

func (l Ledger) prereqsMet(cat *Catalog, def Definition) bool {
	for _, pre := range def.Prerequisites {
		i, ok := cat.index[pre]
		if !ok || i >= len(l) || l[i].CurrentLevel <= 0 {
			return false
		}
	}
	return true
}

// Refresh recomputes every status against the current levels and year.
func (l Ledger) Refresh(cat *Catalog, year int) Ledger {
	out := l.Clone()
	for i := range out {
		def := cat.defs[i]
		out[i].Status = StatusFor(def, out[i].CurrentLevel, l.prereqsMet(cat, def), year)
	}
	return out
}

// Check reports why id could not take another level, or nil.
func (l Ledger) Check(cat *Catalog, id string) error {
	i, ok := cat.Index(id)
	if !ok || i >= len(l) {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
	}
	s := l[i]
	if s.CurrentLevel >= cat.defs[i].MaxLevel || s.Status == StatusMaxed {
		return fmt.Errorf("%w: %q", ErrPolicyMaxed, id)
	}
	if !s.Status.Investable() {
		return fmt.Errorf("%w: %q", ErrPolicyLocked, id)
	}
	return nil
}

// Invest raises id by one level and records points, then refreshes every
// status so dependents unlock immediately.
func (l Ledger) Invest(cat *Catalog, id string, points float64, year int) (Ledger, error) {
	if points <= 0 {
		return l, fmt.Errorf("%w: %v", ErrInvalidPoints, points)
	}
	if err := l.Check(cat, id); err != nil {
		return l, err
	}
	i := cat.index[id]
	out := l.Clone()
	out[i].CurrentLevel++
	out[i].InvestedThisCycle += points
	out[i].TotalInvested += points
	return out.Refresh(cat, year), nil
}

// ResetCycle zeroes per-cycle investment counters.
func (l Ledger) ResetCycle() Ledger {
	out := l.Clone()
	for i := range out {
		out[i].InvestedThisCycle = 0
	}
	return out
}

// Consistent reports whether the stored statuses match a fresh derivation and
// the ledger lines up with the catalog.
func (l Ledger) Consistent(cat *Catalog, year int) bool {
	if len(l) != cat.Len() {
		return false
	}
	fresh := l.Refresh(cat, year)
	for i := range l {
		if l[i].ID != cat.defs[i].ID || l[i].Status != fresh[i].Status {
			return false
		}
		if l[i].CurrentLevel < 0 || l[i].CurrentLevel > cat.defs[i].MaxLevel {
			return false
		}
	}
	return true
}

// Count returns how many policies are in status s.
func (l Ledger) Count(s Status) int {
	n := 0
	for _, st := range l {
		if st.Status == s {
			n++
		}
	}
	return n
}
