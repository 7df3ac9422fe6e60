// Package budget models per-cycle point allocation across the pillars.
package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/ohi-sim/internal/pillar"
)

var (
	ErrInvalidAllocation  = errors.New("invalid allocation")
	ErrInsufficientBudget = errors.New("insufficient allocated budget")
)

// State tracks the fixed total, how it is allocated across pillars, and what
// has been spent this cycle. State is a value; methods return modified copies.
type State struct {
	Total     float64       `json:"totalBudgetPoints"`
	Allocated pillar.Values `json:"allocated"`
	Spent     pillar.Values `json:"spent"`
	CarryOver float64       `json:"carryOver"`
}

// New splits total evenly across the pillars.
func New(total float64) State {
	if total < 0 || math.IsNaN(total) {
		total = 0
	}
	return State{
		Total:     total,
		Allocated: pillar.Uniform(total / pillar.Count),
	}
}

func (s State) TotalAllocated() float64 { return s.Allocated.Sum() }
func (s State) TotalSpent() float64     { return s.Spent.Sum() }

// Unallocated is the part of the total not assigned to any pillar.
func (s State) Unallocated() float64 {
	return s.Total - s.TotalAllocated()
}

// Remaining is what can still be spent on p this cycle.
func (s State) Remaining(p pillar.Pillar) float64 {
	return s.Allocated.Get(p) - s.Spent.Get(p)
}

// CheckAllocation reports why alloc could not replace the current allocation.
// Allocations must be finite, non-negative, fit in the total, and cover what
// has already been spent.
func (s State) CheckAllocation(alloc pillar.Values) error {
	if !alloc.Finite() || !alloc.NonNegative() {
		return fmt.Errorf("%w: negative or non-finite value", ErrInvalidAllocation)
	}
	if sum := alloc.Sum(); sum > s.Total+1e-9 {
		return fmt.Errorf("%w: %.1f allocated exceeds total %.1f", ErrInvalidAllocation, sum, s.Total)
	}
	for _, p := range pillar.All() {
		if alloc.Get(p) < s.Spent.Get(p) {
			return fmt.Errorf("%w: %s below already spent %.1f", ErrInvalidAllocation, p, s.Spent.Get(p))
		}
	}
	return nil
}

// Allocate replaces the allocation wholesale. No rebalancing is done.
func (s State) Allocate(alloc pillar.Values) (State, error) {
	if err := s.CheckAllocation(alloc); err != nil {
		return s, err
	}
	s.Allocated = alloc
	return s, nil
}

// CheckSpend reports why pts could not be spent on p.
func (s State) CheckSpend(p pillar.Pillar, pts float64) error {
	if math.IsNaN(pts) || math.IsInf(pts, 0) || pts <= 0 {
		return fmt.Errorf("%w: %v points", ErrInvalidAllocation, pts)
	}
	if s.Spent.Get(p)+pts > s.Allocated.Get(p)+1e-9 {
		return fmt.Errorf("%w: %s has %.1f remaining, need %.1f", ErrInsufficientBudget, p, s.Remaining(p), pts)
	}
	return nil
}

// Spend records pts against p.
func (s State) Spend(p pillar.Pillar, pts float64) (State, error) {
	if err := s.CheckSpend(p, pts); err != nil {
		return s, err
	}
	s.Spent.Add(p, pts)
	return s, nil
}

// ResetCycle closes the cycle: carry-over is what was allocated but not
// spent, and spending starts again from zero.
func (s State) ResetCycle() State {
	s.CarryOver = s.TotalAllocated() - s.TotalSpent()
	s.Spent = pillar.Values{}
	return s
}

// DeductProportional removes cost from the allocation in proportion to each
// pillar's share, flooring every pillar at zero. With nothing allocated the
// deduction cannot be distributed and the whole cost is returned as forgiven.
func (s State) DeductProportional(cost float64) (out State, forgiven float64) {
	if cost <= 0 || math.IsNaN(cost) {
		return s, 0
	}
	total := s.TotalAllocated()
	if total <= 0 {
		return s, cost
	}
	out = s
	for _, p := range pillar.All() {
		share := s.Allocated.Get(p) / total
		out.Allocated.Set(p, math.Max(0, s.Allocated.Get(p)-cost*share))
	}
	if cost > total {
		forgiven = cost - total
	}
	return out, forgiven
}
