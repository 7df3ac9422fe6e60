package budget

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ohi-sim/internal/pillar"
)

func TestNewSplitsEvenly(t *testing.T) {
	b := New(500)
	assert.Equal(t, 500.0, b.Total)
	assert.Equal(t, pillar.Uniform(125), b.Allocated)
	assert.Zero(t, b.TotalSpent())
	assert.Zero(t, b.Unallocated())
}

func TestAllocate(t *testing.T) {
	b := New(400)

	out, err := b.Allocate(pillar.Values{Governance: 200, HazardControl: 100})
	require.NoError(t, err)
	assert.Equal(t, 200.0, out.Allocated.Governance)
	assert.Equal(t, 100.0, out.Unallocated())
	assert.Equal(t, 100.0, b.Allocated.Governance, "receiver unchanged")

	_, err = b.Allocate(pillar.Values{Governance: 500})
	require.ErrorIs(t, err, ErrInvalidAllocation)

	_, err = b.Allocate(pillar.Values{Governance: -1})
	require.ErrorIs(t, err, ErrInvalidAllocation)

	_, err = b.Allocate(pillar.Values{Governance: math.Inf(1)})
	require.ErrorIs(t, err, ErrInvalidAllocation)
}

func TestAllocateBelowSpentRejected(t *testing.T) {
	b := New(400)
	b, err := b.Spend(pillar.Restoration, 80)
	require.NoError(t, err)
	_, err = b.Allocate(pillar.Values{Restoration: 50})
	require.ErrorIs(t, err, ErrInvalidAllocation)
}

func TestSpend(t *testing.T) {
	b := New(400)
	b, err := b.Spend(pillar.Governance, 60)
	require.NoError(t, err)
	assert.Equal(t, 40.0, b.Remaining(pillar.Governance))

	_, err = b.Spend(pillar.Governance, 41)
	require.ErrorIs(t, err, ErrInsufficientBudget)

	_, err = b.Spend(pillar.Governance, 0)
	require.Error(t, err)

	b, err = b.Spend(pillar.Governance, 40)
	require.NoError(t, err)
	assert.Zero(t, b.Remaining(pillar.Governance))
}

func TestResetCycleCarryOver(t *testing.T) {
	b := New(400)
	b, _ = b.Spend(pillar.Governance, 60)
	b, _ = b.Spend(pillar.HazardControl, 15)

	out := b.ResetCycle()
	assert.Equal(t, pillar.Values{}, out.Spent)
	assert.Equal(t, 400.0-75.0, out.CarryOver)
	assert.Equal(t, b.Allocated, out.Allocated)
}

func TestDeductProportional(t *testing.T) {
	b, err := New(400).Allocate(pillar.Values{Governance: 300, HazardControl: 100})
	require.NoError(t, err)

	out, forgiven := b.DeductProportional(40)
	assert.Zero(t, forgiven)
	assert.InDelta(t, 270, out.Allocated.Governance, 1e-9)
	assert.InDelta(t, 90, out.Allocated.HazardControl, 1e-9)
	assert.Zero(t, out.Allocated.Restoration)
}

func TestDeductProportionalFloorsAtZero(t *testing.T) {
	b, _ := New(100).Allocate(pillar.Values{Governance: 10, Restoration: 10})
	out, forgiven := b.DeductProportional(50)
	assert.Equal(t, pillar.Values{}, out.Allocated)
	assert.Equal(t, 30.0, forgiven)
}

func TestDeductProportionalZeroAllocation(t *testing.T) {
	b, _ := New(100).Allocate(pillar.Values{})
	out, forgiven := b.DeductProportional(50)
	assert.Equal(t, b, out)
	assert.Equal(t, 50.0, forgiven)
}
