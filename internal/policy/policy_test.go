package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ohi-sim/internal/pillar"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	require.Equal(t, 16, cat.Len())
	for _, p := range pillar.All() {
		assert.Len(t, cat.ForPillar(p), 4, p.String())
	}
	d, ok := cat.Get("gov-osh-law")
	require.True(t, ok)
	assert.Equal(t, pillar.Governance, d.Pillar)
	assert.Equal(t, 3, d.MaxLevel)
}

func TestCatalogReturnsCopies(t *testing.T) {
	cat := Default()
	d, _ := cat.Get("gov-ilo-ratification")
	d.Prerequisites[0] = "tampered"
	again, _ := cat.Get("gov-ilo-ratification")
	assert.Equal(t, "gov-labour-inspectorate", again.Prerequisites[0])
}

func TestNewCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
		msg  string
	}{
		{"empty id", []Definition{{MaxLevel: 1}}, "empty id"},
		{"duplicate", []Definition{{ID: "a", MaxLevel: 1}, {ID: "a", MaxLevel: 1}}, "duplicate"},
		{"max level", []Definition{{ID: "a"}}, "maxLevel"},
		{"bad pillar", []Definition{{ID: "a", MaxLevel: 1, Pillar: 9}}, "invalid pillar"},
		{"unknown prereq", []Definition{{ID: "a", MaxLevel: 1, Prerequisites: []string{"b"}}}, "unknown prerequisite"},
		{"self prereq", []Definition{{ID: "a", MaxLevel: 1, Prerequisites: []string{"a"}}}, "itself"},
		{"cycle", []Definition{
			{ID: "a", MaxLevel: 1, Prerequisites: []string{"b"}},
			{ID: "b", MaxLevel: 1, Prerequisites: []string{"a"}},
		}, "cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.defs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
policies:
  - id: one
    name: One
    pillar: restoration
    maxLevel: 2
    unlockYear: 2025
    impact: 3
`), 0o644))
	cat, err := Load(path)
	require.NoError(t, err)
	d, ok := cat.Get("one")
	require.True(t, ok)
	assert.Equal(t, pillar.Restoration, d.Pillar)

	require.NoError(t, os.WriteFile(path, []byte("policies:\n  - id: x\n    pillar: economy\n    maxLevel: 1\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	def := Definition{ID: "p", MaxLevel: 2, UnlockYear: 2030}
	assert.Equal(t, StatusLocked, StatusFor(def, 0, true, 2029))
	assert.Equal(t, StatusLocked, StatusFor(def, 0, false, 2030))
	assert.Equal(t, StatusAvailable, StatusFor(def, 0, true, 2030))
	assert.Equal(t, StatusActive, StatusFor(def, 1, false, 2000))
	assert.Equal(t, StatusMaxed, StatusFor(def, 2, true, 2030))
}

func TestNewLedgerInitialStatuses(t *testing.T) {
	cat := Default()
	l := NewLedger(cat, 2025)
	require.Len(t, l, cat.Len())
	for i, d := range cat.Definitions() {
		want := StatusLocked
		if len(d.Prerequisites) == 0 && d.UnlockYear <= 2025 {
			want = StatusAvailable
		}
		assert.Equal(t, want, l[i].Status, d.ID)
	}
	assert.True(t, l.Consistent(cat, 2025))
}

func TestInvestUnlocksDependents(t *testing.T) {
	cat := Default()
	l := NewLedger(cat, 2025)

	s, _ := l.Get("gov-labour-inspectorate")
	require.Equal(t, StatusLocked, s.Status)

	l2, err := l.Invest(cat, "gov-osh-law", 50, 2025)
	require.NoError(t, err)

	s, _ = l2.Get("gov-labour-inspectorate")
	assert.Equal(t, StatusAvailable, s.Status)
	s, _ = l2.Get("gov-social-dialogue")
	assert.Equal(t, StatusLocked, s.Status, "unlock year not reached")

	// receiver untouched
	assert.Equal(t, 0, l.Level("gov-osh-law"))
	assert.Equal(t, 1, l2.Level("gov-osh-law"))
}

func TestInvestToMax(t *testing.T) {
	cat := Default()
	l := NewLedger(cat, 2025)
	var err error
	for range 3 {
		l, err = l.Invest(cat, "gov-osh-law", 50, 2025)
		require.NoError(t, err)
	}
	s, _ := l.Get("gov-osh-law")
	assert.Equal(t, StatusMaxed, s.Status)
	assert.Equal(t, 150.0, s.TotalInvested)
	assert.Equal(t, 150.0, s.InvestedThisCycle)

	same, err := l.Invest(cat, "gov-osh-law", 50, 2025)
	require.ErrorIs(t, err, ErrPolicyMaxed)
	assert.Equal(t, l, same)

	l = l.ResetCycle()
	s, _ = l.Get("gov-osh-law")
	assert.Zero(t, s.InvestedThisCycle)
	assert.Equal(t, 150.0, s.TotalInvested)
}

func TestInvestRejections(t *testing.T) {
	cat := Default()
	l := NewLedger(cat, 2025)

	_, err := l.Invest(cat, "nope", 10, 2025)
	require.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = l.Invest(cat, "gov-ilo-ratification", 10, 2025)
	require.ErrorIs(t, err, ErrPolicyLocked)

	_, err = l.Invest(cat, "gov-osh-law", 0, 2025)
	require.ErrorIs(t, err, ErrInvalidPoints)
}

func TestRefreshByYear(t *testing.T) {
	cat := Default()
	l := NewLedger(cat, 2025)
	l, err := l.Invest(cat, "gov-osh-law", 50, 2025)
	require.NoError(t, err)

	s, _ := l.Get("gov-social-dialogue")
	require.Equal(t, StatusLocked, s.Status)

	l = l.Refresh(cat, 2027)
	s, _ = l.Get("gov-social-dialogue")
	assert.Equal(t, StatusAvailable, s.Status)
	assert.Equal(t, 1, l.Count(StatusActive))
}
