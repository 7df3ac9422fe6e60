package autoplay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/pillar"
)

type queue struct{ evs []engine.GameEvent }

func (q *queue) Draw() (engine.GameEvent, bool) {
	if len(q.evs) == 0 {
		return engine.GameEvent{}, false
	}
	ev := q.evs[0]
	q.evs = q.evs[1:]
	return ev, true
}

type pick string

func (p pick) Choose(s game.State) (string, bool) {
	if p == "" {
		return "", false
	}
	return string(p), true
}

type countingPlanner struct{ cycles []int }

func (c *countingPlanner) Plan(s game.State) []game.Action {
	c.cycles = append(c.cycles, s.Cycle)
	return []game.Action{game.InvestPolicy{PolicyID: "gov-osh-law", Points: 10}}
}

func spill() engine.GameEvent {
	return engine.GameEvent{
		ID:       "spill",
		Title:    "Spill",
		Severity: engine.SeverityHigh,
		Deadline: 2,
		Choices: []engine.Choice{
			{ID: "contain", Label: "Contain", Cost: 20, Impacts: pillar.Values{HazardControl: 2}},
			{ID: "ignore", Label: "Ignore", Default: true, Impacts: pillar.Values{HazardControl: -4}},
		},
	}
}

func startedStore(t *testing.T, cycles int) *game.Store {
	t.Helper()
	r := engine.DefaultRules()
	r.Seed = 11
	r.EndYear = r.StartYear + cycles
	st := game.NewStore(game.DefaultEnv(r))
	prof, ok := country.Lookup("FIN")
	require.True(t, ok)
	_, err := st.Dispatch(game.SelectCountry{Profile: prof})
	require.NoError(t, err)
	_, err = st.Dispatch(game.StartGame{})
	require.NoError(t, err)
	return st
}

func runWithin(t *testing.T, r *Runner) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.Run(ctx)
}

func TestRunPlaysToEnd(t *testing.T) {
	st := startedStore(t, 5)
	require.NoError(t, runWithin(t, &Runner{Store: st, Interval: time.Millisecond}))

	s := st.State()
	assert.Equal(t, game.PhaseEnded, s.Phase)
	assert.Len(t, s.History, 5)
	assert.False(t, s.UI.AutoAdvance)
}

func TestRunStopsAtMaxCycles(t *testing.T) {
	st := startedStore(t, 10)
	require.NoError(t, runWithin(t, &Runner{Store: st, Interval: time.Millisecond, MaxCycles: 3}))

	s := st.State()
	assert.Len(t, s.History, 3)
	assert.NotEqual(t, game.PhaseEnded, s.Phase)
}

func TestRunResolvesEventsWithDecider(t *testing.T) {
	st := startedStore(t, 3)
	r := &Runner{Store: st, Events: &queue{evs: []engine.GameEvent{spill()}}, Decider: pick("contain"), Interval: time.Millisecond}
	require.NoError(t, runWithin(t, r))

	s := st.State()
	assert.Equal(t, game.PhaseEnded, s.Phase)
	require.Len(t, s.EventLog, 1)
	assert.Equal(t, "contain", s.EventLog[0].SelectedChoice)
	assert.Equal(t, 1, s.Statistics.EventsHandled)
	assert.Zero(t, s.Statistics.EventsExpired)
}

func TestRunExpiresUndecidedEvent(t *testing.T) {
	st := startedStore(t, 3)
	r := &Runner{Store: st, Events: &queue{evs: []engine.GameEvent{spill()}}, Decider: pick(""), Interval: time.Millisecond}
	require.NoError(t, runWithin(t, r))

	s := st.State()
	require.Len(t, s.EventLog, 1)
	assert.Equal(t, "ignore", s.EventLog[0].SelectedChoice)
	assert.Equal(t, 1, s.Statistics.EventsExpired)
	assert.Len(t, s.History, 3)
}

func TestRunPlansOncePerCycle(t *testing.T) {
	st := startedStore(t, 4)
	p := &countingPlanner{}
	require.NoError(t, runWithin(t, &Runner{Store: st, Planner: p, Interval: time.Millisecond}))

	assert.Equal(t, []int{1, 2, 3, 4}, p.cycles)
	// gov-osh-law maxes out at level 3, so the fourth plan is rejected.
	assert.Equal(t, 3, st.State().Statistics.Investments)
}

func TestRunWaitsWhilePaused(t *testing.T) {
	st := startedStore(t, 2)
	_, err := st.Dispatch(game.PauseGame{})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- runWithin(t, &Runner{Store: st, Interval: time.Millisecond}) }()

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, st.State().History, "no progress while paused")

	_, err = st.Dispatch(game.ResumeGame{})
	require.NoError(t, err)
	require.NoError(t, <-errc)
	assert.Equal(t, game.PhaseEnded, st.State().Phase)
}

func TestRunCancelled(t *testing.T) {
	st := startedStore(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&Runner{Store: st, Interval: time.Hour}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, st.State().History)
}

func TestRunRequiresStartedGame(t *testing.T) {
	st := game.NewStore(game.DefaultEnv(engine.DefaultRules()))
	err := (&Runner{Store: st}).Run(context.Background())
	require.ErrorIs(t, err, ErrNotStarted)
}
