package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/pillar"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testStore(t *testing.T) *game.Store {
	t.Helper()
	r := engine.DefaultRules()
	r.Seed = 7
	r.EndYear = r.StartYear + 4
	st := game.NewStore(game.DefaultEnv(r))
	prof, ok := country.Lookup("deu")
	require.True(t, ok)
	_, err := st.Dispatch(game.SelectCountry{Profile: prof})
	require.NoError(t, err)
	_, err = st.Dispatch(game.StartGame{})
	require.NoError(t, err)
	return st
}

func playOut(t *testing.T, st *game.Store) game.State {
	t.Helper()
	_, err := st.Dispatch(game.InvestPolicy{PolicyID: "gov-osh-law", Points: 60})
	require.NoError(t, err)
	for {
		s, err := st.Dispatch(game.AdvanceCycle{})
		require.NoError(t, err)
		if s.Phase == game.PhaseEnded {
			return s
		}
		_, err = st.Dispatch(game.ContinueGame{})
		require.NoError(t, err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("k", "v1"))
	require.NoError(t, db.SaveMeta("k", "v2"))
	v, err := db.GetMeta("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	_, err = db.GetMeta("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	s := Session{ID: "s1", Country: "DEU", CountryName: "Germany", Difficulty: "normal", Seed: 3, StartYear: 2025, EndYear: 2050, StartedAt: 100}
	require.NoError(t, db.CreateSession(s))
	require.Error(t, db.CreateSession(s), "duplicate id")

	got, err := db.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.False(t, got.Finished())

	require.NoError(t, db.FinishSession("s1", 2.75, 4, time.Unix(200, 0)))
	got, err = db.Session("s1")
	require.NoError(t, err)
	assert.True(t, got.Finished())
	assert.Equal(t, 2.75, got.FinalOHI)
	assert.Equal(t, 4, got.FinalRank)

	require.ErrorIs(t, db.FinishSession("nope", 1, 1, time.Now()), ErrNotFound)
	_, err = db.Session("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveCyclesReplaces(t *testing.T) {
	db := openTestDB(t)
	rec := engine.CycleRecord{Cycle: 1, Year: 2025, Pillars: pillar.Uniform(40), OHIScore: 1.6, Rank: 9}
	require.NoError(t, db.SaveCycles("s1", []engine.CycleRecord{rec}))
	rec.Rank = 8
	require.NoError(t, db.SaveCycles("s1", []engine.CycleRecord{rec, {Cycle: 2, Year: 2026, Rank: 7}}))

	rows, err := db.Cycles("s1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 8, rows[0].Rank)
	assert.Equal(t, pillar.Uniform(40), rows[0].Pillars)
	assert.Equal(t, 2, rows[1].Cycle)
}

func TestAchievementsKeepFirstUnlock(t *testing.T) {
	db := openTestDB(t)
	a := engine.Achievement{ID: "top-10", Title: "Top ten", Cycle: 2, Year: 2026}
	require.NoError(t, db.SaveAchievements("s1", []engine.Achievement{a}))
	a.Cycle = 5
	require.NoError(t, db.SaveAchievements("s1", []engine.Achievement{a}))

	got, err := db.Achievements("s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Cycle)
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	st := testStore(t)
	_, err := st.Dispatch(game.InvestPolicy{PolicyID: "gov-osh-law", Points: 40})
	require.NoError(t, err)
	_, err = st.Dispatch(game.AdvanceCycle{})
	require.NoError(t, err)
	s := st.State()

	path := filepath.Join(t.TempDir(), "nested", "snap.json.zst")
	require.NoError(t, WriteSnapshot(path, s))
	back, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, s, back)
	require.NoError(t, back.Validate(st.Env()))

	_, err = DecodeState([]byte("not zstd"))
	require.Error(t, err)
	_, err = ReadSnapshot(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRecorderSync(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db, "normal")

	done, err := rec.Sync(game.NewState(game.DefaultEnv(engine.DefaultRules())))
	require.NoError(t, err)
	assert.False(t, done, "no country yet")
	_, err = db.Session(rec.SessionID())
	require.ErrorIs(t, err, ErrNotFound)

	st := testStore(t)
	final := playOut(t, st)

	done, err = rec.Sync(final)
	require.NoError(t, err)
	assert.True(t, done)

	sess, err := db.Session(rec.SessionID())
	require.NoError(t, err)
	assert.Equal(t, "DEU", sess.Country)
	assert.True(t, sess.Finished())
	assert.InDelta(t, final.OHIScore, sess.FinalOHI, 1e-9)
	assert.Equal(t, final.Rank(), sess.FinalRank)

	rows, err := db.Cycles(rec.SessionID())
	require.NoError(t, err)
	assert.Len(t, rows, len(final.History))

	ach, err := db.Achievements(rec.SessionID())
	require.NoError(t, err)
	assert.Len(t, ach, len(final.Statistics.Achievements))

	data, cycle, err := db.LatestSnapshot(rec.SessionID())
	require.NoError(t, err)
	assert.Equal(t, final.Cycle, cycle)
	back, err := DecodeState(data)
	require.NoError(t, err)
	assert.Equal(t, final, back)

	last, err := db.GetMeta("last_session")
	require.NoError(t, err)
	assert.Equal(t, rec.SessionID(), last)
}

func TestRecorderRunFollowsStore(t *testing.T) {
	db := openTestDB(t)
	st := testStore(t)
	rec := NewRecorder(db, "hard")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- rec.Run(ctx, st) }()

	final := playOut(t, st)
	require.NoError(t, <-errc)

	rows, err := db.Cycles(rec.SessionID())
	require.NoError(t, err)
	assert.Len(t, rows, len(final.History))

	sessions, err := db.Sessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "hard", sessions[0].Difficulty)
	assert.True(t, sessions[0].Finished())
}

func TestRecorderRunStopsOnCancel(t *testing.T) {
	db := openTestDB(t)
	st := testStore(t)
	rec := NewRecorder(db, "normal")

	_, err := st.Dispatch(game.AdvanceCycle{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rec.Run(ctx, st))

	rows, err := db.Cycles(rec.SessionID())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	sess, err := db.Session(rec.SessionID())
	require.NoError(t, err)
	assert.False(t, sess.Finished())
}
