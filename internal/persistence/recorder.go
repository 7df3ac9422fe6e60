package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/ohi-sim/internal/game"
)

// Recorder mirrors a running session into the database. It writes whatever
// history the latest state holds that has not been written yet, so a missed
// notification only delays a row.
type Recorder struct {
	db         *DB
	id         string
	difficulty string

	created      bool
	savedCycle   int
	achievements int
	finished     bool
}

// NewRecorder prepares a recorder with a fresh session id.
func NewRecorder(db *DB, difficulty string) *Recorder {
	return &Recorder{db: db, id: uuid.NewString(), difficulty: difficulty}
}

// SessionID is the id rows are written under.
func (r *Recorder) SessionID() string { return r.id }

// Sync writes anything new in s. It returns true once the session has ended
// and been finalized.
func (r *Recorder) Sync(s game.State) (bool, error) {
	if r.finished {
		return true, nil
	}
	if s.Country == nil {
		return false, nil
	}
	if !r.created {
		err := r.db.CreateSession(Session{
			ID:          r.id,
			Country:     s.Country.ISO,
			CountryName: s.Country.Name,
			Difficulty:  r.difficulty,
			Seed:        s.Seed,
			StartYear:   s.StartYear,
			EndYear:     s.EndYear,
			StartedAt:   time.Now().Unix(),
		})
		if err != nil {
			return false, err
		}
		r.created = true
		slog.Info("session started", "session", r.id, "country", s.Country.ISO, "seed", s.Seed)
	}

	var fresh = s.History[:0:0]
	for _, rec := range s.History {
		if rec.Cycle > r.savedCycle {
			fresh = append(fresh, rec)
		}
	}
	if err := r.db.SaveCycles(r.id, fresh); err != nil {
		return false, fmt.Errorf("save cycles: %w", err)
	}
	for _, rec := range fresh {
		r.savedCycle = max(r.savedCycle, rec.Cycle)
	}

	if n := len(s.Statistics.Achievements); n > r.achievements {
		if err := r.db.SaveAchievements(r.id, s.Statistics.Achievements[r.achievements:]); err != nil {
			return false, fmt.Errorf("save achievements: %w", err)
		}
		r.achievements = n
	}

	if s.Phase != game.PhaseEnded {
		return false, nil
	}
	return true, r.finish(s)
}

func (r *Recorder) finish(s game.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	if err := r.db.SaveSnapshot(r.id, s.Cycle, data); err != nil {
		return fmt.Errorf("save final snapshot: %w", err)
	}
	if err := r.db.FinishSession(r.id, s.OHIScore, s.Rank(), time.Now()); err != nil {
		return err
	}
	if err := r.db.SaveMeta("last_session", r.id); err != nil {
		return err
	}
	if err := r.db.SaveMeta("last_seed", strconv.FormatInt(s.Seed, 10)); err != nil {
		return err
	}
	r.finished = true
	slog.Info("session finished", "session", r.id, "ohi", s.OHIScore, "rank", s.Rank(), "cycles", len(s.History))
	return nil
}

// Run follows store until the session ends or ctx is cancelled. On
// cancellation the current state is synced once more before returning.
func (r *Recorder) Run(ctx context.Context, store *game.Store) error {
	id, updates := store.Subscribe(32)
	defer store.Unsubscribe(id)

	if done, err := r.Sync(store.State()); done || err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			_, err := r.Sync(store.State())
			return err
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			done, err := r.Sync(s)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}
