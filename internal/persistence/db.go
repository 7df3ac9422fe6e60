// Package persistence stores finished and in-progress sessions in SQLite and
// reads and writes compressed state snapshots.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/pillar"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for session storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		country_name TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		seed INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL DEFAULT 0,
		final_ohi REAL NOT NULL DEFAULT 0,
		final_rank INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cycle_records (
		session_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		year INTEGER NOT NULL,
		ohi REAL NOT NULL,
		rank INTEGER NOT NULL,
		rank_delta INTEGER NOT NULL,
		carry_over REAL NOT NULL,
		active_effects INTEGER NOT NULL,
		pillars_json TEXT NOT NULL,
		allocated_json TEXT NOT NULL,
		spent_json TEXT NOT NULL,
		PRIMARY KEY (session_id, cycle)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		session_id TEXT NOT NULL,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		year INTEGER NOT NULL,
		PRIMARY KEY (session_id, id)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (session_id, cycle)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Session is one play-through. EndedAt is zero while it is in progress.
type Session struct {
	ID          string  `db:"id"`
	Country     string  `db:"country"`
	CountryName string  `db:"country_name"`
	Difficulty  string  `db:"difficulty"`
	Seed        int64   `db:"seed"`
	StartYear   int     `db:"start_year"`
	EndYear     int     `db:"end_year"`
	StartedAt   int64   `db:"started_at"`
	EndedAt     int64   `db:"ended_at"`
	FinalOHI    float64 `db:"final_ohi"`
	FinalRank   int     `db:"final_rank"`
}

// Finished reports whether the session reached its end year.
func (s Session) Finished() bool { return s.EndedAt != 0 }

func (s Session) Started() time.Time { return time.Unix(s.StartedAt, 0) }

// CycleRow is a stored history entry.
type CycleRow struct {
	SessionID     string        `db:"session_id"`
	Cycle         int           `db:"cycle"`
	Year          int           `db:"year"`
	OHI           float64       `db:"ohi"`
	Rank          int           `db:"rank"`
	RankDelta     int           `db:"rank_delta"`
	CarryOver     float64       `db:"carry_over"`
	ActiveEffects int           `db:"active_effects"`
	PillarsJSON   string        `db:"pillars_json"`
	AllocatedJSON string        `db:"allocated_json"`
	SpentJSON     string        `db:"spent_json"`
	Pillars       pillar.Values `db:"-"`
}

// CreateSession inserts a new session row.
func (db *DB) CreateSession(s Session) error {
	_, err := db.conn.NamedExec(`INSERT INTO sessions
		(id, country, country_name, difficulty, seed, start_year, end_year, started_at)
		VALUES (:id, :country, :country_name, :difficulty, :seed, :start_year, :end_year, :started_at)`, s)
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.ID, err)
	}
	return nil
}

// FinishSession records the final score of a session.
func (db *DB) FinishSession(id string, ohi float64, rank int, at time.Time) error {
	res, err := db.conn.Exec(
		"UPDATE sessions SET ended_at = ?, final_ohi = ?, final_rank = ? WHERE id = ?",
		at.Unix(), ohi, rank, id,
	)
	if err != nil {
		return fmt.Errorf("finish session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish session %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveCycles writes history entries. Rewriting an existing cycle replaces it.
func (db *DB) SaveCycles(sessionID string, records []engine.CycleRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO cycle_records
		(session_id, cycle, year, ohi, rank, rank_delta, carry_over, active_effects,
		 pillars_json, allocated_json, spent_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		pillarsJSON, _ := json.Marshal(r.Pillars)
		allocJSON, _ := json.Marshal(r.Allocated)
		spentJSON, _ := json.Marshal(r.Spent)

		_, err := stmt.Exec(
			sessionID, r.Cycle, r.Year, r.OHIScore, r.Rank, r.RankDelta,
			r.CarryOver, r.ActiveEffects,
			string(pillarsJSON), string(allocJSON), string(spentJSON),
		)
		if err != nil {
			return fmt.Errorf("insert cycle %d: %w", r.Cycle, err)
		}
	}

	return tx.Commit()
}

// SaveAchievements stores unlocked achievements. Already stored ids are kept.
func (db *DB) SaveAchievements(sessionID string, list []engine.Achievement) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range list {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO achievements (session_id, id, title, cycle, year) VALUES (?, ?, ?, ?, ?)",
			sessionID, a.ID, a.Title, a.Cycle, a.Year,
		)
		if err != nil {
			return fmt.Errorf("insert achievement %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// SaveSnapshot stores an encoded state for a session cycle.
func (db *DB) SaveSnapshot(sessionID string, cycle int, data []byte) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (session_id, cycle, created_at, data) VALUES (?, ?, ?, ?)",
		sessionID, cycle, time.Now().Unix(), data,
	)
	return err
}

// LatestSnapshot returns the most recent encoded state of a session.
func (db *DB) LatestSnapshot(sessionID string) ([]byte, int, error) {
	var row struct {
		Cycle int    `db:"cycle"`
		Data  []byte `db:"data"`
	}
	err := db.conn.Get(&row,
		"SELECT cycle, data FROM snapshots WHERE session_id = ? ORDER BY cycle DESC LIMIT 1",
		sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("snapshot for %s: %w", sessionID, ErrNotFound)
	}
	return row.Data, row.Cycle, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}

// Sessions returns the most recent sessions, newest first.
func (db *DB) Sessions(limit int) ([]Session, error) {
	var out []Session
	err := db.conn.Select(&out,
		"SELECT * FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return out, err
}

// Session looks up one session by id.
func (db *DB) Session(id string) (Session, error) {
	var s Session
	err := db.conn.Get(&s, "SELECT * FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, err
}

// Cycles returns the stored history of a session in cycle order.
func (db *DB) Cycles(sessionID string) ([]CycleRow, error) {
	var rows []CycleRow
	err := db.conn.Select(&rows, `SELECT session_id, cycle, year, ohi, rank, rank_delta,
		carry_over, active_effects, pillars_json, allocated_json, spent_json
		FROM cycle_records WHERE session_id = ? ORDER BY cycle`, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := json.Unmarshal([]byte(rows[i].PillarsJSON), &rows[i].Pillars); err != nil {
			slog.Warn("bad pillars column", "session", sessionID, "cycle", rows[i].Cycle, "error", err)
		}
	}
	return rows, nil
}

// Achievements returns a session's unlocked achievements in unlock order.
func (db *DB) Achievements(sessionID string) ([]engine.Achievement, error) {
	var out []engine.Achievement
	err := db.conn.Select(&out,
		"SELECT id, title, cycle, year FROM achievements WHERE session_id = ? ORDER BY cycle, id",
		sessionID,
	)
	return out, err
}
