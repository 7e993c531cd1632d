// Package persistence provides SQLite-based storage of simulation runs:
// run metadata, snapshot sequences, and board vote records.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/metrosim/internal/engine"
)

// DB wraps a SQLite connection for run result persistence.
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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		status TEXT NOT NULL,
		random_seed INTEGER NOT NULL,
		total_steps INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL REFERENCES runs(id),
		timestep INTEGER NOT NULL,
		total_population REAL NOT NULL,
		total_housing_units REAL NOT NULL,
		total_businesses REAL NOT NULL,
		avg_median_rent REAL NOT NULL,
		avg_vacancy_rate REAL NOT NULL,
		total_crime_incidents REAL NOT NULL,
		transit_mode_share REAL NOT NULL,
		tracts_json TEXT NOT NULL,
		PRIMARY KEY (run_id, timestep)
	);

	CREATE TABLE IF NOT EXISTS votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		timestep INTEGER NOT NULL,
		categories TEXT NOT NULL,
		policy_ideology REAL NOT NULL,
		yes_votes INTEGER NOT NULL,
		total_votes INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		veto_override INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	CREATE INDEX IF NOT EXISTS idx_votes_run ON votes(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRecord is the stored metadata of one simulation run.
type RunRecord struct {
	ID         string     `db:"id"`
	Scenario   string     `db:"scenario"`
	Status     string     `db:"status"`
	RandomSeed int64      `db:"random_seed"`
	TotalSteps int        `db:"total_steps"`
	CreatedAt  time.Time  `db:"created_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Error      string     `db:"error"`
	ConfigJSON string     `db:"config_json"`
}

// SaveRun inserts or replaces a run's metadata row.
func (db *DB) SaveRun(rec RunRecord) error {
	var finished any
	if rec.FinishedAt != nil {
		finished = rec.FinishedAt.UTC().Format(time.RFC3339)
	}
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO runs
		(id, scenario, status, random_seed, total_steps, created_at, finished_at, error, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Scenario, rec.Status, rec.RandomSeed, rec.TotalSteps,
		rec.CreatedAt.UTC().Format(time.RFC3339), finished, rec.Error, rec.ConfigJSON,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.ID, err)
	}
	return nil
}

// GetRun loads one run's metadata.
func (db *DB) GetRun(runID string) (RunRecord, error) {
	var raw struct {
		ID         string  `db:"id"`
		Scenario   string  `db:"scenario"`
		Status     string  `db:"status"`
		RandomSeed int64   `db:"random_seed"`
		TotalSteps int     `db:"total_steps"`
		CreatedAt  string  `db:"created_at"`
		FinishedAt *string `db:"finished_at"`
		Error      string  `db:"error"`
		ConfigJSON string  `db:"config_json"`
	}
	err := db.conn.Get(&raw, "SELECT * FROM runs WHERE id = ?", runID)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}

	rec := RunRecord{
		ID:         raw.ID,
		Scenario:   raw.Scenario,
		Status:     raw.Status,
		RandomSeed: raw.RandomSeed,
		TotalSteps: raw.TotalSteps,
		Error:      raw.Error,
		ConfigJSON: raw.ConfigJSON,
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, raw.CreatedAt)
	if raw.FinishedAt != nil {
		t, err := time.Parse(time.RFC3339, *raw.FinishedAt)
		if err == nil {
			rec.FinishedAt = &t
		}
	}
	return rec, nil
}

// ListRuns returns all run metadata rows, newest first.
func (db *DB) ListRuns() ([]RunRecord, error) {
	rows, err := db.conn.Queryx("SELECT id FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		rec, err := db.GetRun(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveSnapshots writes a run's full snapshot sequence (full replace).
func (db *DB) SaveSnapshots(runID string, snapshots []engine.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshots WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO snapshots
		(run_id, timestep, total_population, total_housing_units, total_businesses,
		 avg_median_rent, avg_vacancy_rate, total_crime_incidents, transit_mode_share,
		 tracts_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		tractsJSON, err := json.Marshal(snap.Tracts)
		if err != nil {
			return fmt.Errorf("marshal snapshot %d: %w", snap.Timestep, err)
		}
		agg := snap.Aggregate
		_, err = stmt.Exec(
			runID, snap.Timestep,
			agg.TotalPopulation, agg.TotalHousingUnits, agg.TotalBusinesses,
			agg.AvgMedianRent, agg.AvgVacancyRate, agg.TotalCrimeIncidents,
			agg.TransitModeShare, string(tractsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %d: %w", snap.Timestep, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshots returns a run's snapshot sequence in timestep order.
func (db *DB) LoadSnapshots(runID string) ([]engine.Snapshot, error) {
	rows, err := db.conn.Queryx(`SELECT timestep, total_population, total_housing_units,
		total_businesses, avg_median_rent, avg_vacancy_rate, total_crime_incidents,
		transit_mode_share, tracts_json
		FROM snapshots WHERE run_id = ? ORDER BY timestep`, runID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots %s: %w", runID, err)
	}
	defer rows.Close()

	var out []engine.Snapshot
	for rows.Next() {
		var snap engine.Snapshot
		var tractsJSON string
		err := rows.Scan(&snap.Timestep,
			&snap.Aggregate.TotalPopulation, &snap.Aggregate.TotalHousingUnits,
			&snap.Aggregate.TotalBusinesses, &snap.Aggregate.AvgMedianRent,
			&snap.Aggregate.AvgVacancyRate, &snap.Aggregate.TotalCrimeIncidents,
			&snap.Aggregate.TransitModeShare, &tractsJSON,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tractsJSON), &snap.Tracts); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %d: %w", snap.Timestep, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// SaveVotes appends a run's board vote records.
func (db *DB) SaveVotes(runID string, votes []engine.VoteRecord) error {
	if len(votes) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM votes WHERE run_id = ?", runID); err != nil {
		return err
	}

	for _, v := range votes {
		passed, veto := 0, 0
		if v.Passed {
			passed = 1
		}
		if v.VetoOverride {
			veto = 1
		}
		_, err := tx.Exec(`INSERT INTO votes
			(run_id, timestep, categories, policy_ideology, yes_votes, total_votes, passed, veto_override)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, v.Timestep, strings.Join(v.Categories, ","),
			v.PolicyIdeology, v.YesVotes, v.TotalVotes, passed, veto,
		)
		if err != nil {
			return fmt.Errorf("insert vote at step %d: %w", v.Timestep, err)
		}
	}

	return tx.Commit()
}

// LoadVotes returns a run's vote records in timestep order.
func (db *DB) LoadVotes(runID string) ([]engine.VoteRecord, error) {
	rows, err := db.conn.Queryx(`SELECT timestep, categories, policy_ideology,
		yes_votes, total_votes, passed, veto_override
		FROM votes WHERE run_id = ? ORDER BY timestep`, runID)
	if err != nil {
		return nil, fmt.Errorf("load votes %s: %w", runID, err)
	}
	defer rows.Close()

	var out []engine.VoteRecord
	for rows.Next() {
		var v engine.VoteRecord
		var categories string
		var passed, veto int
		if err := rows.Scan(&v.Timestep, &categories, &v.PolicyIdeology,
			&v.YesVotes, &v.TotalVotes, &passed, &veto); err != nil {
			return nil, err
		}
		if categories != "" {
			v.Categories = strings.Split(categories, ",")
		}
		v.Passed = passed == 1
		v.VetoOverride = veto == 1
		out = append(out, v)
	}
	return out, rows.Err()
}

// SaveRunResult stores a completed run in one shot: metadata, snapshots,
// and vote history.
func (db *DB) SaveRunResult(rec RunRecord, snapshots []engine.Snapshot, votes []engine.VoteRecord) error {
	slog.Info("saving run", "run_id", rec.ID, "snapshots", len(snapshots), "votes", len(votes))

	if err := db.SaveRun(rec); err != nil {
		return err
	}
	if err := db.SaveSnapshots(rec.ID, snapshots); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}
	if err := db.SaveVotes(rec.ID, votes); err != nil {
		return fmt.Errorf("save votes: %w", err)
	}
	return nil
}
