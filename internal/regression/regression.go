// Package regression persists per-day world hashes to SQLite so two runs
// of the same seed can be compared for determinism drift, the concrete
// use the kernel's worldhash package exists to serve. It follows the
// teacher's persistence package shape: sqlx over modernc.org/sqlite,
// CREATE TABLE IF NOT EXISTS plus best-effort ALTER TABLE migrations.
package regression

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Ledger wraps a SQLite connection holding the (run_id, day, hash) table.
type Ledger struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path and ensures its schema.
func Open(path string) (*Ledger, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("regression: open db: %w", err)
	}
	l := &Ledger{conn: conn}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("regression: migrate: %w", err)
	}
	return l, nil
}

// Close closes the underlying connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS run_hashes (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		hash INTEGER NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, day)
	);
	CREATE INDEX IF NOT EXISTS idx_run_hashes_day ON run_hashes(day);
	`
	if _, err := l.conn.Exec(schema); err != nil {
		return err
	}

	migrations := []string{
		"ALTER TABLE run_hashes ADD COLUMN label TEXT NOT NULL DEFAULT ''",
	}
	for _, m := range migrations {
		l.conn.Exec(m) // ignore errors — column may already exist
	}
	return nil
}

// NewRun mints a fresh run identifier for a new recording session.
func NewRun() uuid.UUID {
	return uuid.New()
}

// RecordHash appends one day's world hash under runID.
func (l *Ledger) RecordHash(runID uuid.UUID, day int, hash uint64, label string) error {
	_, err := l.conn.Exec(
		`INSERT OR REPLACE INTO run_hashes (run_id, day, hash, label) VALUES (?, ?, ?, ?)`,
		runID.String(), day, int64(hash), label,
	)
	if err != nil {
		return fmt.Errorf("regression: record hash: %w", err)
	}
	return nil
}

// HashRow is one recorded (day, hash) pair for a run.
type HashRow struct {
	Day   int    `db:"day"`
	Hash  int64  `db:"hash"`
	Label string `db:"label"`
}

// LoadRun returns every recorded hash for runID, ordered by day.
func (l *Ledger) LoadRun(runID uuid.UUID) ([]HashRow, error) {
	var rows []HashRow
	err := l.conn.Select(&rows,
		"SELECT day, hash, label FROM run_hashes WHERE run_id = ? ORDER BY day", runID.String())
	if err != nil {
		return nil, fmt.Errorf("regression: load run: %w", err)
	}
	return rows, nil
}

// Mismatch describes one day where two runs' hashes diverged.
type Mismatch struct {
	Day   int
	HashA uint64
	HashB uint64
}

// Compare loads two runs and reports every day where their hashes
// disagree (a day present in only one run is not a mismatch — it is
// reported separately via the returned onlyA/onlyB day lists).
func (l *Ledger) Compare(runA, runB uuid.UUID) (mismatches []Mismatch, onlyA, onlyB []int, err error) {
	rowsA, err := l.LoadRun(runA)
	if err != nil {
		return nil, nil, nil, err
	}
	rowsB, err := l.LoadRun(runB)
	if err != nil {
		return nil, nil, nil, err
	}

	byDayB := make(map[int]int64, len(rowsB))
	for _, r := range rowsB {
		byDayB[r.Day] = r.Hash
	}
	seen := make(map[int]bool, len(rowsA))
	for _, a := range rowsA {
		seen[a.Day] = true
		b, ok := byDayB[a.Day]
		if !ok {
			onlyA = append(onlyA, a.Day)
			continue
		}
		if a.Hash != b {
			mismatches = append(mismatches, Mismatch{Day: a.Day, HashA: uint64(a.Hash), HashB: uint64(b)})
		}
	}
	for _, b := range rowsB {
		if !seen[b.Day] {
			onlyB = append(onlyB, b.Day)
		}
	}
	return mismatches, onlyA, onlyB, nil
}

// LogSummary writes a slog summary of a Compare result, mirroring the
// teacher's persistence package's info-level save/load logging.
func LogSummary(runA, runB uuid.UUID, mismatches []Mismatch, onlyA, onlyB []int) {
	if len(mismatches) == 0 && len(onlyA) == 0 && len(onlyB) == 0 {
		slog.Info("regression: runs match", "run_a", runA, "run_b", runB)
		return
	}
	slog.Warn("regression: runs diverged",
		"run_a", runA, "run_b", runB,
		"mismatches", len(mismatches), "only_a", len(onlyA), "only_b", len(onlyB))
}
