package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS signal_rows (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES runs(id),
			group_name      TEXT,
			symbol          TEXT,
			asset           TEXT,
			outcome         TEXT,
			signal          TEXT,
			inside_week     INTEGER,
			inside_pw_range INTEGER,
			high_of_month   INTEGER,
			high_of_week    INTEGER,
			first_red_day   INTEGER,
			low_of_month    INTEGER,
			low_of_week     INTEGER,
			first_green_day INTEGER,
			inside_day      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_rows_run ON signal_rows(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_rows_symbol ON signal_rows(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts one runs row plus one signal_rows row per instrument.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (timestamp) VALUES (?)`, snap.StartedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, g := range snap.Groups {
		for _, row := range g.Rows {
			f := row.Flags
			_, err := tx.Exec(`INSERT INTO signal_rows
				(run_id, group_name, symbol, asset, outcome, signal,
				 inside_week, inside_pw_range, high_of_month, high_of_week,
				 first_red_day, low_of_month, low_of_week, first_green_day, inside_day)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				runID, g.Name, row.Symbol, row.Asset, string(row.Outcome), string(row.Signal),
				b2i(f.InsideWeek), b2i(f.InsidePrevWeekRange), b2i(f.HighOfMonth), b2i(f.HighOfWeek),
				b2i(f.FirstRedDay), b2i(f.LowOfMonth), b2i(f.LowOfWeek), b2i(f.FirstGreenDay), b2i(f.InsideDay),
			)
			if err != nil {
				return fmt.Errorf("insert signal row %s: %w", row.Symbol, err)
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}
