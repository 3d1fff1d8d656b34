package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh activity to a SQLite database.
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

	// WAL mode so dashboards can read while the serve loop writes.
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
		`CREATE TABLE IF NOT EXISTS ticks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			wallet_address TEXT NOT NULL,
			day            TEXT NOT NULL,
			usd_price      REAL,
			cad_price      REAL,
			ratio          REAL,
			patched        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_ts ON ticks(timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_stats (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			wallet_address TEXT NOT NULL,
			day            TEXT NOT NULL,
			usd_price      REAL,
			cad_price      REAL,
			collateral     REAL,
			borrowed_cad   REAL,
			interest_cad   REAL,
			ratio          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_day ON daily_stats(wallet_address, day)`,

		`CREATE TABLE IF NOT EXISTS refreshes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			outcome   TEXT,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_ts ON refreshes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(evt *TickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	patched := 0
	if evt.Patched {
		patched = 1
	}
	_, err := r.db.Exec(`INSERT INTO ticks
		(timestamp, wallet_address, day, usd_price, cad_price, ratio, patched)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.WalletAddress, evt.On,
		evt.USDPrice, evt.CADPrice, evt.Ratio, patched,
	)
	return err
}

func (r *SQLiteRecorder) RecordStat(evt *StatEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO daily_stats
		(timestamp, wallet_address, day, usd_price, cad_price, collateral, borrowed_cad, interest_cad, ratio)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.WalletAddress, evt.On,
		evt.USDPrice, evt.CADPrice, evt.Collateral,
		evt.BorrowedCAD, evt.InterestCAD, evt.Ratio,
	)
	return err
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refreshes (timestamp, outcome, note) VALUES (?,?,?)`,
		time.Now().Unix(), evt.Outcome, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
