// Package store persists decision records to SQLite. The decision core
// stays a pure library call; writing the chosen action back happens here,
// after the search has returned.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"caravan/decision"
)

// DB wraps a SQLite connection holding the decision log.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
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
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trader_id TEXT NOT NULL,
		status TEXT NOT NULL,
		action_kind TEXT NOT NULL,
		fallback_used INTEGER NOT NULL,
		record_json TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_trader ON decisions(trader_id, id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveDecision appends one decision record to the log.
func (db *DB) SaveDecision(record decision.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO decisions (trader_id, status, action_kind, fallback_used, record_json)
		 VALUES (?, ?, ?, ?, ?)`,
		record.TraderID, string(record.Status), string(record.ActionKind),
		record.Stats.FallbackUsed, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// RecentDecisions returns up to limit decisions for one trader, newest
// first.
func (db *DB) RecentDecisions(traderID string, limit int) ([]decision.Record, error) {
	var rows []string
	err := db.conn.Select(&rows,
		`SELECT record_json FROM decisions WHERE trader_id = ? ORDER BY id DESC LIMIT ?`,
		traderID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}

	records := make([]decision.Record, 0, len(rows))
	for _, row := range rows {
		var record decision.Record
		if err := json.Unmarshal([]byte(row), &record); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// CountByStatus tallies logged decisions per status.
func (db *DB) CountByStatus() (map[string]int, error) {
	rows, err := db.conn.Queryx(`SELECT status, COUNT(*) FROM decisions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count decisions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
