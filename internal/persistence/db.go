// Package persistence provides the SQLite archive for session exports:
// every chronicle export is written down so a settlement's year
// survives the process that simulated it.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/redrock/internal/engine"
)

// DB wraps a SQLite connection for the export archive.
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
	CREATE TABLE IF NOT EXISTS exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		settlement TEXT NOT NULL,
		day INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		survival_score INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chronicle (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		export_id INTEGER NOT NULL REFERENCES exports(id),
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		severity INTEGER NOT NULL,
		participants_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chronicle_export ON chronicle(export_id);
	CREATE INDEX IF NOT EXISTS idx_chronicle_type ON chronicle(type);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ExportRecord is one archived export row.
type ExportRecord struct {
	ID            int64  `db:"id" json:"id"`
	CreatedAt     string `db:"created_at" json:"created_at"`
	Settlement    string `db:"settlement" json:"settlement"`
	Day           int    `db:"day" json:"day"`
	Seed          int64  `db:"seed" json:"seed"`
	SurvivalScore int    `db:"survival_score" json:"survival_score"`
	SummaryJSON   string `db:"summary_json" json:"-"`
}

// SaveExport archives a full session export: one exports row plus its
// chronicle entries, in a single transaction.
func (db *DB) SaveExport(export engine.Export) (int64, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	summaryJSON, err := json.Marshal(export.Summary)
	if err != nil {
		return 0, fmt.Errorf("marshal summary: %w", err)
	}

	res, err := tx.Exec(`INSERT INTO exports
		(created_at, settlement, day, seed, survival_score, summary_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		export.Summary.Settlement,
		export.Summary.Day,
		export.Seed,
		export.Summary.SurvivalScore,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert export: %w", err)
	}
	exportID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Preparex(`INSERT INTO chronicle
		(export_id, date, description, type, severity, participants_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, entry := range export.Chronicle {
		participantsJSON, _ := json.Marshal(entry.Participants)
		if _, err := stmt.Exec(
			exportID,
			entry.Date.Format(time.RFC3339),
			entry.Description,
			entry.Type,
			entry.Severity,
			string(participantsJSON),
		); err != nil {
			return 0, fmt.Errorf("insert chronicle entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("export archived",
		"export_id", exportID,
		"settlement", export.Summary.Settlement,
		"day", export.Summary.Day,
		"entries", len(export.Chronicle))
	return exportID, nil
}

// RecentExports returns the most recent N archived exports.
func (db *DB) RecentExports(limit int) ([]ExportRecord, error) {
	var records []ExportRecord
	err := db.conn.Select(&records,
		"SELECT * FROM exports ORDER BY id DESC LIMIT ?", limit)
	return records, err
}

// ChronicleRow is one archived chronicle entry.
type ChronicleRow struct {
	ID               int64  `db:"id" json:"id"`
	ExportID         int64  `db:"export_id" json:"export_id"`
	Date             string `db:"date" json:"date"`
	Description      string `db:"description" json:"description"`
	Type             string `db:"type" json:"type"`
	Severity         int    `db:"severity" json:"severity"`
	ParticipantsJSON string `db:"participants_json" json:"-"`
}

// ChronicleFor returns the archived chronicle of one export, oldest
// first.
func (db *DB) ChronicleFor(exportID int64) ([]ChronicleRow, error) {
	var rows []ChronicleRow
	err := db.conn.Select(&rows,
		"SELECT * FROM chronicle WHERE export_id = ? ORDER BY id ASC", exportID)
	return rows, err
}
