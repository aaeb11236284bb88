package ledger

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps records in a SQLite database. It honours the same
// contract as FileStore: Save replaces the full set and keeps its order.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, logger: logger.WithPrefix("store")}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			name     TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			bankroll INTEGER NOT NULL,
			total    INTEGER NOT NULL,
			wins     INTEGER NOT NULL,
			win_rate TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create players table: %w", err)
	}
	return nil
}

// Load returns all records in saved order. Rows whose numeric columns do
// not scan are skipped.
func (s *SQLiteStore) Load() ([]Record, error) {
	rows, err := s.db.Query("SELECT name, bankroll, total, wins FROM players ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var records []Record
	row := 0
	for rows.Next() {
		row++
		var r Record
		if err := rows.Scan(&r.Name, &r.Bankroll, &r.Total, &r.Wins); err != nil {
			s.logger.Warn("Skipping malformed record", "path", s.path,
				"error", &MalformedLineError{Line: row, Reason: err.Error()})
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read players: %w", err)
	}
	return records, nil
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO players (name, position, bankroll, total, wins, win_rate) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(r.Name, i, r.Bankroll, r.Total, r.Wins, r.WinRateString()); err != nil {
			return fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) String() string { return "sqlite:" + s.path }
