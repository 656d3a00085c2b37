// Package sheet provides the remote tabular backends the board can be
// pushed to and pulled from.
package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps worksheet tabs in a local SQLite workbook file. Each row is
// stored as a JSON array of cells; row 0 of a tab is its header.
type SQLite struct {
	db   *sql.DB
	path string
	tab  string
}

// OpenSQLite opens (creating if needed) the workbook at path and selects tab.
func OpenSQLite(path, tab string) (*SQLite, error) {
	if tab == "" {
		return nil, fmt.Errorf("worksheet tab name is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create workbook directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLite{db: db, path: path, tab: tab}, nil
}

// RunMigrations creates the worksheet table.
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS worksheet_cells (
		tab TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		cells TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (tab, row_index)
	);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLite) Name() string {
	return fmt.Sprintf("%s [%s]", s.path, s.tab)
}

// ReadRows returns the header and data rows of the tab. A tab that was never
// written has no header.
func (s *SQLite) ReadRows(ctx context.Context) ([]string, [][]string, error) {
	query := `SELECT cells FROM worksheet_cells WHERE tab=? ORDER BY row_index`
	rows, err := s.db.QueryContext(ctx, query, s.tab)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var all [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", len(all), err)
		}
		all = append(all, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// ReplaceRows clears the tab and writes header and rows in one transaction.
func (s *SQLite) ReplaceRows(ctx context.Context, header []string, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM worksheet_cells WHERE tab=?`, s.tab); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO worksheet_cells (tab, row_index, cells) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, cells := range append([][]string{header}, rows...) {
		if cells == nil {
			cells = []string{}
		}
		raw, err := json.Marshal(cells)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, s.tab, i, string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Close closes the workbook.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
