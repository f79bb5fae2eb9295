package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/zeitan/backend/src/logger"
)

// Amounts and timestamps are stored as TEXT so decimals round-trip exactly
// and both dialects share one row format.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS calc_sessions (
	id {{pk}},
	created_at TEXT NOT NULL,
	calc_method TEXT NOT NULL,
	total_profit_loss TEXT NOT NULL,
	transaction_count INTEGER NOT NULL DEFAULT 0,
	note TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
	id {{pk}},
	session_id INTEGER NOT NULL REFERENCES calc_sessions(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	exchange TEXT NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	amount TEXT NOT NULL,
	price TEXT NOT NULL,
	fee TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_results (
	id {{pk}},
	session_id INTEGER NOT NULL REFERENCES calc_sessions(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	exchange TEXT NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	amount TEXT NOT NULL,
	price TEXT NOT NULL,
	fee TEXT NOT NULL,
	profit_loss TEXT NOT NULL,
	average_cost_used TEXT,
	average_cost_after TEXT,
	held_quantity_after TEXT NOT NULL DEFAULT '0',
	oversold BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_transactions_session ON transactions(session_id, position);
CREATE INDEX IF NOT EXISTS idx_trade_results_session ON trade_results(session_id, position);
`

// Schema returns the DDL for dialect.
func Schema(dialect Dialect) string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == DialectPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}
	return strings.ReplaceAll(schemaTemplate, "{{pk}}", pk)
}

type columnMigration struct {
	table  string
	column string
	ddl    string
}

// Columns added after the first release of each table.
var columnMigrations = []columnMigration{
	{"calc_sessions", "note", "ALTER TABLE calc_sessions ADD COLUMN note TEXT"},
	{"calc_sessions", "transaction_count", "ALTER TABLE calc_sessions ADD COLUMN transaction_count INTEGER NOT NULL DEFAULT 0"},
	{"trade_results", "held_quantity_after", "ALTER TABLE trade_results ADD COLUMN held_quantity_after TEXT NOT NULL DEFAULT '0'"},
	{"trade_results", "oversold", "ALTER TABLE trade_results ADD COLUMN oversold BOOLEAN NOT NULL DEFAULT FALSE"},
}

// Migrate adds missing columns to tables from older releases and then
// creates whatever does not exist yet.
func Migrate(db *sql.DB, dialect Dialect) error {
	for _, m := range columnMigrations {
		columns, err := tableColumns(db, dialect, m.table)
		if err != nil {
			return err
		}
		if len(columns) == 0 || columns[m.column] {
			continue
		}
		if _, err := db.Exec(m.ddl); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", m.table, m.column, err)
		}
		if logger.L != nil {
			logger.L.Info("Added column", "table", m.table, "column", m.column)
		}
	}

	for _, stmt := range strings.Split(Schema(dialect), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

// tableColumns returns the column set of table, empty when the table does
// not exist.
func tableColumns(db *sql.DB, dialect Dialect, table string) (map[string]bool, error) {
	var rows *sql.Rows
	var err error
	if dialect == DialectPostgres {
		rows, err = db.Query("SELECT column_name FROM information_schema.columns WHERE table_name = $1", table)
	} else {
		rows, err = db.Query("SELECT name FROM pragma_table_info(?)", table)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying table schema for '%s': %w", table, err)
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning column info for '%s': %w", table, err)
		}
		columnExists[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over column info for '%s': %w", table, err)
	}
	return columnExists, nil
}
