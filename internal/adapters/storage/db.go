package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the subset of *sql.DB the stores depend on. Keeping stores off
// the concrete type lets tests substitute an in-memory database or a
// wrapped connection.
type SQLDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		membership_type TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		payment_status TEXT NOT NULL,
		photo BLOB,
		created_at TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_member_payment_status ON member(payment_status);
	CREATE INDEX IF NOT EXISTS idx_member_end_date ON member(end_date);

	CREATE TABLE IF NOT EXISTS reminder (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		period_end TEXT NOT NULL DEFAULT '',
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		message_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE INDEX IF NOT EXISTS idx_reminder_status ON reminder(status);
	CREATE INDEX IF NOT EXISTS idx_reminder_member_period ON reminder(member_id, kind, period_end);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
