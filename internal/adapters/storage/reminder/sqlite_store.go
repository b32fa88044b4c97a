package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"revive/internal/adapters/storage"
	domain "revive/internal/domain/reminder"
)

const reminderColumns = "id, member_id, kind, period_end, recipient, subject, body, status, attempts, max_attempts, last_attempted_at, created_at, message_id, error_message"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new reminder store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEntry(scan func(dest ...any) error) (domain.Entry, error) {
	var entity domain.Entry
	var lastAttempted sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.MemberID,
		&entity.Kind,
		&entity.PeriodEnd,
		&entity.Recipient,
		&entity.Subject,
		&entity.Body,
		&entity.Status,
		&entity.Attempts,
		&entity.MaxAttempts,
		&lastAttempted,
		&createdAt,
		&entity.MessageID,
		&entity.ErrorMessage,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	if lastAttempted.Valid && lastAttempted.String != "" {
		if entity.LastAttemptedAt, err = time.Parse(time.RFC3339, lastAttempted.String); err != nil {
			return domain.Entry{}, err
		}
	}
	if createdAt != "" {
		if entity.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return domain.Entry{}, err
		}
	}
	return entity, nil
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reminderColumns+" FROM reminder WHERE id = ?", id)
	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("reminder not found: %w", err)
	}
	return entity, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	query := `INSERT INTO reminder (id, member_id, kind, period_end, recipient, subject, body, status, attempts, max_attempts, last_attempted_at, created_at, message_id, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, attempts=excluded.attempts,
			last_attempted_at=excluded.last_attempted_at,
			message_id=excluded.message_id, error_message=excluded.error_message`

	var lastAttempted string
	if !entity.LastAttemptedAt.IsZero() {
		lastAttempted = entity.LastAttemptedAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.Kind,
		entity.PeriodEnd,
		entity.Recipient,
		entity.Subject,
		entity.Body,
		entity.Status,
		entity.Attempts,
		entity.MaxAttempts,
		lastAttempted,
		entity.CreatedAt.UTC().Format(time.RFC3339),
		entity.MessageID,
		entity.ErrorMessage,
	)
	return err
}

// ListRetryable retrieves entries eligible for a delivery attempt, oldest
// first.
// PRE: limit > 0
// POST: Returns pending/retrying/failed entries below their attempt cap
func (s *SQLiteStore) ListRetryable(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := "SELECT " + reminderColumns + ` FROM reminder
		WHERE status IN (?, ?, ?) AND attempts < max_attempts
		ORDER BY created_at ASC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query,
		domain.StatusPending, domain.StatusRetrying, domain.StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		entity, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// HasForPeriod reports whether a reminder of the given kind already exists
// for the member's current membership period, in any status. Delivered and
// abandoned entries count too: a nudge for a given end date goes out once,
// and only a renewed membership (new end date) is eligible again.
// PRE: memberID and kind are non-empty
func (s *SQLiteStore) HasForPeriod(ctx context.Context, memberID, kind, periodEnd string) (bool, error) {
	query := `SELECT COUNT(*) FROM reminder
		WHERE member_id = ? AND kind = ? AND period_end = ?`
	var count int
	err := s.db.QueryRowContext(ctx, query, memberID, kind, periodEnd).Scan(&count)
	return count > 0, err
}
