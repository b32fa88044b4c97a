package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"revive/internal/adapters/storage"
	domain "revive/internal/domain/member"
)

const memberColumns = "id, name, email, phone, weight, membership_type, start_date, end_date, payment_status, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// scanMember reads one member row. Photo bytes are loaded separately via
// GetPhoto; list queries only report whether a photo exists.
func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var startDate, endDate, createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.Phone,
		&entity.Weight,
		&entity.MembershipType,
		&startDate,
		&endDate,
		&entity.PaymentStatus,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	if startDate != "" {
		if entity.StartDate, err = domain.ParseDate(startDate); err != nil {
			return domain.Member{}, err
		}
	}
	if endDate != "" {
		if entity.EndDate, err = domain.ParseDate(endDate); err != nil {
			return domain.Member{}, err
		}
	}
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, domain.ErrNotFound
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); a nil photo keeps any
// previously stored photo
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO member (id, name, email, phone, weight, membership_type, start_date, end_date, payment_status, photo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, phone=excluded.phone,
			weight=excluded.weight, membership_type=excluded.membership_type,
			start_date=excluded.start_date, end_date=excluded.end_date,
			payment_status=excluded.payment_status,
			photo=COALESCE(excluded.photo, member.photo)`

	var photo any
	if len(entity.Photo) > 0 {
		photo = entity.Photo
	}
	var startDate, endDate string
	if !entity.StartDate.IsZero() {
		startDate = entity.StartDate.String()
	}
	if !entity.EndDate.IsZero() {
		endDate = entity.EndDate.String()
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Email,
		entity.Phone,
		entity.Weight,
		entity.MembershipType,
		startDate,
		endDate,
		entity.PaymentStatus,
		photo,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed; domain.ErrNotFound when absent
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND payment_status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR email LIKE ? OR phone LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	return where, args
}

// Count returns the total number of members matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&count)
	return count, err
}

// List retrieves a page of Members based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities in a stable order
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + memberColumns + " FROM member" + where + " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

// ListEndingBetween retrieves paid members whose end date falls inside the
// inclusive [from, to] window, soonest expiry first.
// PRE: from <= to
// POST: Returns matching paid members
func (s *SQLiteStore) ListEndingBetween(ctx context.Context, from, to domain.Date) ([]domain.Member, error) {
	// ISO dates compare correctly as strings.
	query := "SELECT " + memberColumns + ` FROM member
		WHERE payment_status = ? AND end_date >= ? AND end_date <= ?
		ORDER BY end_date ASC`
	rows, err := s.db.QueryContext(ctx, query, domain.StatusPaid, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

// GetPhoto returns the stored photo bytes for a member.
// PRE: id is non-empty
// POST: Returns nil bytes when the member has no photo; domain.ErrNotFound
// when the member does not exist
func (s *SQLiteStore) GetPhoto(ctx context.Context, id string) ([]byte, error) {
	var photo []byte
	err := s.db.QueryRowContext(ctx, "SELECT photo FROM member WHERE id = ?", id).Scan(&photo)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load photo: %w", err)
	}
	return photo, nil
}

func collectMembers(rows *sql.Rows) ([]domain.Member, error) {
	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// HasPhoto reports which of the given member IDs have a stored photo.
// Used by list responses to hand out photo reference URLs without loading
// blobs.
func (s *SQLiteStore) HasPhoto(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	query := "SELECT id FROM member WHERE photo IS NOT NULL AND id IN (" + placeholders + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	return result, rows.Err()
}
