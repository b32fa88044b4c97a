package reminder

import (
	"context"

	domain "revive/internal/domain/reminder"
)

// Store persists reminder Entry state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, value domain.Entry) error
	ListRetryable(ctx context.Context, limit int) ([]domain.Entry, error)
	HasForPeriod(ctx context.Context, memberID, kind, periodEnd string) (bool, error)
}
