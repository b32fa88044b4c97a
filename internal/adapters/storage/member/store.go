package member

import (
	"context"

	domain "revive/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	ListEndingBetween(ctx context.Context, from, to domain.Date) ([]domain.Member, error)
	GetPhoto(ctx context.Context, id string) ([]byte, error)
	HasPhoto(ctx context.Context, ids []string) (map[string]bool, error)
}

// ListFilter carries filtering parameters for List/Count operations.
type ListFilter struct {
	Limit  int
	Offset int
	Search string // matches name, email or phone
	Status string // payment status; empty means all
}
