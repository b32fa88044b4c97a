package projections

import (
	"context"

	memberStore "revive/internal/adapters/storage/member"
	"revive/internal/domain/member"
)

// MemberStore defines the member persistence interface shared by the
// projections in this package.
type MemberStore interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
	Count(ctx context.Context, filter memberStore.ListFilter) (int, error)
	ListEndingBetween(ctx context.Context, from, to member.Date) ([]member.Member, error)
	HasPhoto(ctx context.Context, ids []string) (map[string]bool, error)
}
