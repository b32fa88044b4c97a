package directory

import (
	"context"
	"fmt"

	"revive/internal/domain/member"
)

// Query selects a page of the member directory.
type Query struct {
	Search string // Matched against name, email and phone
	Status string // "" means all statuses
	Page   int    // 1-based
	Limit  int    // Page size
}

// Page is one page of directory results.
type Page struct {
	Items   []member.Member
	HasMore bool
}

// Stats summarises the directory for the dashboard.
type Stats struct {
	TotalMembers    int
	ActiveMembers   int
	UnpaidMembers   int
	ExpiringMembers int
}

// Directory is the member directory service as seen by the admin
// application. Implementations talk to the Revive backend.
type Directory interface {
	List(ctx context.Context, q Query) (Page, error)
	Create(ctx context.Context, m member.Member) (member.Member, error)
	Update(ctx context.Context, m member.Member) (member.Member, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
	ExpiringSoon(ctx context.Context) ([]member.Member, error)
}

// TransportError wraps a non-2xx response from the directory backend.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("directory request failed: status %d: %s", e.StatusCode, e.Body)
}
