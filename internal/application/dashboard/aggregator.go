// Package dashboard assembles the admin landing view: headline counters
// plus the expiring-soon list.
package dashboard

import (
	"context"
	"sync"

	"revive/internal/adapters/directory"
	"revive/internal/domain/member"
)

// Service is the slice of the directory the aggregator needs.
type Service interface {
	Stats(ctx context.Context) (directory.Stats, error)
	ExpiringSoon(ctx context.Context) ([]member.Member, error)
}

// Aggregator caches the dashboard state between refreshes. Safe for
// concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	svc      Service
	stats    directory.Stats
	expiring []member.Member
	err      error
	loaded   bool
}

// NewAggregator creates an aggregator. Call Refresh to populate it.
func NewAggregator(svc Service) *Aggregator {
	return &Aggregator{svc: svc}
}

// Refresh fetches the counters and the expiring list. The two fetches
// degrade independently: a failed stats fetch keeps the previous
// counters on screen, while a failed expiring fetch clears the list so
// stale renewal candidates are never shown.
// POST: Err reports the first failure, nil when both fetches succeeded
func (a *Aggregator) Refresh(ctx context.Context) {
	stats, statsErr := a.svc.Stats(ctx)
	expiring, expiringErr := a.svc.ExpiringSoon(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if statsErr == nil {
		a.stats = stats
		a.loaded = true
	}
	if expiringErr == nil {
		a.expiring = expiring
	} else {
		a.expiring = nil
	}
	a.err = statsErr
	if a.err == nil {
		a.err = expiringErr
	}
}

// Stats returns the most recently loaded counters.
func (a *Aggregator) Stats() directory.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Expiring returns the expiring-soon members, soonest first.
func (a *Aggregator) Expiring() []member.Member {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]member.Member, len(a.expiring))
	copy(out, a.expiring)
	return out
}

// Loaded reports whether counters have ever been fetched successfully.
func (a *Aggregator) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// Err returns the error from the most recent refresh, if any.
func (a *Aggregator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
