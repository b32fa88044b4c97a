// Package memberlist drives the searchable, filterable, incrementally
// loaded member list behind the admin UI.
package memberlist

import (
	"context"
	"sync"
	"time"

	"revive/internal/adapters/directory"
	"revive/internal/domain/member"
)

// DefaultDebounce is how long typing must pause before a search fires.
const DefaultDebounce = 500 * time.Millisecond

// DefaultPageSize matches the directory API's page size.
const DefaultPageSize = 20

// Lister is the slice of the directory service the controller needs.
type Lister interface {
	List(ctx context.Context, q directory.Query) (directory.Page, error)
}

// Config configures a Controller.
type Config struct {
	Service  Lister
	Debounce time.Duration // 0 means DefaultDebounce
	PageSize int           // 0 means DefaultPageSize
}

// Controller holds the list state: accumulated pages, the active search
// term and status filter, and the in-flight guard. All methods are safe
// for concurrent use.
type Controller struct {
	mu       sync.Mutex
	svc      Lister
	debounce time.Duration
	pageSize int

	timer *time.Timer

	term    string
	status  string
	page    int
	members []member.Member
	hasMore bool

	inFlight    bool
	loading     bool
	loadingMore bool
	err         error
}

// NewController creates a controller. Call Refresh to load the first page.
func NewController(cfg Config) *Controller {
	c := &Controller{
		svc:      cfg.Service,
		debounce: cfg.Debounce,
		pageSize: cfg.PageSize,
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	return c
}

// SetTerm updates the search term. The fetch is debounced: it fires
// only after the term has been stable for the debounce interval, so a
// burst of keystrokes costs one request.
func (c *Controller) SetTerm(ctx context.Context, term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fetchFirstPage(ctx)
	})
}

// SetStatusFilter updates the payment-status filter and refetches
// immediately. The immediate fetch supersedes any debounced search still
// pending, so the stale timer is cancelled rather than left to fire a
// second refetch.
// POST: List restarts from page one under the new filter
func (c *Controller) SetStatusFilter(ctx context.Context, status string) {
	c.mu.Lock()
	c.status = status
	c.stopTimerLocked()
	c.mu.Unlock()
	c.fetchFirstPage(ctx)
}

// Refresh reloads the first page under the current term and filter.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
	c.fetchFirstPage(ctx)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// LoadMore appends the next page. A request already in flight makes
// this a no-op: overlapping loads are dropped, never queued.
// POST: On failure the accumulated members are preserved
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight || !c.hasMore {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.loadingMore = true
	q := directory.Query{
		Search: c.term,
		Status: c.status,
		Page:   c.page + 1,
		Limit:  c.pageSize,
	}
	c.mu.Unlock()

	result, err := c.svc.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.loadingMore = false
	if err != nil {
		c.err = err
		return
	}
	c.err = nil
	c.page = q.Page
	c.members = append(c.members, result.Items...)
	c.hasMore = result.HasMore
}

// fetchFirstPage replaces the list with page one of the current query.
// A first-page failure clears the list rather than showing stale rows
// for the wrong query.
func (c *Controller) fetchFirstPage(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.loading = true
	q := directory.Query{
		Search: c.term,
		Status: c.status,
		Page:   1,
		Limit:  c.pageSize,
	}
	c.mu.Unlock()

	result, err := c.svc.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.loading = false
	c.page = 1
	if err != nil {
		c.err = err
		c.members = nil
		c.hasMore = false
		return
	}
	c.err = nil
	c.members = result.Items
	c.hasMore = result.HasMore
}

// Members returns a copy of the accumulated rows in display order.
func (c *Controller) Members() []member.Member {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]member.Member, len(c.members))
	copy(out, c.members)
	return out
}

// HasMore reports whether the service said further pages exist.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Loading reports whether a first-page fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadingMore reports whether a next-page fetch is in flight.
func (c *Controller) LoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingMore
}

// Err returns the error from the most recent fetch, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
