package reminder

import (
	"errors"
	"time"
)

// Status constants for the reminder delivery lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// DefaultMaxAttempts bounds delivery retries per reminder.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyMemberID  = errors.New("member ID is required")
	ErrEmptyKind      = errors.New("reminder kind is required")
	ErrEmptyRecipient = errors.New("recipient address is required")
	ErrEmptyBody      = errors.New("reminder body is required")
)

// Entry is one outbound renewal or payment reminder awaiting delivery.
// Delivery goes through an external provider, so entries carry their own
// retry bookkeeping instead of failing the caller.
// INVARIANT: At most one entry per member, kind and PeriodEnd. A delivered
// reminder is never reissued until the membership end date moves.
type Entry struct {
	ID              string
	MemberID        string
	Kind            string // expiry or payment
	PeriodEnd       string // membership end date (YYYY-MM-DD) the reminder was issued for
	Recipient       string // email address
	Subject         string
	Body            string // HTML body handed to the provider
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	MessageID       string // provider's ID once sent
	ErrorMessage    string // last delivery error
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise; defaults MaxAttempts
func (e *Entry) Validate() error {
	if e.MemberID == "" {
		return ErrEmptyMemberID
	}
	if e.Kind == "" {
		return ErrEmptyKind
	}
	if e.Recipient == "" {
		return ErrEmptyRecipient
	}
	if e.Body == "" {
		return ErrEmptyBody
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry returns true if the entry is eligible for another delivery attempt.
// PRE: Status and Attempts fields are set
// POST: Returns true for pending/retrying/failed with attempts < max
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying || e.Status == StatusFailed) &&
		e.Attempts < e.MaxAttempts
}

// IsTerminal returns true if the entry has reached a terminal state.
// POST: Returns true for sent, abandoned, or failed at the attempt cap
func (e *Entry) IsTerminal() bool {
	if e.Status == StatusSent || e.Status == StatusAbandoned {
		return true
	}
	return e.Status == StatusFailed && e.Attempts >= e.MaxAttempts
}

// MarkAttempt records a delivery attempt.
// PRE: Entry is in a retryable state
// POST: Attempts incremented, LastAttemptedAt updated, status retrying
func (e *Entry) MarkAttempt() {
	e.Attempts++
	e.LastAttemptedAt = time.Now()
	e.Status = StatusRetrying
}

// MarkSent records successful delivery.
// POST: Status sent, provider message ID stored, error cleared
func (e *Entry) MarkSent(messageID string) {
	e.Status = StatusSent
	e.MessageID = messageID
	e.ErrorMessage = ""
}

// MarkFailed records a failed delivery attempt.
// POST: Status failed (abandoned once the attempt cap is reached)
func (e *Entry) MarkFailed(err error) {
	e.Status = StatusFailed
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusAbandoned
	}
}

// NextRetryDelay returns the backoff delay before the next attempt,
// doubling per attempt and capped at maxDelay.
// PRE: baseDelay > 0, maxDelay >= baseDelay
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay
	for i := 1; i < e.Attempts; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return delay
}
