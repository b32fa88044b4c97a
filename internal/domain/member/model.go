package member

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	PlanMonthly   = "monthly"
	PlanQuarterly = "quarterly"
	PlanYearly    = "yearly"

	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// DefaultEmail is shown in place of a missing member email. Display only;
// it is never a deliverable address.
const DefaultEmail = "member@revivefitness.com"

// Domain errors. Validation failures all wrap ErrInvalid so callers can
// map them to a client error without enumerating each one.
var (
	ErrInvalid    = errors.New("invalid member")
	ErrEmptyName  = fmt.Errorf("%w: name is required", ErrInvalid)
	ErrEmptyPhone = fmt.Errorf("%w: phone is required", ErrInvalid)
	ErrNotFound   = errors.New("member not found")
)

// IsValidationError reports whether err stems from member validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// Member holds state for a gym membership record. The directory service is
// the system of record; instances here are read/write copies.
type Member struct {
	ID             string
	Name           string
	Email          string  // optional, falls back to DefaultEmail for display
	Phone          string  // ideally with country code
	Weight         float64 // optional, informational only
	MembershipType string
	StartDate      Date
	EndDate        Date
	PaymentStatus  string
	Photo          []byte // image bytes on intake; nil means no photo
	PhotoURL       string // service-assigned reference for a stored photo
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Phone must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return fmt.Errorf("%w: name cannot exceed %d characters", ErrInvalid, MaxNameLength)
	}
	if strings.TrimSpace(m.Phone) == "" {
		return ErrEmptyPhone
	}
	if m.MembershipType != PlanMonthly && m.MembershipType != PlanQuarterly && m.MembershipType != PlanYearly {
		return fmt.Errorf("%w: membership type must be 'monthly', 'quarterly', or 'yearly'", ErrInvalid)
	}
	if m.PaymentStatus != StatusPaid && m.PaymentStatus != StatusUnpaid {
		return fmt.Errorf("%w: payment status must be 'paid' or 'unpaid'", ErrInvalid)
	}
	return nil
}

// IsPaid returns true if the member's payment status is paid.
// INVARIANT: PaymentStatus field is not mutated
func (m *Member) IsPaid() bool {
	return m.PaymentStatus == StatusPaid
}

// DisplayEmail returns the member's email or the fixed default when absent.
func (m *Member) DisplayEmail() string {
	if m.Email == "" {
		return DefaultEmail
	}
	return m.Email
}

// Initial returns the single uppercase letter used as the avatar fallback
// when a member has no photo.
func (m *Member) Initial() string {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return "N"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
