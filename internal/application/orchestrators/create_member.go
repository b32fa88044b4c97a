package orchestrators

import (
	"context"
	"time"

	"revive/internal/adapters/photo"
	"revive/internal/domain/member"

	"github.com/google/uuid"
)

// MemberStore defines the interface for member persistence.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
}

// SaveMemberInput carries the member details submitted from the admin form.
// EndDate and PaymentStatus are optional: when absent they are derived
// from the start date and plan.
type SaveMemberInput struct {
	Name           string
	Email          string
	Phone          string
	Weight         float64
	MembershipType string
	StartDate      member.Date
	EndDate        member.Date
	PaymentStatus  string
	Photo          []byte
}

// CreateMemberDeps holds dependencies for CreateMember.
type CreateMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time // optional: nil uses time.Now
}

// ExecuteCreateMember registers a new member.
// PRE: input has a name and phone; plan is one of the known plans
// POST: Member persisted with a generated ID; end date and payment status
// derived when the input left them blank
func ExecuteCreateMember(ctx context.Context, input SaveMemberInput, deps CreateMemberDeps) (member.Member, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	m := member.Member{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Weight:         input.Weight,
		MembershipType: input.MembershipType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		PaymentStatus:  input.PaymentStatus,
	}
	deriveMembership(&m, now)

	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if input.Photo != nil {
		stored, err := photo.Shrink(input.Photo)
		if err != nil {
			return member.Member{}, err
		}
		m.Photo = stored
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	return m, nil
}

// deriveMembership fills in the end date and payment status when the
// caller did not supply them.
func deriveMembership(m *member.Member, now time.Time) {
	if m.EndDate.IsZero() && !m.StartDate.IsZero() {
		m.EndDate = member.ComputeEndDate(m.StartDate, m.MembershipType)
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = member.ComputePaymentStatus(m.EndDate, now)
	}
}
