package orchestrators

import (
	"context"
	"time"

	"revive/internal/adapters/photo"
	"revive/internal/domain/member"
)

// UpdateMemberInput carries the updated details for an existing member.
type UpdateMemberInput struct {
	ID string
	SaveMemberInput
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time // optional: nil uses time.Now
}

// ExecuteUpdateMember replaces an existing member's details.
// PRE: input.ID names an existing member
// POST: Member persisted; a nil Photo leaves the stored photo untouched
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	existing, err := deps.MemberStore.GetByID(ctx, input.ID)
	if err != nil {
		return member.Member{}, err
	}

	m := member.Member{
		ID:             existing.ID,
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
