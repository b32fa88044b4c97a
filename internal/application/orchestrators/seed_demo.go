package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	memberStore "revive/internal/adapters/storage/member"
	"revive/internal/domain/member"

	"github.com/google/uuid"
)

// SeedMemberStore defines the store interface for demo seeding.
type SeedMemberStore interface {
	Count(ctx context.Context, filter memberStore.ListFilter) (int, error)
	Save(ctx context.Context, m member.Member) error
}

// SeedDemoDeps holds dependencies for SeedDemoMembers.
type SeedDemoDeps struct {
	MemberStore SeedMemberStore
	Now         func() time.Time // optional: nil uses time.Now
}

// ExecuteSeedDemoMembers populates an empty directory with demo members
// covering the interesting states: active, expiring soon and unpaid.
// Intended for development databases only.
// PRE: MemberStore is non-nil
// POST: No-op when the directory already has members
func ExecuteSeedDemoMembers(ctx context.Context, deps SeedDemoDeps) error {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	count, err := deps.MemberStore.Count(ctx, memberStore.ListFilter{})
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		return nil
	}

	today := member.DateOf(now)
	seeds := []struct {
		name, email, phone, plan string
		weight                   float64
		startOffsetDays          int
	}{
		{"Anita Rao", "anita@example.com", "9876543210", member.PlanMonthly, 58.5, -5},
		{"Ravi Kumar", "ravi@example.com", "9812345678", member.PlanQuarterly, 74, -88},
		{"Meera Nair", member.DefaultEmail, "9898989898", member.PlanYearly, 62, -360},
		{"Arjun Singh", "arjun@example.com", "9765432109", member.PlanMonthly, 81, -45},
	}

	for _, s := range seeds {
		start := member.NewDate(today.Year, today.Month, today.Day+s.startOffsetDays)
		m := member.Member{
			ID:             uuid.New().String(),
			Name:           s.name,
			Email:          s.email,
			Phone:          s.phone,
			Weight:         s.weight,
			MembershipType: s.plan,
			StartDate:      start,
		}
		deriveMembership(&m, now)
		if err := m.Validate(); err != nil {
			return err
		}
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			return fmt.Errorf("seed member %s: %w", s.name, err)
		}
	}

	slog.Info("demo_members_seeded", "count", len(seeds))
	return nil
}
