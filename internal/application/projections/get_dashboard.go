package projections

import (
	"context"
	"time"

	memberStore "revive/internal/adapters/storage/member"
	"revive/internal/domain/member"
)

// ExpiringMember is a paid member whose membership ends within the
// expiring window.
type ExpiringMember struct {
	Member        member.Member
	DaysRemaining int
}

// GetDashboardResult carries the dashboard counters and the expiring list.
type GetDashboardResult struct {
	TotalMembers    int
	ActiveMembers   int
	UnpaidMembers   int
	ExpiringMembers int
	Expiring        []ExpiringMember
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	MemberStore MemberStore
	Now         func() time.Time // optional: nil uses time.Now
}

// QueryGetDashboard computes the dashboard summary: headline counters
// plus the list of paid members expiring within the next few days,
// soonest first.
// PRE: MemberStore is non-nil
// POST: ExpiringMembers == len(Expiring); every entry has 0 <= DaysRemaining <= the window
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (GetDashboardResult, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	total, err := deps.MemberStore.Count(ctx, memberStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}
	active, err := deps.MemberStore.Count(ctx, memberStore.ListFilter{Status: member.StatusPaid})
	if err != nil {
		return GetDashboardResult{}, err
	}
	unpaid, err := deps.MemberStore.Count(ctx, memberStore.ListFilter{Status: member.StatusUnpaid})
	if err != nil {
		return GetDashboardResult{}, err
	}

	today := member.DateOf(now)
	windowEnd := member.NewDate(today.Year, today.Month, today.Day+member.ExpiringWindowDays)
	candidates, err := deps.MemberStore.ListEndingBetween(ctx, today, windowEnd)
	if err != nil {
		return GetDashboardResult{}, err
	}

	var expiring []ExpiringMember
	for _, m := range candidates {
		days := member.DaysRemaining(m.EndDate, now)
		if !member.IsExpiringSoon(m.PaymentStatus, days) {
			continue
		}
		m.Photo = nil
		expiring = append(expiring, ExpiringMember{Member: m, DaysRemaining: days})
	}

	return GetDashboardResult{
		TotalMembers:    total,
		ActiveMembers:   active,
		UnpaidMembers:   unpaid,
		ExpiringMembers: len(expiring),
		Expiring:        expiring,
	}, nil
}
