package member

import (
	"math"
	"time"
)

// ExpiringWindowDays is the inclusive days-remaining window in which a paid
// membership counts as expiring soon.
const ExpiringWindowDays = 5

// ComputeEndDate derives a membership end date from its start date and plan.
// Monthly adds one calendar month, quarterly three, yearly one year.
// PRE: start is a valid date, plan is a known plan constant
// POST: Returns a date strictly after start
// INVARIANT: Calendar overflow normalizes forward (Jan 31 + 1 month rolls
// into early March); that rollover is the accepted behavior, not a bug.
func ComputeEndDate(start Date, plan string) Date {
	switch plan {
	case PlanMonthly:
		return NewDate(start.Year, start.Month+1, start.Day)
	case PlanQuarterly:
		return NewDate(start.Year, start.Month+3, start.Day)
	case PlanYearly:
		return NewDate(start.Year+1, start.Month, start.Day)
	}
	return start
}

// ComputePaymentStatus derives the payment status snapshot from an end date.
// PRE: now carries the reference wall clock
// POST: Returns StatusPaid iff end is today or later; a zero end is unpaid
// INVARIANT: The boundary is inclusive — end == today is paid at any time of day
func ComputePaymentStatus(end Date, now time.Time) string {
	if end.IsZero() {
		return StatusUnpaid
	}
	if end.Before(DateOf(now)) {
		return StatusUnpaid
	}
	return StatusPaid
}

// DaysOverdue returns the whole number of days by which today exceeds the
// end date, midnight-to-midnight, never negative.
// POST: Returns 0 when end is missing or not yet passed
func DaysOverdue(end Date, now time.Time) int {
	if end.IsZero() {
		return 0
	}
	diff := DateOf(now).midnight(now.Location()).Sub(end.midnight(now.Location()))
	days := int(math.Floor(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// DaysRemaining returns the days of validity left, counting the end date
// itself as a full day (ceiling against the end of that day). Negative when
// the membership has lapsed; deliberately not clamped.
//
// Overdue floors a midnight delta while remaining ceils an end-of-day delta.
// The two policies answer different questions ("full days late" vs "days of
// grace left") and must stay separate: unifying them moves the expiring-soon
// boundary.
func DaysRemaining(end Date, now time.Time) int {
	if end.IsZero() {
		return 0
	}
	diff := end.endOfDay(now.Location()).Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsExpiringSoon reports whether a membership needs a renewal nudge: paid,
// with 0 to ExpiringWindowDays days remaining inclusive.
func IsExpiringSoon(paymentStatus string, daysRemaining int) bool {
	return paymentStatus == StatusPaid && daysRemaining >= 0 && daysRemaining <= ExpiringWindowDays
}
