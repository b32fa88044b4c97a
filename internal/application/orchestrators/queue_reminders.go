package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	memberStore "revive/internal/adapters/storage/member"
	"revive/internal/domain/member"
	"revive/internal/domain/notification"
	reminderDomain "revive/internal/domain/reminder"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// reminderMarkdown renders plain-text reminder bodies into HTML for email.
// Hard wraps keep the line structure of the message templates.
var reminderMarkdown = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// QueueMemberStore defines the member listing interface for reminder queueing.
type QueueMemberStore interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
	ListEndingBetween(ctx context.Context, from, to member.Date) ([]member.Member, error)
}

// QueueReminderStore defines the reminder persistence interface for queueing.
type QueueReminderStore interface {
	Save(ctx context.Context, e reminderDomain.Entry) error
	HasForPeriod(ctx context.Context, memberID, kind, periodEnd string) (bool, error)
}

// QueueRemindersDeps holds dependencies for QueueReminders.
type QueueRemindersDeps struct {
	MemberStore   QueueMemberStore
	ReminderStore QueueReminderStore
	Now           func() time.Time // optional: nil uses time.Now
}

// ExecuteQueueReminders scans the directory and queues email reminders:
// renewal nudges for paid members expiring within the window, payment
// nudges for unpaid members. Members without a real email address are
// skipped, as are members who already have a reminder of the same kind
// for their current membership period.
// PRE: Both stores are non-nil
// POST: Returns the number of reminders queued
func ExecuteQueueReminders(ctx context.Context, deps QueueRemindersDeps) (int, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	queued := 0

	today := member.DateOf(now)
	windowEnd := member.NewDate(today.Year, today.Month, today.Day+member.ExpiringWindowDays)
	expiring, err := deps.MemberStore.ListEndingBetween(ctx, today, windowEnd)
	if err != nil {
		return queued, fmt.Errorf("list expiring members: %w", err)
	}
	for _, m := range expiring {
		if !member.IsExpiringSoon(m.PaymentStatus, member.DaysRemaining(m.EndDate, now)) {
			continue
		}
		n, err := queueOne(ctx, deps.ReminderStore, m, notification.BuildExpiryReminder(m, now), now)
		if err != nil {
			return queued, err
		}
		queued += n
	}

	unpaid, err := deps.MemberStore.List(ctx, memberStore.ListFilter{Status: member.StatusUnpaid})
	if err != nil {
		return queued, fmt.Errorf("list unpaid members: %w", err)
	}
	for _, m := range unpaid {
		n, err := queueOne(ctx, deps.ReminderStore, m, notification.BuildPaymentReminder(m), now)
		if err != nil {
			return queued, err
		}
		queued += n
	}

	return queued, nil
}

// queueOne persists a single reminder entry unless the member cannot be
// emailed or a reminder of the same kind already exists for the member's
// current membership period. Keying on the end date means a delivered
// reminder stays delivered until the member renews.
func queueOne(ctx context.Context, store QueueReminderStore, m member.Member, msg notification.Message, now time.Time) (int, error) {
	if m.Email == "" || m.Email == member.DefaultEmail {
		return 0, nil
	}

	period := ""
	if !m.EndDate.IsZero() {
		period = m.EndDate.String()
	}
	exists, err := store.HasForPeriod(ctx, m.ID, msg.Kind, period)
	if err != nil {
		return 0, fmt.Errorf("check reminders for %s: %w", m.ID, err)
	}
	if exists {
		return 0, nil
	}

	body, err := renderReminderHTML(msg.Body)
	if err != nil {
		return 0, fmt.Errorf("render reminder for %s: %w", m.ID, err)
	}

	entry := reminderDomain.Entry{
		ID:          uuid.New().String(),
		MemberID:    m.ID,
		Kind:        msg.Kind,
		PeriodEnd:   period,
		Recipient:   m.Email,
		Subject:     msg.Subject,
		Body:        body,
		Status:      reminderDomain.StatusPending,
		MaxAttempts: reminderDomain.DefaultMaxAttempts,
		CreatedAt:   now,
	}
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	if err := store.Save(ctx, entry); err != nil {
		return 0, err
	}

	slog.Info("reminder_queued", "member_id", m.ID, "kind", msg.Kind, "recipient", m.Email)
	return 1, nil
}

// renderReminderHTML converts a plain-text message body into email HTML.
func renderReminderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := reminderMarkdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
