package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"revive/internal/adapters/email"
	reminderStore "revive/internal/adapters/storage/reminder"
	domain "revive/internal/domain/reminder"
)

// ReminderProcessor delivers queued reminder emails with retries.
type ReminderProcessor struct {
	store     reminderStore.Store
	sender    email.Sender
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// NewReminderProcessor creates a processor with default retry pacing.
func NewReminderProcessor(store reminderStore.Store, sender email.Sender) *ReminderProcessor {
	return &ReminderProcessor{
		store:     store,
		sender:    sender,
		baseDelay: time.Minute,
		maxDelay:  1 * time.Hour,
		batchSize: 25,
	}
}

// ProcessPending attempts delivery for retryable reminders.
// PRE: Context is valid
// POST: Each eligible entry is attempted once and its outcome persisted
func (p *ReminderProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListRetryable(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list retryable reminders: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("reminder_process_failed", "entry_id", entry.ID, "member_id", entry.MemberID, "error", err.Error())
		}
	}
	return nil
}

// processEntry attempts delivery for a single reminder.
func (p *ReminderProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	// Honor the backoff window between attempts
	if !entry.LastAttemptedAt.IsZero() {
		delay := entry.NextRetryDelay(p.baseDelay, p.maxDelay)
		if time.Since(entry.LastAttemptedAt) < delay {
			return nil
		}
	}

	entry.MarkAttempt()
	result, err := p.sender.Send(ctx, email.SendRequest{
		To:      []string{entry.Recipient},
		Subject: entry.Subject,
		HTML:    entry.Body,
	})
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("reminder_send_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSent(result.MessageID)
		slog.Info("reminder_sent", "entry_id", entry.ID, "member_id", entry.MemberID, "kind", entry.Kind, "message_id", result.MessageID)
	}

	return p.store.Save(ctx, entry)
}

// StartReminderWorker starts a background goroutine that periodically
// queues due reminders and processes the delivery queue.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartReminderWorker(processor *ReminderProcessor, queueDeps QueueRemindersDeps, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if queued, err := ExecuteQueueReminders(ctx, queueDeps); err != nil {
					slog.Error("reminder_queue_failed", "error", err.Error())
				} else if queued > 0 {
					slog.Info("reminders_queued", "count", queued)
				}
				if err := processor.ProcessPending(ctx); err != nil {
					slog.Error("reminder_background_process_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("reminder_worker_stopped")
				return
			}
		}
	}()
}
