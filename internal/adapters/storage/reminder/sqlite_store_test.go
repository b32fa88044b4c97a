package reminder_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"revive/internal/adapters/storage"
	reminderStore "revive/internal/adapters/storage/reminder"
	domain "revive/internal/domain/reminder"
)

func openTestStore(t *testing.T) *reminderStore.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return reminderStore.NewSQLiteStore(db)
}

func testEntry(id, memberID, kind, status string, createdAt time.Time) domain.Entry {
	return domain.Entry{
		ID:          id,
		MemberID:    memberID,
		Kind:        kind,
		PeriodEnd:   "2024-06-12",
		Recipient:   "member@example.com",
		Subject:     "Reminder",
		Body:        "<p>hello</p>",
		Status:      status,
		MaxAttempts: 3,
		CreatedAt:   createdAt,
	}
}

// TestReminderSaveAndGet tests round-tripping an entry.
func TestReminderSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	e := testEntry("r1", "m1", "expiry", domain.StatusPending, created)
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.MemberID != "m1" || got.Kind != "expiry" || got.Status != domain.StatusPending {
		t.Errorf("got %+v", got)
	}
	if got.PeriodEnd != "2024-06-12" {
		t.Errorf("PeriodEnd = %q, want 2024-06-12", got.PeriodEnd)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if !got.LastAttemptedAt.IsZero() {
		t.Errorf("LastAttemptedAt = %v, want zero", got.LastAttemptedAt)
	}

	t.Run("attempt bookkeeping round-trips", func(t *testing.T) {
		e := got
		e.MarkAttempt()
		e.MarkFailed(errors.New("smtp down"))
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := store.GetByID(ctx, "r1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Attempts != 1 || got.Status != domain.StatusFailed || got.ErrorMessage != "smtp down" {
			t.Errorf("got %+v", got)
		}
		if got.LastAttemptedAt.IsZero() {
			t.Error("LastAttemptedAt not persisted")
		}
	})
}

// TestReminderListRetryable tests the retry queue query.
func TestReminderListRetryable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	entries := []domain.Entry{
		testEntry("r1", "m1", "expiry", domain.StatusPending, base),
		testEntry("r2", "m2", "payment", domain.StatusFailed, base.Add(time.Minute)),
		testEntry("r3", "m3", "expiry", domain.StatusSent, base.Add(2*time.Minute)),
		testEntry("r4", "m4", "payment", domain.StatusAbandoned, base.Add(3*time.Minute)),
	}
	// r5 failed at the attempt cap: excluded even though status is failed.
	capped := testEntry("r5", "m5", "expiry", domain.StatusFailed, base.Add(4*time.Minute))
	capped.Attempts = 3
	entries = append(entries, capped)

	for _, e := range entries {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s: %v", e.ID, err)
		}
	}

	got, err := store.ListRetryable(ctx, 10)
	if err != nil {
		t.Fatalf("ListRetryable: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "r2" {
		t.Errorf("order = %s, %s; want r1, r2 (oldest first)", got[0].ID, got[1].ID)
	}
}

// TestReminderHasForPeriod tests duplicate-nudge detection. An entry in
// any status, including sent, must block another reminder of the same kind
// for the same membership period.
func TestReminderHasForPeriod(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	if err := store.Save(ctx, testEntry("r1", "m1", "expiry", domain.StatusPending, base)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, testEntry("r2", "m2", "payment", domain.StatusSent, base)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tests := []struct {
		name     string
		memberID string
		kind     string
		period   string
		want     bool
	}{
		{"pending entry blocks", "m1", "expiry", "2024-06-12", true},
		{"sent entry still blocks", "m2", "payment", "2024-06-12", true},
		{"different kind", "m1", "payment", "2024-06-12", false},
		{"renewed period does not block", "m2", "payment", "2024-07-12", false},
		{"unknown member", "m9", "expiry", "2024-06-12", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.HasForPeriod(ctx, tt.memberID, tt.kind, tt.period)
			if err != nil {
				t.Fatalf("HasForPeriod: %v", err)
			}
			if got != tt.want {
				t.Errorf("HasForPeriod(%s, %s, %s) = %v, want %v", tt.memberID, tt.kind, tt.period, got, tt.want)
			}
		})
	}
}
