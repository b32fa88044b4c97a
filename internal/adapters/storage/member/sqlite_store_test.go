package member_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"revive/internal/adapters/storage"
	memberStore "revive/internal/adapters/storage/member"
	domain "revive/internal/domain/member"
)

func openTestStore(t *testing.T) *memberStore.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return memberStore.NewSQLiteStore(db)
}

func testMember(t *testing.T, id, name, status string) domain.Member {
	t.Helper()
	start, err := domain.ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	return domain.Member{
		ID:             id,
		Name:           name,
		Email:          name + "@example.com",
		Phone:          "+919876543210",
		MembershipType: domain.PlanMonthly,
		StartDate:      start,
		EndDate:        domain.ComputeEndDate(start, domain.PlanMonthly),
		PaymentStatus:  status,
	}
}

// TestSQLiteStoreSaveAndGet tests round-tripping a member.
func TestSQLiteStoreSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	m := testMember(t, "m1", "Anita", domain.StatusPaid)
	m.Weight = 62.5
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Anita" || got.Weight != 62.5 {
		t.Errorf("got %+v", got)
	}
	if got.StartDate.String() != "2024-01-15" || got.EndDate.String() != "2024-02-15" {
		t.Errorf("dates did not round-trip: start=%s end=%s", got.StartDate, got.EndDate)
	}

	t.Run("update preserves identity", func(t *testing.T) {
		m.Name = "Anita Rao"
		if err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save update: %v", err)
		}
		got, err := store.GetByID(ctx, "m1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != "Anita Rao" {
			t.Errorf("Name = %q", got.Name)
		}
		count, err := store.Count(ctx, memberStore.ListFilter{})
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.GetByID(ctx, "nope")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetByID error = %v, want ErrNotFound", err)
		}
	})
}

// TestSQLiteStoreDelete tests removal semantics.
func TestSQLiteStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testMember(t, "m1", "Anita", domain.StatusPaid)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("member still present after delete: %v", err)
	}
	if err := store.Delete(ctx, "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStoreListFilter tests search and status filtering with paging.
func TestSQLiteStoreListFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []struct {
		id, name, status string
	}{
		{"m1", "Anita", domain.StatusPaid},
		{"m2", "Ravi", domain.StatusUnpaid},
		{"m3", "Anand", domain.StatusUnpaid},
		{"m4", "Meera", domain.StatusPaid},
	}
	for _, s := range seed {
		if err := store.Save(ctx, testMember(t, s.id, s.name, s.status)); err != nil {
			t.Fatalf("Save %s: %v", s.id, err)
		}
	}

	t.Run("status filter", func(t *testing.T) {
		got, err := store.List(ctx, memberStore.ListFilter{Status: domain.StatusUnpaid})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		for _, m := range got {
			if m.PaymentStatus != domain.StatusUnpaid {
				t.Errorf("unexpected member %s with status %s", m.ID, m.PaymentStatus)
			}
		}
	})

	t.Run("search matches name", func(t *testing.T) {
		got, err := store.List(ctx, memberStore.ListFilter{Search: "An"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (Anita, Anand)", len(got))
		}
	})

	t.Run("search and status combined", func(t *testing.T) {
		count, err := store.Count(ctx, memberStore.ListFilter{Search: "An", Status: domain.StatusUnpaid})
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("limit and offset page through", func(t *testing.T) {
		var all []string
		for offset := 0; offset < 4; offset += 2 {
			page, err := store.List(ctx, memberStore.ListFilter{Limit: 2, Offset: offset})
			if err != nil {
				t.Fatalf("List offset %d: %v", offset, err)
			}
			if len(page) != 2 {
				t.Fatalf("page len = %d, want 2", len(page))
			}
			for _, m := range page {
				all = append(all, m.ID)
			}
		}
		seen := map[string]bool{}
		for _, id := range all {
			if seen[id] {
				t.Errorf("id %s appeared on two pages", id)
			}
			seen[id] = true
		}
	})
}

// TestSQLiteStoreListEndingBetween tests the expiring-window query.
func TestSQLiteStoreListEndingBetween(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	mk := func(id, end, status string) domain.Member {
		m := testMember(t, id, "Member"+id, status)
		d, err := domain.ParseDate(end)
		if err != nil {
			t.Fatalf("ParseDate: %v", err)
		}
		m.EndDate = d
		return m
	}

	members := []domain.Member{
		mk("m1", "2024-06-10", domain.StatusPaid),   // window start
		mk("m2", "2024-06-15", domain.StatusPaid),   // window end
		mk("m3", "2024-06-16", domain.StatusPaid),   // outside
		mk("m4", "2024-06-12", domain.StatusUnpaid), // unpaid, excluded
		mk("m5", "2024-06-09", domain.StatusPaid),   // already past
	}
	for _, m := range members {
		if err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save %s: %v", m.ID, err)
		}
	}

	from, _ := domain.ParseDate("2024-06-10")
	to, _ := domain.ParseDate("2024-06-15")
	got, err := store.ListEndingBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("ListEndingBetween: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m2" {
		t.Errorf("order = %s, %s; want m1, m2 (soonest first)", got[0].ID, got[1].ID)
	}
}

// TestSQLiteStorePhoto tests photo persistence and the has-photo lookup.
func TestSQLiteStorePhoto(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	withPhoto := testMember(t, "m1", "Anita", domain.StatusPaid)
	withPhoto.Photo = []byte{0xFF, 0xD8, 0xFF, 0x01}
	without := testMember(t, "m2", "Ravi", domain.StatusPaid)

	for _, m := range []domain.Member{withPhoto, without} {
		if err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	photo, err := store.GetPhoto(ctx, "m1")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if fmt.Sprintf("%x", photo) != "ffd8ff01" {
		t.Errorf("photo bytes = %x", photo)
	}

	if _, err := store.GetPhoto(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetPhoto missing member error = %v, want ErrNotFound", err)
	}

	t.Run("nil photo on update keeps stored photo", func(t *testing.T) {
		update := withPhoto
		update.Photo = nil
		update.Name = "Anita Rao"
		if err := store.Save(ctx, update); err != nil {
			t.Fatalf("Save: %v", err)
		}
		photo, err := store.GetPhoto(ctx, "m1")
		if err != nil {
			t.Fatalf("GetPhoto: %v", err)
		}
		if len(photo) == 0 {
			t.Error("stored photo clobbered by nil update")
		}
	})

	t.Run("has photo map", func(t *testing.T) {
		got, err := store.HasPhoto(ctx, []string{"m1", "m2", "nope"})
		if err != nil {
			t.Fatalf("HasPhoto: %v", err)
		}
		if !got["m1"] || got["m2"] || got["nope"] {
			t.Errorf("HasPhoto = %v", got)
		}
	})
}
