package member_test

import (
	"testing"
	"time"

	"revive/internal/domain/member"
)

// TestParseDate tests parsing of the wire date format.
func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := member.ParseDate("2024-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Year != 2024 || d.Month != time.January || d.Day != 15 {
			t.Errorf("parsed %v", d)
		}
	})

	for _, bad := range []string{"", "15-01-2024", "2024/01/15", "2024-13-01", "yesterday"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := member.ParseDate(bad); err == nil {
				t.Errorf("ParseDate(%q) accepted invalid input", bad)
			}
		})
	}
}

// TestDateString tests round-tripping through the string form.
func TestDateString(t *testing.T) {
	for _, s := range []string{"2024-01-15", "1999-12-31", "2025-06-01"} {
		d, err := member.ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", s, err)
		}
		if d.String() != s {
			t.Errorf("String() = %q, want %q", d.String(), s)
		}
	}
}

// TestDateOrdering tests Before/After/Equal.
func TestDateOrdering(t *testing.T) {
	a := member.NewDate(2024, time.March, 5)
	b := member.NewDate(2024, time.March, 6)
	c := member.NewDate(2024, time.April, 1)
	d := member.NewDate(2025, time.January, 1)

	if !a.Before(b) || !b.Before(c) || !c.Before(d) {
		t.Error("Before ordering broken")
	}
	if !d.After(a) {
		t.Error("After ordering broken")
	}
	if a.Before(a) || a.After(a) {
		t.Error("date compares before/after itself")
	}
	if !a.Equal(member.NewDate(2024, time.March, 5)) {
		t.Error("Equal broken")
	}
}

// TestDateOf tests extraction of the calendar date from an instant.
func TestDateOf(t *testing.T) {
	at := time.Date(2024, 6, 10, 23, 45, 0, 0, time.Local)
	d := member.DateOf(at)
	if d.String() != "2024-06-10" {
		t.Errorf("DateOf() = %s", d)
	}
}

// TestDateIsZero tests zero-value detection.
func TestDateIsZero(t *testing.T) {
	var zero member.Date
	if !zero.IsZero() {
		t.Error("zero Date not detected")
	}
	if member.NewDate(2024, time.January, 1).IsZero() {
		t.Error("real date reported zero")
	}
}

// TestNewDateNormalizes tests calendar overflow normalization.
func TestNewDateNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  string
	}{
		{"feb 30 leap year", 2024, time.February, 30, "2024-03-01"},
		{"month 13", 2024, time.Month(13), 1, "2025-01-01"},
		{"day zero", 2024, time.March, 0, "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := member.NewDate(tt.year, tt.month, tt.day)
			if got.String() != tt.want {
				t.Errorf("NewDate = %s, want %s", got, tt.want)
			}
		})
	}
}
