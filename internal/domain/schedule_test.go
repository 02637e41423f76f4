package domain

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", name, err)
	}
	return loc
}

func TestIsInWindow_EmptyIsAlwaysTrue(t *testing.T) {
	now := time.Date(2026, 3, 4, 3, 17, 0, 0, time.UTC)
	if !IsInWindow(now, "America/Toronto", nil, nil) {
		t.Fatalf("empty schedule: want true")
	}
}

func TestIsInWindow_WeeklyRule(t *testing.T) {
	loc := mustLoc(t, "America/Toronto")
	rules := []ScheduleRule{{Day: 0, Start: "10:00", End: "12:00"}}

	sunday := time.Date(2026, 10, 18, 11, 0, 0, 0, loc)
	if sunday.Weekday() != time.Sunday {
		t.Fatalf("fixture: want Sunday, got %s", sunday.Weekday())
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"inside", sunday, true},
		{"start inclusive", time.Date(2026, 10, 18, 10, 0, 0, 0, loc), true},
		{"end inclusive", time.Date(2026, 10, 18, 12, 0, 59, 0, loc), true},
		{"after end", time.Date(2026, 10, 18, 12, 1, 0, 0, loc), false},
		{"other day", time.Date(2026, 10, 19, 11, 0, 0, 0, loc), false},
		// 15:00 UTC = 11:00 à Toronto (EDT).
		{"utc input", time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInWindow(tc.now, "America/Toronto", rules, nil); got != tc.want {
				t.Fatalf("IsInWindow(%s): want %v, got %v", tc.now, tc.want, got)
			}
		})
	}
}

func TestIsInWindow_OvernightWeeklyRule(t *testing.T) {
	loc := mustLoc(t, "America/Toronto")
	// Samedi 23:00 -> dimanche 01:00.
	rules := []ScheduleRule{{Day: 6, Start: "23:00", End: "01:00"}}

	if !IsInWindow(time.Date(2026, 10, 17, 23, 30, 0, 0, loc), "America/Toronto", rules, nil) {
		t.Fatalf("saturday 23:30: want true")
	}
	if !IsInWindow(time.Date(2026, 10, 18, 0, 30, 0, 0, loc), "America/Toronto", rules, nil) {
		t.Fatalf("sunday 00:30: want true")
	}
	if IsInWindow(time.Date(2026, 10, 18, 1, 30, 0, 0, loc), "America/Toronto", rules, nil) {
		t.Fatalf("sunday 01:30: want false")
	}
	if IsInWindow(time.Date(2026, 10, 17, 0, 30, 0, 0, loc), "America/Toronto", rules, nil) {
		t.Fatalf("saturday 00:30: want false")
	}
}

func TestIsInWindow_OvernightOneTimeEvent(t *testing.T) {
	loc := mustLoc(t, "America/Toronto")
	events := []OneTimeEvent{{Date: "2026-12-24", Start: "23:00", End: "01:00"}}

	if !IsInWindow(time.Date(2026, 12, 25, 0, 30, 0, 0, loc), "America/Toronto", nil, events) {
		t.Fatalf("dec 25 00:30: want true")
	}
	if IsInWindow(time.Date(2026, 12, 25, 1, 30, 0, 0, loc), "America/Toronto", nil, events) {
		t.Fatalf("dec 25 01:30: want false")
	}
	if IsInWindow(time.Date(2026, 12, 24, 22, 59, 0, 0, loc), "America/Toronto", nil, events) {
		t.Fatalf("dec 24 22:59: want false")
	}
}

func TestIsInWindow_InvalidRowsIgnored(t *testing.T) {
	now := time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)
	rules := []ScheduleRule{{Day: 0, Start: "bad", End: "12:00"}}
	events := []OneTimeEvent{{Date: "2026-13-40", Start: "00:00", End: "23:59"}}
	if IsInWindow(now, "UTC", rules, events) {
		t.Fatalf("invalid rows only: want false")
	}
}

func TestIsInWindow_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	rules := []ScheduleRule{{Day: 0, Start: "10:00", End: "12:00"}}
	now := time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)
	if !IsInWindow(now, "Mars/Olympus", rules, nil) {
		t.Fatalf("unknown timezone: want UTC evaluation")
	}
}

func TestParseHHMM(t *testing.T) {
	cases := map[string]struct {
		min int
		ok  bool
	}{
		"00:00": {0, true},
		"23:59": {1439, true},
		"24:00": {0, false},
		"12:60": {0, false},
		"9:00":  {0, false},
		"":      {0, false},
	}
	for in, want := range cases {
		got, ok := ParseHHMM(in)
		if ok != want.ok || got != want.min {
			t.Fatalf("ParseHHMM(%q): want (%d,%v), got (%d,%v)", in, want.min, want.ok, got, ok)
		}
	}
}
