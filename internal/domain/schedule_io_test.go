package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImportSchedule_ObjectDropsInvalidRows(t *testing.T) {
	raw := []byte(`{
		"schedule": [
			{"day": 0, "start": "10:00", "end": "12:00"},
			{"day": "3", "start": "19:00", "end": "20:30"},
			{"day": 7, "start": "10:00", "end": "12:00"},
			{"day": 1, "start": "25:00", "end": "12:00"},
			"garbage"
		],
		"one_time_events": [
			{"date": "2026-12-24", "start": "23:00", "end": "01:00"},
			{"date": "2026-02-30", "start": "10:00", "end": "11:00"}
		]
	}`)

	got, err := ImportSchedule(raw)
	if err != nil {
		t.Fatalf("ImportSchedule: %v", err)
	}
	want := ScheduleExport{
		Schedule: []ScheduleRule{
			{Day: 0, Start: "10:00", End: "12:00"},
			{Day: 3, Start: "19:00", End: "20:30"},
		},
		OneTimeEvents: []OneTimeEvent{{Date: "2026-12-24", Start: "23:00", End: "01:00"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ImportSchedule mismatch (-want +got):\n%s", diff)
	}
}

func TestImportSchedule_BareArray(t *testing.T) {
	got, err := ImportSchedule([]byte(`[{"day": 6, "start": "23:00", "end": "01:00"}]`))
	if err != nil {
		t.Fatalf("ImportSchedule: %v", err)
	}
	if len(got.Schedule) != 1 || len(got.OneTimeEvents) != 0 {
		t.Fatalf("bare array: want 1 rule and 0 events, got %+v", got)
	}
}

func TestImportSchedule_InvalidJSON(t *testing.T) {
	for _, raw := range []string{`not json`, `"a string"`, `42`} {
		if _, err := ImportSchedule([]byte(raw)); !errors.Is(err, ErrInvalidScheduleJSON) {
			t.Fatalf("ImportSchedule(%q): want ErrInvalidScheduleJSON, got %v", raw, err)
		}
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Schedule = []ScheduleRule{{Day: 0, Start: "09:30", End: "12:15"}}
	s.OneTimeEvents = []OneTimeEvent{{Date: "2026-04-05", Start: "06:00", End: "08:00"}}

	raw, err := json.Marshal(ExportSchedule(s))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ImportSchedule(raw)
	if err != nil {
		t.Fatalf("ImportSchedule: %v", err)
	}
	if diff := cmp.Diff(ExportSchedule(s), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
