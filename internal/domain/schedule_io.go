package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidScheduleJSON = errors.New("invalid schedule json")

// ScheduleExport est le format d'import/export des fenêtres.
type ScheduleExport struct {
	Schedule      []ScheduleRule `json:"schedule" yaml:"schedule"`
	OneTimeEvents []OneTimeEvent `json:"one_time_events" yaml:"one_time_events"`
}

func ExportSchedule(s Settings) ScheduleExport {
	return ScheduleExport{
		Schedule:      SanitizeSchedule(s.Schedule),
		OneTimeEvents: SanitizeOneTimeEvents(s.OneTimeEvents),
	}
}

// ImportSchedule décode un export. Un tableau nu est lu comme la liste
// hebdomadaire. Les lignes invalides sont ignorées, pas rejetées.
func ImportSchedule(raw []byte) (ScheduleExport, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ScheduleExport{}, ErrInvalidScheduleJSON
	}

	var rules, events any
	switch v := decoded.(type) {
	case []any:
		rules = v
	case map[string]any:
		rules = v["schedule"]
		events = v["one_time_events"]
	default:
		return ScheduleExport{}, ErrInvalidScheduleJSON
	}

	return ScheduleExport{
		Schedule:      scheduleRows(rules),
		OneTimeEvents: eventRows(events),
	}, nil
}

func scheduleRows(v any) []ScheduleRule {
	out := []ScheduleRule{}
	rows, ok := v.([]any)
	if !ok {
		return out
	}
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		day, ok := intField(row["day"])
		if !ok {
			continue
		}
		rule := ScheduleRule{Day: day, Start: textField(row["start"]), End: textField(row["end"])}
		if validRule(rule) {
			out = append(out, rule)
		}
	}
	return out
}

func eventRows(v any) []OneTimeEvent {
	out := []OneTimeEvent{}
	rows, ok := v.([]any)
	if !ok {
		return out
	}
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		ev := OneTimeEvent{Date: textField(row["date"]), Start: textField(row["start"]), End: textField(row["end"])}
		if validEvent(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// SanitizeSchedule garde uniquement les lignes valides.
func SanitizeSchedule(rules []ScheduleRule) []ScheduleRule {
	out := make([]ScheduleRule, 0, len(rules))
	for _, r := range rules {
		r.Start = strings.TrimSpace(r.Start)
		r.End = strings.TrimSpace(r.End)
		if validRule(r) {
			out = append(out, r)
		}
	}
	return out
}

// SanitizeOneTimeEvents garde uniquement les lignes valides
// (date calendaire réelle, heures HH:MM).
func SanitizeOneTimeEvents(events []OneTimeEvent) []OneTimeEvent {
	out := make([]OneTimeEvent, 0, len(events))
	for _, ev := range events {
		ev.Date = strings.TrimSpace(ev.Date)
		ev.Start = strings.TrimSpace(ev.Start)
		ev.End = strings.TrimSpace(ev.End)
		if validEvent(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func validRule(r ScheduleRule) bool {
	if r.Day < 0 || r.Day > 6 {
		return false
	}
	_, okStart := ParseHHMM(r.Start)
	_, okEnd := ParseHHMM(r.End)
	return okStart && okEnd
}

func validEvent(ev OneTimeEvent) bool {
	if !datePattern.MatchString(ev.Date) {
		return false
	}
	if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
		return false
	}
	_, okStart := ParseHHMM(ev.Start)
	_, okEnd := ParseHHMM(ev.End)
	return okStart && okEnd
}

func intField(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func textField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
