package domain

import (
	"regexp"
	"strconv"
	"time"
)

// ScheduleRule est une fenêtre hebdomadaire (day: 0 = dimanche).
// end < start (en minutes) = fenêtre de nuit qui déborde sur le lendemain.
type ScheduleRule struct {
	Day   int    `json:"day" yaml:"day"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// OneTimeEvent est une fenêtre ponctuelle à une date donnée (YYYY-MM-DD).
type OneTimeEvent struct {
	Date  string `json:"date" yaml:"date"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

var (
	hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseHHMM convertit "HH:MM" en minutes depuis minuit.
func ParseHHMM(s string) (int, bool) {
	if !hhmmPattern.MatchString(s) {
		return 0, false
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// LoadLocation renvoie la zone IANA demandée, ou UTC si elle est inconnue.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsInWindow indique si "now" tombe dans une fenêtre configurée.
// Sans aucune fenêtre, la vérification live est toujours active.
func IsInWindow(now time.Time, timezone string, rules []ScheduleRule, events []OneTimeEvent) bool {
	if len(rules) == 0 && len(events) == 0 {
		return true
	}

	loc := LoadLocation(timezone)
	local := now.In(loc)

	for _, ev := range events {
		if eventContains(ev, local, loc) {
			return true
		}
	}

	day := int(local.Weekday())
	yesterday := (day + 6) % 7
	minutes := local.Hour()*60 + local.Minute()

	for _, rule := range rules {
		start, ok := ParseHHMM(rule.Start)
		if !ok {
			continue
		}
		end, ok := ParseHHMM(rule.End)
		if !ok {
			continue
		}

		if end < start {
			// Fenêtre de nuit (ex: 23:00 -> 01:00): les deux côtés de minuit.
			if (rule.Day == day && minutes >= start) || (rule.Day == yesterday && minutes <= end) {
				return true
			}
			continue
		}
		if rule.Day == day && minutes >= start && minutes <= end {
			return true
		}
	}
	return false
}

func eventContains(ev OneTimeEvent, now time.Time, loc *time.Location) bool {
	if !datePattern.MatchString(ev.Date) {
		return false
	}
	start, ok := ParseHHMM(ev.Start)
	if !ok {
		return false
	}
	end, ok := ParseHHMM(ev.End)
	if !ok {
		return false
	}

	startAt, err := time.ParseInLocation("2006-01-02 15:04", ev.Date+" "+ev.Start, loc)
	if err != nil {
		return false
	}
	endAt, err := time.ParseInLocation("2006-01-02 15:04", ev.Date+" "+ev.End, loc)
	if err != nil {
		return false
	}
	if end < start {
		endAt = endAt.AddDate(0, 0, 1)
	}

	// Granularité minute, comme pour les règles hebdomadaires.
	now = now.Truncate(time.Minute)
	return !now.Before(startAt) && !now.After(endAt)
}
