// Package dates derives reminder dates and urgency tiers from the loosely
// formatted date strings carried by client records.
package dates

import (
	"strings"
	"time"
)

// ActivationOffsetDays is the gap between an activation and its follow-up.
const ActivationOffsetDays = 15

// ISOLayout is the canonical date layout used for generated dates.
const ISOLayout = "2006-01-02"

// Tier classifies how close a date is relative to today.
type Tier string

const (
	TierOverdue Tier = "Vermelho"
	TierUrgent  Tier = "Laranja"
	TierSoon    Tier = "Amarelo"
	TierOnTrack Tier = "Verde"
	TierNoDate  Tier = "Sem Data"
)

// Tiers lists every tier in the order the list view offers them as filters.
var Tiers = []Tier{TierOnTrack, TierSoon, TierUrgent, TierOverdue, TierNoDate}

// ParseTier returns the tier matching value, ignoring case.
func ParseTier(value string) (Tier, bool) {
	for _, tier := range Tiers {
		if strings.EqualFold(strings.TrimSpace(value), string(tier)) {
			return tier, true
		}
	}
	return "", false
}

// layouts are tried in order; the first match also decides the output format.
var layouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	ISOLayout,
	"02/01/2006",
}

// IsUnknown reports whether value is empty or one of the "no date" sentinels.
func IsUnknown(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "N/A", "---":
		return true
	}
	return false
}

// Parse reads value using the accepted layouts and returns the layout that matched.
func Parse(value string) (time.Time, string, bool) {
	if IsUnknown(value) {
		return time.Time{}, "", false
	}
	trimmed := strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// AddDays shifts value by days calendar days, keeping its original layout.
// Missing or invalid input yields an empty string.
func AddDays(value string, days int) string {
	t, layout, ok := Parse(value)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, days).Format(layout)
}

// NextActivation returns the follow-up date for an activation date.
func NextActivation(activation string) string {
	return AddDays(activation, ActivationOffsetDays)
}

// DaysUntil returns the calendar-day difference between today (taken from
// now) and value. Time of day is ignored on both sides.
func DaysUntil(value string, now time.Time) (int, bool) {
	t, _, ok := Parse(value)
	if !ok {
		return 0, false
	}
	target := civil(t.Year(), t.Month(), t.Day())
	today := civil(now.Year(), now.Month(), now.Day())
	return int(target.Sub(today).Hours() / 24), true
}

// Classify buckets value into an urgency tier. Today counts as TierUrgent.
func Classify(value string, now time.Time) Tier {
	diff, ok := DaysUntil(value, now)
	switch {
	case !ok:
		return TierNoDate
	case diff < 0:
		return TierOverdue
	case diff <= 2:
		return TierUrgent
	case diff <= 7:
		return TierSoon
	default:
		return TierOnTrack
	}
}

// Overdue reports whether value is a valid date strictly before today.
func Overdue(value string, now time.Time) bool {
	diff, ok := DaysUntil(value, now)
	return ok && diff < 0
}

// SameMonth reports whether value falls in the same calendar month as now.
func SameMonth(value string, now time.Time) bool {
	t, _, ok := Parse(value)
	if !ok {
		return false
	}
	return t.Year() == now.Year() && t.Month() == now.Month()
}

// Today formats now as an ISO date.
func Today(now time.Time) string {
	return now.Format(ISOLayout)
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
