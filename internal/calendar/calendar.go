// Package calendar provides the week identifier and weekday arithmetic used
// by the planner. A WeekID names one Monday-to-Sunday span as "{year}-{week}"
// using ISO week numbering; stepping between weeks treats every year as a
// flat 52 weeks (see StepWeek).
package calendar

import (
	"fmt"
	"time"
)

// DayName is a weekday in the planner's canonical Monday-first ordering.
type DayName string

const (
	Monday    DayName = "Monday"
	Tuesday   DayName = "Tuesday"
	Wednesday DayName = "Wednesday"
	Thursday  DayName = "Thursday"
	Friday    DayName = "Friday"
	Saturday  DayName = "Saturday"
	Sunday    DayName = "Sunday"
)

// Days is the canonical weekday ordering. All offset arithmetic and
// per-day iteration in the planner goes through this table.
var Days = [7]DayName{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the zero-based position of d in the canonical ordering,
// or -1 if d is not a known weekday.
func (d DayName) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven canonical weekday names.
func (d DayName) Valid() bool {
	return d.Index() >= 0
}

// Shift returns the weekday offset days after d, wrapping modulo 7.
// Shifting an unknown day returns d unchanged.
func (d DayName) Shift(offset int) DayName {
	idx := d.Index()
	if idx < 0 {
		return d
	}
	n := len(Days)
	idx = ((idx+offset)%n + n) % n
	return Days[idx]
}

// WeekID identifies one week as "{year}-{week}" with a two-digit week
// number, e.g. "2026-07". WeekIDs sort in chronological order.
type WeekID string

// weeksPerYear is the stepping bound. Real ISO years occasionally have 53
// weeks; the planner deliberately keeps the flat 52-week arithmetic its
// data was written with, so week 53 never appears in a generated WeekID.
const weeksPerYear = 52

// MakeWeekID builds a WeekID from a year and a week number.
func MakeWeekID(year, week int) WeekID {
	return WeekID(fmt.Sprintf("%d-%02d", year, week))
}

// ParseWeekID splits a WeekID into its year and week number. Malformed
// identifiers are a caller bug (WeekIDs are only ever generated here),
// so this fails rather than guessing.
func ParseWeekID(id WeekID) (year, week int, err error) {
	if _, err := fmt.Sscanf(string(id), "%d-%d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("malformed week id %q: %w", id, err)
	}
	if week < 1 {
		return 0, 0, fmt.Errorf("malformed week id %q: week out of range", id)
	}
	return year, week, nil
}

// WeekIDOf returns the WeekID containing t. Week numbering follows the
// ISO rule (a week belongs to the year of its Thursday), so every date
// in the same Monday-to-Sunday span maps to the same WeekID.
func WeekIDOf(t time.Time) WeekID {
	year, week := t.ISOWeek()
	return MakeWeekID(year, week)
}

// MondayOf returns the Monday anchoring the given week, at midnight local
// time. January 4th is always in week 1, so the Monday of its week plus
// (week-1)*7 days lands on the target.
func MondayOf(id WeekID) (time.Time, error) {
	year, week, err := ParseWeekID(id)
	if err != nil {
		return time.Time{}, err
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	monday := jan4.AddDate(0, 0, -mondayOffset(jan4.Weekday()))
	return monday.AddDate(0, 0, (week-1)*7), nil
}

// DateOfDay returns the calendar date of the named weekday within a week.
func DateOfDay(id WeekID, day DayName) (time.Time, error) {
	idx := day.Index()
	if idx < 0 {
		return time.Time{}, fmt.Errorf("unknown day name %q", day)
	}
	monday, err := MondayOf(id)
	if err != nil {
		return time.Time{}, err
	}
	return monday.AddDate(0, 0, idx), nil
}

// DayNameOf returns the canonical weekday name for t.
func DayNameOf(t time.Time) DayName {
	return Days[mondayOffset(t.Weekday())]
}

// StepWeek returns the WeekID offset whole weeks from id. Year rollover
// uses the flat 52-week policy: stepping forward from week 52 yields week
// 1 of the next year, and stepping back from week 1 yields week 52 of the
// previous year, regardless of whether the year really has 53 ISO weeks.
func StepWeek(id WeekID, offset int) (WeekID, error) {
	year, week, err := ParseWeekID(id)
	if err != nil {
		return "", err
	}
	// A week 53 can only come from WeekIDOf in a 53-week ISO year. Backward
	// steps apply the offset to the raw week first, so the week before 53
	// is 52; forward steps fold 53 onto the grid's week 52 slot, so the
	// week after 53 is week 1 of the next year.
	if week > weeksPerYear {
		if offset < 0 {
			week += offset
			offset = 0
		} else {
			week = weeksPerYear
		}
	}
	n := year*weeksPerYear + (week - 1) + offset
	year = n / weeksPerYear
	week = n % weeksPerYear
	if week < 0 {
		week += weeksPerYear
		year--
	}
	return MakeWeekID(year, week+1), nil
}

// mondayOffset converts Go's Sunday-first weekday to a Monday-first index.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
