// Package weekcal provides ISO week-date arithmetic for the guard schedule.
// All dates are normalized to UTC midnight so they can be compared and used
// as map keys without timezone surprises.
package weekcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const daysPerWeek = 7

// Week identifies one ISO Monday-to-Sunday week.
type Week struct {
	Year   int
	Number int
}

// WeekOf returns the ISO week containing t.
func WeekOf(t time.Time) Week {
	year, number := t.ISOWeek()
	return Week{Year: year, Number: number}
}

// Parse reads the canonical "2025-W10" encoding. Surrounding whitespace is
// tolerated; a week number that does not exist in the given ISO year is not.
func Parse(raw string) (Week, error) {
	value := strings.TrimSpace(raw)
	parts := strings.SplitN(value, "-W", 2)
	if len(parts) != 2 {
		return Week{}, fmt.Errorf("invalid week id %q, expected YYYY-Wnn", raw)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Week{}, fmt.Errorf("invalid year in week id %q: %w", raw, err)
	}
	number, err := strconv.Atoi(parts[1])
	if err != nil {
		return Week{}, fmt.Errorf("invalid week number in week id %q: %w", raw, err)
	}

	week := Week{Year: year, Number: number}
	if !week.Valid() {
		return Week{}, fmt.Errorf("week id %q does not exist in ISO year %d", raw, year)
	}

	return week, nil
}

// MustParse is Parse for literals in tests and fixtures. Panics on bad input.
func MustParse(raw string) Week {
	week, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return week
}

// String formats the canonical encoding used as the storage grouping key.
func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}

// Valid reports whether the (year, number) pair denotes a real ISO week.
// Week 53 only exists in long years, so the Monday must round-trip.
func (w Week) Valid() bool {
	if w.Year < 1 || w.Number < 1 || w.Number > 53 {
		return false
	}
	return WeekOf(w.Monday()) == w
}

// Monday returns the Monday the week starts on. January 4 always falls in
// ISO week 1 of its year, which anchors the arithmetic across year
// boundaries without any format-directive ambiguity.
func (w Week) Monday() time.Time {
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return MondayOf(jan4).AddDate(0, 0, (w.Number-1)*daysPerWeek)
}

// Dates returns the week's 7 consecutive days, Monday first.
func (w Week) Dates() []time.Time {
	monday := w.Monday()
	out := make([]time.Time, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		out = append(out, monday.AddDate(0, 0, i))
	}
	return out
}

// Before reports whether w starts before other.
func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Number < other.Number
}

// Normalize floors t to its civil date at UTC midnight.
func Normalize(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MondayOf floors t to the Monday of its Monday-to-Sunday week.
func MondayOf(t time.Time) time.Time {
	day := Normalize(t)
	offset := (int(day.Weekday()) + 6) % daysPerWeek
	return day.AddDate(0, 0, -offset)
}

// UpcomingMondays lists count Mondays spaced 7 days apart, starting from the
// first Monday strictly after from+7 days: the nearest week that is not the
// one already underway and not the immediately upcoming one.
func UpcomingMondays(from time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}

	start := MondayOf(from.AddDate(0, 0, daysPerWeek)).AddDate(0, 0, daysPerWeek)
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, start.AddDate(0, 0, i*daysPerWeek))
	}
	return out
}
